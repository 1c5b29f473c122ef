package gantt

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/starford/ganttview/internal/models"
)

// Task table column layout, in pixels from the left edge.
const (
	TableWidth  = 440.0
	colID       = 12.0
	colName     = 52.0
	colStart    = 272.0
	colFinish   = 356.0
	indentStep  = 16.0
	maxNameRune = 26
)

// Fill colours per bar class.
var barFill = map[BarClass]string{
	ClassNormal:    "#3b82f6",
	ClassSummary:   "#1e293b",
	ClassComplete:  "#22c55e",
	ClassMilestone: "#f59e0b",
}

const (
	progressFill = "#1d4ed8"
	weekendFill  = "#f1f5f9"
	gridStroke   = "#e2e8f0"
	monthStroke  = "#94a3b8"
	textFill     = "#0f172a"
	mutedFill    = "#64748b"
)

// SVGOptions controls RenderSVG.
type SVGOptions struct {
	// DateLayout formats the start and finish columns. Empty uses
	// DefaultDateLayout.
	DateLayout string
	// Collapsed marks which collapse glyphs render as closed.
	Collapsed UIDSet
	// ToggleURL, when set, wraps each collapse glyph in a link to the
	// returned URL.
	ToggleURL func(uid string) string
}

// RenderSVG writes a two-pane chart: the task table on the left and the
// timeline on the right. Both panes share the chart's header and rows.
func RenderSVG(w io.Writer, p *models.Project, c *Chart, opts SVGOptions) error {
	var parents UIDSet
	if p != nil {
		parents = Collapsible(p.Tasks)
	}

	width := TableWidth + c.Width
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">
<defs>
<style>
text { font-family: Helvetica, Arial, sans-serif; font-size: 12px; fill: %s; }
.head { font-weight: bold; }
.muted { fill: %s; font-size: 11px; }
.toggle { cursor: pointer; }
</style>
</defs>
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, px(width), px(c.Height), px(width), px(c.Height), textFill, mutedFill)

	if p != nil {
		fmt.Fprintf(&b, "<title>%s</title>\n", escapeXML(p.DisplayTitle()))
	}

	writeTable(&b, c, parents, opts)
	writeTimeline(&b, c)

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(b *strings.Builder, c *Chart, parents UIDSet, opts SVGOptions) {
	hy := c.Options.HeaderHeight/2 + 4
	b.WriteString(`<g class="table">` + "\n")
	fmt.Fprintf(b, `<text class="head" x="%s" y="%s">ID</text>`+"\n", px(colID), px(hy))
	fmt.Fprintf(b, `<text class="head" x="%s" y="%s">Task</text>`+"\n", px(colName), px(hy))
	fmt.Fprintf(b, `<text class="head" x="%s" y="%s">Start</text>`+"\n", px(colStart), px(hy))
	fmt.Fprintf(b, `<text class="head" x="%s" y="%s">Finish</text>`+"\n", px(colFinish), px(hy))
	fmt.Fprintf(b, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
		px(c.Options.HeaderHeight), px(TableWidth), px(c.Options.HeaderHeight), monthStroke)

	for _, row := range c.Rows {
		t := row.Task
		ty := row.Y + c.Options.RowHeight/2 + 4
		nameX := colName + float64(t.Level()-1)*indentStep

		fmt.Fprintf(b, `<text class="muted" x="%s" y="%s">%s</text>`+"\n", px(colID), px(ty), escapeXML(t.ID))
		if parents.Has(t.UID) {
			glyph := "▾"
			if opts.Collapsed.Has(t.UID) {
				glyph = "▸"
			}
			el := fmt.Sprintf(`<text class="toggle" x="%s" y="%s">%s</text>`, px(nameX), px(ty), glyph)
			if opts.ToggleURL != nil {
				el = fmt.Sprintf(`<a href="%s">%s</a>`, escapeXML(opts.ToggleURL(t.UID)), el)
			}
			b.WriteString(el + "\n")
		}
		weight := ""
		if t.IsSummary() {
			weight = ` class="head"`
		}
		fmt.Fprintf(b, `<text%s x="%s" y="%s">%s</text>`+"\n", weight, px(nameX+indentStep), px(ty), escapeXML(truncate(t.Name, maxNameRune)))
		fmt.Fprintf(b, `<text class="muted" x="%s" y="%s">%s</text>`+"\n", px(colStart), px(ty), FormatDate(t.ParsedStart, opts.DateLayout))
		fmt.Fprintf(b, `<text class="muted" x="%s" y="%s">%s</text>`+"\n", px(colFinish), px(ty), FormatDate(t.ParsedFinish, opts.DateLayout))
		fmt.Fprintf(b, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			px(row.Y+c.Options.RowHeight), px(TableWidth), px(row.Y+c.Options.RowHeight), gridStroke)
	}
	fmt.Fprintf(b, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s"/>`+"\n",
		px(TableWidth), px(TableWidth), px(c.Height), monthStroke)
	b.WriteString("</g>\n")
}

func writeTimeline(b *strings.Builder, c *Chart) {
	ppd := c.Options.PixelsPerDay
	head := c.Options.HeaderHeight
	mid := head / 2

	fmt.Fprintf(b, `<g class="timeline" transform="translate(%s,0)">`+"\n", px(TableWidth))

	for _, d := range c.Days {
		if d.Weekend {
			fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
				px(d.X), px(head), px(ppd), px(c.Height-head), weekendFill)
		}
		stroke := gridStroke
		if d.MonthStart {
			stroke = monthStroke
			fmt.Fprintf(b, `<text class="head" x="%s" y="%s">%s</text>`+"\n",
				px(d.X+4), px(mid-6), d.Date.Format("Jan 2006"))
		}
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			px(d.X), px(mid), px(d.X), px(c.Height), stroke)
		if c.Options.Mode == ModeDay {
			fmt.Fprintf(b, `<text class="muted" x="%s" y="%s" text-anchor="middle">%d</text>`+"\n",
				px(d.X+ppd/2), px(head-8), d.Date.Day())
		}
	}
	for _, wk := range c.Weeks {
		fmt.Fprintf(b, `<text class="muted" x="%s" y="%s">W%02d %s</text>`+"\n",
			px(wk.X+4), px(head-8), wk.Week, wk.Start.Format("02/01"))
	}
	fmt.Fprintf(b, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
		px(head), px(c.Width), px(head), monthStroke)

	for _, row := range c.Rows {
		writeBar(b, row, c.Options.RowHeight)
	}
	b.WriteString("</g>\n")
}

func writeBar(b *strings.Builder, row Row, rowHeight float64) {
	bar := row.Bar
	if !bar.Positioned {
		return
	}
	t := row.Task
	fill := barFill[bar.Class]
	top := row.Y + bar.Y

	fmt.Fprintf(b, `<g class="bar %s"><title>%s (%d%%)</title>`+"\n", bar.Kind, escapeXML(t.Name), t.Percent())
	switch bar.Kind {
	case BarMilestone:
		half := MilestoneSize / 2
		cx, cy := bar.X+half, row.Y+rowHeight/2
		fmt.Fprintf(b, `<polygon points="%s,%s %s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
			px(cx), px(cy-half), px(cx+half), px(cy), px(cx), px(cy+half), px(cx-half), px(cy), fill)
	case BarSummary:
		bottom := top + bar.Height
		right := bar.X + bar.Width
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			px(bar.X), px(top), px(bar.Width), px(bar.Height), fill)
		fmt.Fprintf(b, `<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
			px(bar.X), px(bottom), px(bar.X+SummaryCapSize), px(bottom), px(bar.X), px(bottom+SummaryCapSize), fill)
		fmt.Fprintf(b, `<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`+"\n",
			px(right-SummaryCapSize), px(bottom), px(right), px(bottom), px(right), px(bottom+SummaryCapSize), fill)
	default:
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s"/>`+"\n",
			px(bar.X), px(top), px(bar.Width), px(bar.Height), fill)
		if bar.Progress > 0 {
			fmt.Fprintf(b, `<rect class="progress" x="%s" y="%s" width="%s" height="%s" rx="4" fill="%s" fill-opacity="0.6"/>`+"\n",
				px(bar.X), px(top), px(bar.Progress), px(bar.Height), progressFill)
		}
	}
	fmt.Fprintf(b, `<text x="%s" y="%s">%s</text>`+"\n",
		px(bar.LabelX), px(row.Y+rowHeight/2+4), escapeXML(t.Name))
	b.WriteString("</g>\n")
}

// px formats a coordinate with at most two decimals.
func px(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
