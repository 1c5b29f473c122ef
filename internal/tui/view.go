package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/models"
)

// Task table column widths in cells.
const (
	idWidth   = 4
	nameWidth = 32
	gap       = 1
)

// Timeline glyphs.
const (
	glyphMilestone = '◆'
	glyphSummary   = '▀'
	glyphDone      = '█'
	glyphRemaining = '▒'
	glyphWeekend   = '·'
	glyphExpanded  = "▾"
	glyphCollapsed = "▸"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	summaryStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	barStyles = map[gantt.BarClass]lipgloss.Style{
		gantt.ClassNormal:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		gantt.ClassSummary:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		gantt.ClassComplete:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		gantt.ClassMilestone: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	title := m.project.DisplayTitle()
	b.WriteString(titleStyle.Render(title))
	fmt.Fprintf(&b, "  %s → %s  %d/%d tasks  [%s]\n",
		gantt.FormatDate(&m.rng.Start, m.dateLayout), gantt.FormatDate(&m.rng.End, m.dateLayout),
		len(m.visible), len(m.project.Tasks), m.mode)
	if m.outlineErr != nil {
		b.WriteString(warnStyle.Render("warning: "+m.outlineErr.Error()) + "\n")
	}

	tableWidth := m.tableWidth()
	timelineWidth := m.width - tableWidth - 1
	if timelineWidth < 0 {
		timelineWidth = 0
	}
	sep := separatorStyle.Render("│")

	monthLine, scaleLine := m.headerLines(timelineWidth)
	b.WriteString(headerStyle.Render(pad("", tableWidth)) + sep + headerStyle.Render(monthLine) + "\n")
	b.WriteString(headerStyle.Render(m.tableHeader()) + sep + headerStyle.Render(scaleLine) + "\n")

	end := m.offset + m.rows()
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		t := &m.visible[i]
		left := m.tableRow(t)
		if i == m.cursor {
			left = cursorStyle.Render(left)
		} else if t.IsSummary() {
			left = summaryStyle.Render(left)
		}
		b.WriteString(left + sep + m.timelineRow(i, timelineWidth) + "\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move  enter toggle  c collapse all  e expand all  w day/week  ←/→ pan  q quit"))
	return b.String()
}

func (m *Model) dateWidth() int {
	return lipgloss.Width(gantt.FormatDate(&m.rng.Start, m.dateLayout))
}

func (m *Model) tableWidth() int {
	return idWidth + gap + nameWidth + gap + m.dateWidth() + gap + m.dateWidth()
}

func (m *Model) tableHeader() string {
	dw := m.dateWidth()
	return pad("ID", idWidth) + " " + pad("Task", nameWidth) + " " + pad("Start", dw) + " " + pad("Finish", dw)
}

func (m *Model) tableRow(t *models.Task) string {
	indent := strings.Repeat("  ", t.Level()-1)
	marker := "  "
	if m.collapsible.Has(t.UID) {
		marker = glyphExpanded + " "
		if m.collapsed.Has(t.UID) {
			marker = glyphCollapsed + " "
		}
	}
	dw := m.dateWidth()
	return pad(t.ID, idWidth) + " " +
		pad(indent+marker+t.Name, nameWidth) + " " +
		pad(gantt.FormatDate(t.ParsedStart, m.dateLayout), dw) + " " +
		pad(gantt.FormatDate(t.ParsedFinish, m.dateLayout), dw)
}

// headerLines renders the month line and the day or week line of the
// timeline, starting at the panned day.
func (m *Model) headerLines(width int) (string, string) {
	month := []rune(strings.Repeat(" ", width))
	scale := []rune(strings.Repeat(" ", width))
	origin := m.originCol()

	put := func(line []rune, col int, s string) {
		for i, r := range []rune(s) {
			if c := col + i; c >= 0 && c < len(line) {
				line[c] = r
			}
		}
	}

	for i, d := range m.chart.Days {
		col := int(math.Round(d.X)) - origin
		if col < 0 || col >= width {
			continue
		}
		if d.MonthStart || i == m.panDays {
			put(month, col, d.Date.Format("Jan 2006"))
		}
		if m.mode == gantt.ModeDay {
			put(scale, col, fmt.Sprintf("%-3d", d.Date.Day()))
		}
	}
	for _, wk := range m.chart.Weeks {
		col := int(math.Round(wk.X)) - origin
		if col >= 0 && col < width {
			put(scale, col, fmt.Sprintf("W%02d", wk.Week))
		}
	}
	return string(month), string(scale)
}

func (m *Model) originCol() int {
	return int(math.Round(float64(m.panDays) * m.colsPerDay()))
}

// timelineRow draws the bar of row i: a diamond for milestones, a thin bar
// for summaries and a filled/remaining bar for other tasks.
func (m *Model) timelineRow(i, width int) string {
	if width == 0 {
		return ""
	}
	row := m.chart.Rows[i]
	origin := m.originCol()
	cols := m.colsPerDay()

	cells := make([]rune, width)
	for c := range cells {
		cells[c] = ' '
	}
	for _, d := range m.chart.Days {
		if !d.Weekend {
			continue
		}
		start := int(math.Round(d.X)) - origin
		for c := start; c < start+int(cols); c++ {
			if c >= 0 && c < width {
				cells[c] = glyphWeekend
			}
		}
	}

	bar := row.Bar
	if !bar.Positioned {
		return string(cells)
	}

	from := int(math.Floor(bar.X)) - origin
	to := int(math.Ceil(bar.X+bar.Width)) - origin
	var glyphs []rune
	switch bar.Kind {
	case gantt.BarMilestone:
		to = from + 1
		glyphs = []rune{glyphMilestone}
	case gantt.BarSummary:
		glyphs = []rune(strings.Repeat(string(glyphSummary), max(to-from, 1)))
	default:
		n := max(to-from, 1)
		done := int(math.Round(bar.Progress))
		if done > n {
			done = n
		}
		glyphs = []rune(strings.Repeat(string(glyphDone), done) + strings.Repeat(string(glyphRemaining), n-done))
	}
	if to <= from {
		to = from + 1
	}

	lo, hi := max(from, 0), min(to, width)
	if lo >= hi {
		return string(cells)
	}
	style := barStyles[bar.Class]
	return string(cells[:lo]) + style.Render(string(glyphs[lo-from:hi-from])) + string(cells[hi:])
}

// pad truncates or right-pads s to exactly n display cells.
func pad(s string, n int) string {
	w := lipgloss.Width(s)
	if w > n {
		r := []rune(s)
		for lipgloss.Width(string(r)) > n-1 && len(r) > 0 {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", n-w)
}
