package gantt

import (
	"math"
	"time"

	"github.com/starford/ganttview/internal/models"
)

// Mode selects the header granularity.
type Mode string

const (
	ModeDay  Mode = "day"
	ModeWeek Mode = "week"
)

// Fixed bar geometry in pixels.
const (
	MilestoneSize    = 14.0
	NormalBarHeight  = 20.0
	SummaryBarHeight = 12.0
	SummaryCapSize   = 6.0
	LabelGap         = 8.0
)

// Options controls the timeline scale and row metrics.
type Options struct {
	PixelsPerDay float64 `json:"pixels_per_day"`
	RowHeight    float64 `json:"row_height"`
	HeaderHeight float64 `json:"header_height"`
	Mode         Mode    `json:"mode"`
}

// DefaultOptions returns the standard chart metrics.
func DefaultOptions() Options {
	return Options{
		PixelsPerDay: 34,
		RowHeight:    40,
		HeaderHeight: 48,
		Mode:         ModeWeek,
	}
}

// normalized fills zero or negative metrics with defaults.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.PixelsPerDay <= 0 {
		o.PixelsPerDay = def.PixelsPerDay
	}
	if o.RowHeight <= 0 {
		o.RowHeight = def.RowHeight
	}
	if o.HeaderHeight <= 0 {
		o.HeaderHeight = def.HeaderHeight
	}
	if o.Mode != ModeDay && o.Mode != ModeWeek {
		o.Mode = def.Mode
	}
	return o
}

// DayCell is one calendar-day column of the timeline header.
type DayCell struct {
	Date       time.Time `json:"date"`
	X          float64   `json:"x"`
	MonthStart bool      `json:"month_start"`
	Weekend    bool      `json:"weekend"`
}

// WeekCell groups day cells into weeks starting on Monday. The first cell
// may be partial.
type WeekCell struct {
	Start time.Time `json:"start"`
	Week  int       `json:"week"`
	X     float64   `json:"x"`
	Width float64   `json:"width"`
}

// BarKind is the shape of a task bar.
type BarKind string

const (
	BarNormal    BarKind = "normal"
	BarSummary   BarKind = "summary"
	BarMilestone BarKind = "milestone"
)

// BarClass is the colour class of a task bar.
type BarClass string

const (
	ClassNormal    BarClass = "normal"
	ClassSummary   BarClass = "summary"
	ClassComplete  BarClass = "complete"
	ClassMilestone BarClass = "milestone"
)

// Bar is the horizontal geometry of one task. X and Width are relative to
// the timeline origin; Y and Height are relative to the top of the row.
type Bar struct {
	Kind       BarKind  `json:"kind"`
	Class      BarClass `json:"class"`
	X          float64  `json:"x"`
	Width      float64  `json:"width"`
	Y          float64  `json:"y"`
	Height     float64  `json:"height"`
	Progress   float64  `json:"progress"`
	Positioned bool     `json:"positioned"`
	LabelX     float64  `json:"label_x"`
}

// Row is one visible task with its vertical offset and bar.
type Row struct {
	Task models.Task `json:"task"`
	Y    float64     `json:"y"`
	Bar  Bar         `json:"bar"`
}

// Chart is the full geometry of a rendered timeline.
type Chart struct {
	Range   Range      `json:"range"`
	Options Options    `json:"options"`
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Days    []DayCell  `json:"days"`
	Weeks   []WeekCell `json:"weeks,omitempty"`
	Rows    []Row      `json:"rows"`
}

// Position maps an instant to its x offset; nil maps to the origin.
func (c *Chart) Position(t *time.Time) float64 {
	return position(c.Range.Start, c.Options.PixelsPerDay, t)
}

func position(origin time.Time, ppd float64, t *time.Time) float64 {
	if t == nil {
		return 0
	}
	return float64(t.Sub(origin)) / float64(Day) * ppd
}

// Layout computes header cells and bar geometry for the visible tasks. It is
// pure: the same inputs always give the same chart.
func Layout(r Range, visible []models.Task, opts Options) *Chart {
	opts = opts.normalized()
	days := DayCells(r, opts.PixelsPerDay)

	c := &Chart{
		Range:   r,
		Options: opts,
		Width:   float64(len(days)) * opts.PixelsPerDay,
		Height:  opts.HeaderHeight + float64(len(visible))*opts.RowHeight,
		Days:    days,
		Rows:    make([]Row, 0, len(visible)),
	}
	if opts.Mode == ModeWeek {
		c.Weeks = WeekCells(days, opts.PixelsPerDay)
	}
	for i := range visible {
		c.Rows = append(c.Rows, Row{
			Task: visible[i],
			Y:    opts.HeaderHeight + float64(i)*opts.RowHeight,
			Bar:  BarFor(&visible[i], r.Start, opts),
		})
	}
	return c
}

// DayCells returns one cell per calendar day from r.Start, enough to cover
// r.End. A zero-width range still yields a single cell.
func DayCells(r Range, ppd float64) []DayCell {
	n := int(math.Ceil(r.Days()))
	if n < 1 {
		n = 1
	}
	cells := make([]DayCell, n)
	for i := range cells {
		d := r.Start.AddDate(0, 0, i)
		wd := d.Weekday()
		cells[i] = DayCell{
			Date:       d,
			X:          float64(i) * ppd,
			MonthStart: i == 0 || d.Day() == 1,
			Weekend:    wd == time.Saturday || wd == time.Sunday,
		}
	}
	return cells
}

// WeekCells groups day cells into Monday-aligned weeks.
func WeekCells(days []DayCell, ppd float64) []WeekCell {
	var weeks []WeekCell
	for i, d := range days {
		if i == 0 || d.Date.Weekday() == time.Monday {
			_, wk := d.Date.ISOWeek()
			weeks = append(weeks, WeekCell{Start: d.Date, Week: wk, X: d.X})
		}
		weeks[len(weeks)-1].Width += ppd
	}
	return weeks
}

// BarFor computes the bar of one task against the timeline origin.
//
// Normal and summary bars are at least a quarter day wide so zero-duration
// tasks stay visible; milestones are a fixed-size diamond. Tasks without a
// parsed start are laid out at the origin and flagged as not positioned.
func BarFor(t *models.Task, origin time.Time, opts Options) Bar {
	opts = opts.normalized()
	left := position(origin, opts.PixelsPerDay, t.ParsedStart)
	right := position(origin, opts.PixelsPerDay, t.ParsedFinish)

	b := Bar{
		Kind:       BarNormal,
		Class:      ClassNormal,
		X:          left,
		Width:      math.Max(opts.PixelsPerDay/4, right-left),
		Height:     NormalBarHeight,
		Positioned: t.ParsedStart != nil,
	}

	switch {
	case t.IsMilestone():
		b.Kind = BarMilestone
		b.Width = MilestoneSize
		b.Height = MilestoneSize
	case t.IsSummary():
		b.Kind = BarSummary
		b.Height = SummaryBarHeight
	}

	switch {
	case b.Kind == BarMilestone:
		b.Class = ClassMilestone
	case t.Percent() == 100:
		b.Class = ClassComplete
	case b.Kind == BarSummary:
		b.Class = ClassSummary
	}

	if b.Kind == BarNormal && t.Percent() > 0 {
		b.Progress = b.Width * float64(t.Percent()) / 100
	}

	b.Y = (opts.RowHeight - b.Height) / 2
	b.LabelX = b.X + b.Width + LabelGap
	return b
}
