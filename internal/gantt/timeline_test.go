package gantt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ganttview/internal/models"
	"github.com/starford/ganttview/internal/msproject"
)

func at(s string) *time.Time {
	v, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &v
}

func TestDateRange_Pads(t *testing.T) {
	tasks := []models.Task{
		{UID: "1", ParsedStart: at("2025-10-27T08:00:00"), ParsedFinish: at("2025-10-29T17:00:00")},
		{UID: "2", ParsedStart: at("2025-10-28T08:00:00"), ParsedFinish: at("2025-11-03T17:00:00")},
		{UID: "3"},
	}
	r := DateRange(tasks, time.Now())
	assert.Equal(t, *at("2025-10-24T08:00:00"), r.Start)
	assert.Equal(t, *at("2025-11-10T17:00:00"), r.End)
}

func TestDateRange_NoDatesIsZeroWidth(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r := DateRange([]models.Task{{UID: "1"}}, now)
	assert.Equal(t, Range{Start: now, End: now}, r)
	assert.Zero(t, r.Days())

	assert.Equal(t, Range{Start: now, End: now}, DateRange(nil, now))
}

func TestDateRange_Fallbacks(t *testing.T) {
	onlyStarts := []models.Task{
		{UID: "1", ParsedStart: at("2025-10-27T00:00:00")},
		{UID: "2", ParsedStart: at("2025-10-30T00:00:00")},
	}
	r := DateRange(onlyStarts, time.Now())
	assert.Equal(t, *at("2025-10-24T00:00:00"), r.Start)
	assert.Equal(t, *at("2025-11-06T00:00:00"), r.End)

	onlyFinishes := []models.Task{{UID: "1", ParsedFinish: at("2025-10-27T00:00:00")}}
	r = DateRange(onlyFinishes, time.Now())
	assert.Equal(t, *at("2025-10-24T00:00:00"), r.Start)
	assert.Equal(t, *at("2025-11-03T00:00:00"), r.End)
}

func TestDayCells(t *testing.T) {
	// Friday 31 Oct 2025 to Tuesday 4 Nov 2025 plus a few hours.
	r := Range{Start: *at("2025-10-31T00:00:00"), End: *at("2025-11-04T06:00:00")}
	cells := DayCells(r, 10)
	require.Len(t, cells, 5)

	assert.Equal(t, 0.0, cells[0].X)
	assert.Equal(t, 40.0, cells[4].X)

	assert.True(t, cells[0].MonthStart, "first cell always starts a month label")
	assert.True(t, cells[1].MonthStart, "1 November")
	assert.False(t, cells[2].MonthStart)

	assert.False(t, cells[0].Weekend)
	assert.True(t, cells[1].Weekend)
	assert.True(t, cells[2].Weekend)
	assert.False(t, cells[3].Weekend)
}

func TestDayCells_ZeroWidthRangeHasOneCell(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cells := DayCells(Range{Start: now, End: now}, 34)
	require.Len(t, cells, 1)
	assert.Equal(t, now, cells[0].Date)
}

func TestWeekCells_MondayAligned(t *testing.T) {
	// Friday start: partial first week, then Monday 3 Nov.
	r := Range{Start: *at("2025-10-31T00:00:00"), End: *at("2025-11-12T00:00:00")}
	weeks := WeekCells(DayCells(r, 10), 10)
	require.Len(t, weeks, 3)
	assert.Equal(t, 30.0, weeks[0].Width)
	assert.Equal(t, time.Monday, weeks[1].Start.Weekday())
	assert.Equal(t, 30.0, weeks[1].X)
	assert.Equal(t, 70.0, weeks[1].Width)
	assert.Equal(t, 45, weeks[1].Week)
	assert.Equal(t, 20.0, weeks[2].Width)
}

func TestBarFor(t *testing.T) {
	origin := *at("2025-10-24T00:00:00")
	opts := Options{PixelsPerDay: 40, RowHeight: 40, HeaderHeight: 48, Mode: ModeDay}

	t.Run("normal with progress", func(t *testing.T) {
		task := models.Task{UID: "1", PercentComplete: "25",
			ParsedStart: at("2025-10-27T00:00:00"), ParsedFinish: at("2025-10-29T00:00:00")}
		b := BarFor(&task, origin, opts)
		assert.Equal(t, BarNormal, b.Kind)
		assert.Equal(t, ClassNormal, b.Class)
		assert.Equal(t, 120.0, b.X)
		assert.Equal(t, 80.0, b.Width)
		assert.Equal(t, 20.0, b.Progress)
		assert.Equal(t, NormalBarHeight, b.Height)
		assert.Equal(t, 10.0, b.Y)
		assert.True(t, b.Positioned)
	})

	t.Run("zero duration gets quarter day floor", func(t *testing.T) {
		task := models.Task{UID: "1", ParsedStart: at("2025-10-27T00:00:00"), ParsedFinish: at("2025-10-27T00:00:00")}
		b := BarFor(&task, origin, opts)
		assert.Equal(t, 10.0, b.Width)
		assert.Zero(t, b.Progress)
	})

	t.Run("milestone is a fixed diamond", func(t *testing.T) {
		task := models.Task{UID: "1", Milestone: "1", PercentComplete: "100",
			ParsedStart: at("2025-10-27T00:00:00"), ParsedFinish: at("2025-11-27T00:00:00")}
		b := BarFor(&task, origin, opts)
		assert.Equal(t, BarMilestone, b.Kind)
		assert.Equal(t, ClassMilestone, b.Class)
		assert.Equal(t, MilestoneSize, b.Width)
		assert.Equal(t, MilestoneSize, b.Height)
		assert.Zero(t, b.Progress)
	})

	t.Run("summary is thin without progress", func(t *testing.T) {
		task := models.Task{UID: "1", Summary: "1", PercentComplete: "50",
			ParsedStart: at("2025-10-27T00:00:00"), ParsedFinish: at("2025-10-28T00:00:00")}
		b := BarFor(&task, origin, opts)
		assert.Equal(t, BarSummary, b.Kind)
		assert.Equal(t, ClassSummary, b.Class)
		assert.Equal(t, SummaryBarHeight, b.Height)
		assert.Zero(t, b.Progress)
	})

	t.Run("complete", func(t *testing.T) {
		task := models.Task{UID: "1", PercentComplete: "100",
			ParsedStart: at("2025-10-27T00:00:00"), ParsedFinish: at("2025-10-28T00:00:00")}
		b := BarFor(&task, origin, opts)
		assert.Equal(t, ClassComplete, b.Class)
		assert.Equal(t, b.Width, b.Progress)
	})

	t.Run("no start is not positioned", func(t *testing.T) {
		task := models.Task{UID: "1"}
		b := BarFor(&task, origin, opts)
		assert.False(t, b.Positioned)
		assert.Zero(t, b.X)
		assert.Equal(t, 10.0, b.Width)
	})
}

func TestLayout_Deterministic(t *testing.T) {
	p, err := msproject.Parse([]byte(msproject.Sample))
	require.NoError(t, err)
	r := DateRange(p.Tasks, time.Now())

	a := Layout(r, p.Tasks, DefaultOptions())
	b := Layout(r, p.Tasks, DefaultOptions())
	assert.Equal(t, a, b)

	require.Len(t, a.Rows, len(p.Tasks))
	assert.Equal(t, 48.0, a.Rows[0].Y)
	assert.Equal(t, 88.0, a.Rows[1].Y)
	assert.Equal(t, 48.0+40.0*float64(len(p.Tasks)), a.Height)
	assert.Equal(t, float64(len(a.Days))*34, a.Width)
	assert.NotEmpty(t, a.Weeks)
}

func TestLayout_NormalizesOptions(t *testing.T) {
	c := Layout(Range{}, nil, Options{})
	assert.Equal(t, DefaultOptions(), c.Options)
	assert.Len(t, c.Days, 1)
	assert.Empty(t, c.Rows)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(nil, ""))
	assert.Equal(t, "27/10/2025", FormatDate(at("2025-10-27T08:00:00"), ""))
	assert.Equal(t, "2025-10-27", FormatDate(at("2025-10-27T08:00:00"), "2006-01-02"))
}

func TestNewView(t *testing.T) {
	p, err := msproject.Parse([]byte(msproject.Sample))
	require.NoError(t, err)

	now := time.Now()
	full := NewView(p, nil, now, DefaultOptions())
	folded := NewView(p, NewUIDSet("2", "6"), now, DefaultOptions())

	assert.NoError(t, full.OutlineErr)
	assert.Equal(t, full.Range, folded.Range, "range ignores collapse state")
	assert.Equal(t, []string{"1", "2", "6", "9", "10", "11"}, uids(folded.Visible))
	assert.Equal(t, "1,2,6,9", full.Collapsible.String())
}

func TestRenderSVG(t *testing.T) {
	p, err := msproject.Parse([]byte(msproject.Sample))
	require.NoError(t, err)
	v := NewView(p, NewUIDSet("6"), time.Now(), DefaultOptions())

	var buf bytes.Buffer
	err = RenderSVG(&buf, p, v.Chart, SVGOptions{
		Collapsed: v.Collapsed,
		ToggleURL: func(uid string) string { return "?collapsed=" + v.Collapsed.Toggle(uid).String() },
	})
	require.NoError(t, err)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<title>Warehouse Rollout</title>")
	assert.Contains(t, out, "<title>Site survey (100%)</title>")
	assert.Contains(t, out, "27/10/2025")
	assert.Contains(t, out, `href="?collapsed=2,6"`)
	assert.Contains(t, out, "▸")
	assert.Contains(t, out, "<polygon")
	assert.NotContains(t, out, "Scanner network", "children of a collapsed summary are hidden")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRenderSVG_EscapesNames(t *testing.T) {
	p := &models.Project{Name: "A & B", Tasks: []models.Task{
		{UID: "1", ID: "1", Name: `<Pour> "slab"`, ParsedStart: at("2025-10-27T00:00:00"), ParsedFinish: at("2025-10-28T00:00:00")},
	}}
	v := NewView(p, nil, time.Now(), DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, RenderSVG(&buf, p, v.Chart, SVGOptions{}))
	assert.Contains(t, buf.String(), "A &amp; B")
	assert.Contains(t, buf.String(), "&lt;Pour&gt; &quot;slab&quot;")
	assert.NotContains(t, buf.String(), "<a href")
}
