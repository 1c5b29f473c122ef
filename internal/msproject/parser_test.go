package msproject

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(tasks string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Project xmlns="http://schemas.microsoft.com/project">
  <Name>Demo</Name>
  <Title>Demo Title</Title>
  <StartDate>2025-10-27T08:00:00</StartDate>
  <FinishDate>2025-11-27T17:00:00</FinishDate>
  <Tasks>` + tasks + `</Tasks>
</Project>`)
}

func TestParse_Sample(t *testing.T) {
	p, err := Parse([]byte(Sample))
	require.NoError(t, err)

	assert.Equal(t, "Warehouse Rollout", p.Name)
	assert.Equal(t, "Warehouse Rollout", p.Title)
	assert.Equal(t, "2025-10-27T08:00:00", p.StartDate)
	assert.Equal(t, "2025-12-19T17:00:00", p.FinishDate)
	require.Len(t, p.Tasks, 11)

	survey := p.Tasks[2]
	assert.Equal(t, "3", survey.UID)
	assert.Equal(t, "Site survey", survey.Name)
	assert.Equal(t, "1.1.1", survey.OutlineNumber)
	assert.Equal(t, 3, survey.Level())
	assert.Equal(t, 8*time.Hour, survey.Work)
	assert.Equal(t, 100, survey.Percent())

	layout := p.Tasks[4]
	assert.Equal(t, "Racking plan signed off by operations.", layout.Notes)

	kickoff := p.Tasks[3]
	assert.True(t, kickoff.IsMilestone())
	assert.Zero(t, kickoff.DurationDays)
}

func TestParse_DurationDays(t *testing.T) {
	p, err := Parse(doc(`<Task><UID>1</UID><ID>1</ID><Name>Day</Name>
		<Start>2025-10-27T08:00:00</Start><Finish>2025-10-27T17:00:00</Finish></Task>`))
	require.NoError(t, err)
	require.Len(t, p.Tasks, 1)

	task := p.Tasks[0]
	require.NotNil(t, task.ParsedStart)
	require.NotNil(t, task.ParsedFinish)
	assert.InDelta(t, 0.375, task.DurationDays, 1e-9)
	assert.Equal(t, time.Date(2025, 10, 27, 8, 0, 0, 0, time.UTC), *task.ParsedStart)
}

func TestParse_DurationDaysIsAbsolute(t *testing.T) {
	p, err := Parse(doc(`<Task><UID>1</UID><ID>1</ID><Name>Backwards</Name>
		<Start>2025-10-29T00:00:00</Start><Finish>2025-10-27T00:00:00</Finish></Task>`))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Tasks[0].DurationDays, 1e-9)
}

func TestParse_MissingOrInvalidDates(t *testing.T) {
	p, err := Parse(doc(`
		<Task><UID>1</UID><ID>1</ID><Name>No finish</Name><Start>2025-10-27T08:00:00</Start></Task>
		<Task><UID>2</UID><ID>2</ID><Name>Garbage</Name><Start>soon</Start><Finish>later</Finish></Task>`))
	require.NoError(t, err)
	require.Len(t, p.Tasks, 2)

	assert.NotNil(t, p.Tasks[0].ParsedStart)
	assert.Nil(t, p.Tasks[0].ParsedFinish)
	assert.Zero(t, p.Tasks[0].DurationDays)

	assert.Nil(t, p.Tasks[1].ParsedStart)
	assert.Nil(t, p.Tasks[1].ParsedFinish)
	assert.Equal(t, "soon", p.Tasks[1].Start)
	assert.Zero(t, p.Tasks[1].DurationDays)
}

func TestParse_ZonedAndDateOnlyTimestamps(t *testing.T) {
	p, err := Parse(doc(`<Task><UID>1</UID><ID>1</ID><Name>Zoned</Name>
		<Start>2025-10-27T08:00:00+02:00</Start><Finish>2025-10-28</Finish></Task>`))
	require.NoError(t, err)
	task := p.Tasks[0]
	require.NotNil(t, task.ParsedStart)
	require.NotNil(t, task.ParsedFinish)
	assert.Equal(t, time.Date(2025, 10, 27, 6, 0, 0, 0, time.UTC), task.ParsedStart.UTC())
	assert.Equal(t, time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC), *task.ParsedFinish)
}

func TestParse_WithLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	p, err := Parse(doc(`<Task><UID>1</UID><ID>1</ID><Name>Local</Name>
		<Start>2025-10-27T08:00:00</Start></Task>`), WithLocation(loc))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 27, 7, 0, 0, 0, time.UTC), p.Tasks[0].ParsedStart.UTC())
}

func TestParse_DropsTasksWithoutUIDOrName(t *testing.T) {
	p, err := Parse(doc(`
		<Task><ID>1</ID><Name>No UID</Name></Task>
		<Task><UID>2</UID><ID>2</ID></Task>
		<Task><UID>3</UID><ID>3</ID><Name>   </Name></Task>
		<Task><UID>4</UID><ID>4</ID><Name>Kept</Name></Task>`))
	require.NoError(t, err)
	require.Len(t, p.Tasks, 1)
	assert.Equal(t, "4", p.Tasks[0].UID)
	for _, task := range p.Tasks {
		assert.NotEmpty(t, task.UID)
		assert.NotEmpty(t, task.Name)
	}
}

func TestParse_AllTasksMalformedYieldsEmpty(t *testing.T) {
	p, err := Parse(doc(`<Task><ID>1</ID></Task>`))
	require.NoError(t, err)
	assert.NotNil(t, p.Tasks)
	assert.Empty(t, p.Tasks)
}

func TestParse_SortsByNumericID(t *testing.T) {
	p, err := Parse(doc(`
		<Task><UID>a</UID><ID>10</ID><Name>ten</Name></Task>
		<Task><UID>b</UID><ID>2</ID><Name>two</Name></Task>
		<Task><UID>c</UID><ID>1</ID><Name>one</Name></Task>`))
	require.NoError(t, err)
	var names []string
	for _, task := range p.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"one", "two", "ten"}, names)
}

// Non-numeric IDs sort after every numeric ID and keep document order.
func TestParse_NonNumericIDsSortLast(t *testing.T) {
	p, err := Parse(doc(`
		<Task><UID>x</UID><ID>x1</ID><Name>first odd</Name></Task>
		<Task><UID>b</UID><ID>2</ID><Name>two</Name></Task>
		<Task><UID>y</UID><Name>no id</Name></Task>
		<Task><UID>a</UID><ID>1</ID><Name>one</Name></Task>`))
	require.NoError(t, err)
	var uids []string
	for _, task := range p.Tasks {
		uids = append(uids, task.UID)
	}
	assert.Equal(t, []string{"a", "b", "x", "y"}, uids)
}

func TestParse_Deterministic(t *testing.T) {
	first, err := Parse([]byte(Sample))
	require.NoError(t, err)
	second, err := Parse([]byte(Sample))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParse_FirstFieldWinsAndNestedIgnored(t *testing.T) {
	p, err := Parse(doc(`<Task>
		<UID>1</UID><ID>1</ID><Name>Primary</Name><Name>Shadow</Name>
		<Start>2025-10-27T08:00:00</Start>
		<Baseline><Start>2020-01-01T08:00:00</Start></Baseline>
		<ExtendedAttribute><FieldID>188743731</FieldID><Value>x</Value></ExtendedAttribute>
	</Task>`))
	require.NoError(t, err)
	assert.Equal(t, "Primary", p.Tasks[0].Name)
	assert.Equal(t, "2025-10-27T08:00:00", p.Tasks[0].Start)
}

func TestParse_ProjectNameFallback(t *testing.T) {
	cases := []struct {
		name string
		head string
		want string
	}{
		{"name wins", "<Name>N</Name><Title>T</Title>", "N"},
		{"title fallback", "<Title>T</Title>", "T"},
		{"default", "", DefaultProjectName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse([]byte("<Project>" + tc.head + "<Tasks/></Project>"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Name)
		})
	}
}

// A task Name must not leak into the project name when the root has none.
func TestParse_ProjectNameIgnoresTaskNames(t *testing.T) {
	p, err := Parse([]byte(`<Project><Tasks><Task><UID>1</UID><ID>1</ID><Name>Task</Name></Task></Tasks></Project>`))
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectName, p.Name)
}

func TestParse_MalformedXML(t *testing.T) {
	inputs := map[string]string{
		"unclosed tag":   `<Project><Name>x</Name><Tasks><Task><UID>1</UID></Tasks></Project>`,
		"truncated":      `<Project><Tasks><Task><UID>1</UID>`,
		"empty":          ``,
		"text only":      `not xml at all`,
		"two roots":      `<Project><Tasks/></Project><Project/>`,
		"trailing text":  `<Project><Tasks/></Project>junk`,
		"bad entity":     `<Project><Name>&nope;</Name><Tasks/></Project>`,
		"mismatched end": `<Project><Tasks></Task></Project>`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			p, err := Parse([]byte(in))
			require.Error(t, err)
			assert.Nil(t, p)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_SyntaxErrorLine(t *testing.T) {
	_, err := Parse([]byte("<Project>\n<Tasks>\n<Task></Tasks>\n</Project>"))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
}

func TestParse_WrongRoot(t *testing.T) {
	_, err := Parse([]byte(`<Workbook><Tasks/></Workbook>`))
	assert.ErrorIs(t, err, ErrNotProject)
}

func TestParse_MissingTasksContainer(t *testing.T) {
	_, err := Parse([]byte(`<Project><Name>x</Name></Project>`))
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestParse_DeclaredEncoding(t *testing.T) {
	// "Café" in ISO-8859-1: é is 0xE9.
	in := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<Project><Name>Caf\xe9</Name><Tasks/></Project>")
	p, err := Parse(in)
	require.NoError(t, err)
	assert.Equal(t, "Café", p.Name)
}

func TestParse_ByteOrderMark(t *testing.T) {
	p, err := Parse(append([]byte("\xef\xbb\xbf"), []byte(Sample)...))
	require.NoError(t, err)
	assert.Len(t, p.Tasks, 11)
}

func TestParseWork(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"PT8H0M0S", 8 * time.Hour, true},
		{"PT1H30M0S", 90 * time.Minute, true},
		{"P2DT4H0M0S", 52 * time.Hour, true},
		{"PT0.5H", 30 * time.Minute, true},
		{"", 0, false},
		{"8h", 0, false},
		{"PT8X", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseWork(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
