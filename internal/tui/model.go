// Package tui provides the interactive terminal Gantt viewer.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/models"
)

// Columns per day for each header mode.
const (
	dayModeCols  = 3.0
	weekModeCols = 1.0
)

// panStep is how many days left/right scrolls the timeline.
const panStep = 7

// chrome is the number of lines used by the title, the two header lines and
// the help footer.
const chrome = 4

// Settings configures the viewer.
type Settings struct {
	DateLayout string
	Mode       gantt.Mode
	// Now anchors the timeline when no task has dates.
	Now time.Time
}

// Model is the bubbletea model of the viewer. The date range is computed
// once per project; collapsing only changes which rows are shown.
type Model struct {
	project     *models.Project
	dateLayout  string
	mode        gantt.Mode
	rng         gantt.Range
	collapsed   gantt.UIDSet
	collapsible gantt.UIDSet
	visible     []models.Task
	chart       *gantt.Chart
	outlineErr  error

	cursor  int
	offset  int
	panDays int
	width   int
	height  int
}

// New creates a viewer for p with every summary expanded.
func New(p *models.Project, s Settings) *Model {
	if s.Now.IsZero() {
		s.Now = time.Now()
	}
	if s.Mode != gantt.ModeDay {
		s.Mode = gantt.ModeWeek
	}
	m := &Model{
		project:     p,
		dateLayout:  s.DateLayout,
		mode:        s.Mode,
		rng:         gantt.DateRange(p.Tasks, s.Now),
		collapsed:   gantt.NewUIDSet(),
		collapsible: gantt.Collapsible(p.Tasks),
		outlineErr:  gantt.CheckOutline(p.Tasks),
		width:       120,
		height:      30,
	}
	m.relayout()
	return m
}

// Visible returns the tasks currently shown.
func (m *Model) Visible() []models.Task { return m.visible }

// Collapsed returns the collapsed summary UIDs.
func (m *Model) Collapsed() gantt.UIDSet { return m.collapsed }

// Cursor returns the selected row index.
func (m *Model) Cursor() int { return m.cursor }

// Mode returns the current header mode.
func (m *Model) Mode() gantt.Mode { return m.mode }

func (m *Model) colsPerDay() float64 {
	if m.mode == gantt.ModeDay {
		return dayModeCols
	}
	return weekModeCols
}

// relayout recomputes the visible rows and their geometry, keeping the
// cursor on the same task when it is still visible.
func (m *Model) relayout() {
	var selected string
	if m.cursor < len(m.visible) {
		selected = m.visible[m.cursor].UID
	}

	m.visible = gantt.VisibleTasks(m.project.Tasks, m.collapsed)
	m.chart = gantt.Layout(m.rng, m.visible, gantt.Options{
		PixelsPerDay: m.colsPerDay(),
		RowHeight:    1,
		HeaderHeight: 2,
		Mode:         m.mode,
	})

	m.cursor = 0
	for i, t := range m.visible {
		if t.UID == selected {
			m.cursor = i
			break
		}
	}
	m.clampOffset()
}

func (m *Model) rows() int {
	n := m.height - chrome
	if m.outlineErr != nil {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows() {
		m.offset = m.cursor - m.rows() + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) toggle() {
	if m.cursor >= len(m.visible) {
		return
	}
	uid := m.visible[m.cursor].UID
	if !m.collapsible.Has(uid) {
		return
	}
	m.collapsed = m.collapsed.Toggle(uid)
	m.relayout()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampOffset()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.clampOffset()
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
			m.clampOffset()
		case "enter", " ", "space":
			m.toggle()
		case "c":
			m.collapsed = gantt.NewUIDSet(m.collapsible.Sorted()...)
			m.relayout()
		case "e":
			m.collapsed = gantt.NewUIDSet()
			m.relayout()
		case "w":
			if m.mode == gantt.ModeDay {
				m.mode = gantt.ModeWeek
			} else {
				m.mode = gantt.ModeDay
			}
			m.relayout()
		case "left", "h":
			m.panDays -= panStep
			if m.panDays < 0 {
				m.panDays = 0
			}
		case "right", "l":
			if m.panDays+panStep < len(m.chart.Days) {
				m.panDays += panStep
			}
		}
	}
	return m, nil
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// Run shows p in the terminal until the user quits or ctx is cancelled.
func Run(ctx context.Context, p *models.Project, s Settings) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	program := tea.NewProgram(New(p, s), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
