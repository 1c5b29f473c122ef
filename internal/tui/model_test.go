package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/models"
	"github.com/starford/ganttview/internal/msproject"
)

func sampleModel(t *testing.T) *Model {
	t.Helper()
	p, err := msproject.Parse([]byte(msproject.Sample))
	require.NoError(t, err)
	m := New(p, Settings{Now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func visibleUIDs(m *Model) []string {
	var out []string
	for _, t := range m.Visible() {
		out = append(out, t.UID)
	}
	return out
}

func TestModel_ToggleCollapse(t *testing.T) {
	m := sampleModel(t)
	require.Len(t, m.Visible(), 11)

	// Cursor on "Planning" (UID 2), collapse it.
	press(m, "j", "enter")
	assert.Equal(t, []string{"1", "2", "6", "7", "8", "9", "10", "11"}, visibleUIDs(m))
	assert.True(t, m.Collapsed().Has("2"))
	assert.Equal(t, 1, m.Cursor(), "cursor stays on the toggled row")

	press(m, " ")
	assert.Len(t, m.Visible(), 11)
	assert.False(t, m.Collapsed().Has("2"))
}

func TestModel_ToggleLeafIsNoop(t *testing.T) {
	m := sampleModel(t)
	press(m, "j", "j", "enter")
	assert.Len(t, m.Visible(), 11)
	assert.Empty(t, m.Collapsed())
}

func TestModel_CollapseAndExpandAll(t *testing.T) {
	m := sampleModel(t)

	press(m, "c")
	assert.Equal(t, []string{"1"}, visibleUIDs(m))
	assert.Equal(t, "1,2,6,9", m.Collapsed().String())

	press(m, "e")
	assert.Len(t, m.Visible(), 11)
}

func TestModel_CursorBounds(t *testing.T) {
	m := sampleModel(t)
	press(m, "k", "up")
	assert.Equal(t, 0, m.Cursor())

	for i := 0; i < 20; i++ {
		press(m, "down")
	}
	assert.Equal(t, 10, m.Cursor())

	// Collapsing the root moves the cursor to the top when its row is hidden.
	press(m, "c")
	assert.Equal(t, 0, m.Cursor())
}

func TestModel_ToggleMode(t *testing.T) {
	m := sampleModel(t)
	assert.Equal(t, gantt.ModeWeek, m.Mode())
	press(m, "w")
	assert.Equal(t, gantt.ModeDay, m.Mode())
	press(m, "w")
	assert.Equal(t, gantt.ModeWeek, m.Mode())
}

func TestModel_Quit(t *testing.T) {
	m := sampleModel(t)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_View(t *testing.T) {
	m := sampleModel(t)
	press(m, "j", "enter")
	out := m.View()

	assert.Contains(t, out, "Warehouse Rollout")
	assert.Contains(t, out, "▸ Planning")
	assert.Contains(t, out, "▾ Installation")
	assert.Contains(t, out, "◆")
	assert.Contains(t, out, "▀")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "▒")
	assert.Contains(t, out, "W44")
	assert.NotContains(t, out, "Site survey")
}

func TestModel_OutlineWarning(t *testing.T) {
	p := &models.Project{Name: "Broken", Tasks: []models.Task{
		{UID: "1", ID: "1", Name: "deep", OutlineLevel: "3"},
	}}
	m := New(p, Settings{})
	assert.True(t, strings.Contains(m.View(), "warning:"))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.Equal(t, "abc…", pad("abcdef", 4))
}
