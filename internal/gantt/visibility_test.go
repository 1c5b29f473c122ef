package gantt

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/ganttview/internal/models"
)

// outline builds tasks with UIDs 1..n at the given levels.
func outline(levels ...int) []models.Task {
	tasks := make([]models.Task, len(levels))
	for i, lvl := range levels {
		id := strconv.Itoa(i + 1)
		tasks[i] = models.Task{UID: id, ID: id, Name: "task " + id, OutlineLevel: strconv.Itoa(lvl)}
	}
	return tasks
}

func uids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.UID)
	}
	return out
}

func TestVisibleTasks_CollapsedParentHidesChildren(t *testing.T) {
	tasks := outline(1, 2, 2, 1)
	got := VisibleTasks(tasks, NewUIDSet("1"))
	assert.Equal(t, []string{"1", "4"}, uids(got))
}

func TestVisibleTasks_EmptySetReturnsAll(t *testing.T) {
	tasks := outline(1, 2, 3, 2, 1)
	assert.Equal(t, uids(tasks), uids(VisibleTasks(tasks, nil)))
	assert.Equal(t, uids(tasks), uids(VisibleTasks(tasks, NewUIDSet())))
}

func TestVisibleTasks_HidesOnlyContiguousDeeperRun(t *testing.T) {
	// 2 is collapsed; 3 and 4 are its subtree, 5 is a sibling, 6 is under 5.
	tasks := outline(1, 2, 3, 4, 2, 3)
	got := VisibleTasks(tasks, NewUIDSet("2"))
	assert.Equal(t, []string{"1", "2", "5", "6"}, uids(got))
}

func TestVisibleTasks_NestedCollapse(t *testing.T) {
	tasks := outline(1, 2, 3, 2, 1, 2)
	got := VisibleTasks(tasks, NewUIDSet("1", "2", "5"))
	assert.Equal(t, []string{"1", "5"}, uids(got))

	got = VisibleTasks(tasks, NewUIDSet("2"))
	assert.Equal(t, []string{"1", "2", "4", "5", "6"}, uids(got))
}

func TestVisibleTasks_CollapsedLeafIsNoop(t *testing.T) {
	tasks := outline(1, 2, 1)
	got := VisibleTasks(tasks, NewUIDSet("2"))
	assert.Equal(t, []string{"1", "2", "3"}, uids(got))
}

func TestVisibleTasks_DoesNotMutateInput(t *testing.T) {
	tasks := outline(1, 2, 1)
	before := uids(tasks)
	_ = VisibleTasks(tasks, NewUIDSet("1"))
	assert.Equal(t, before, uids(tasks))
}

func TestCheckOutline(t *testing.T) {
	require.NoError(t, CheckOutline(outline(1, 2, 3, 1, 2)))
	require.NoError(t, CheckOutline(nil))

	err := CheckOutline(outline(1, 3))
	assert.ErrorIs(t, err, ErrOutlineOrder)

	err = CheckOutline(outline(2, 1))
	assert.ErrorIs(t, err, ErrOutlineOrder)
}

func TestHasChildrenAndCollapsible(t *testing.T) {
	tasks := outline(1, 2, 2, 1)
	assert.True(t, HasChildren(tasks, 0))
	assert.False(t, HasChildren(tasks, 1))
	assert.False(t, HasChildren(tasks, 3))
	assert.False(t, HasChildren(tasks, -1))
	assert.Equal(t, "1", Collapsible(tasks).String())
}

func TestUIDSet(t *testing.T) {
	s := ParseUIDSet(" 4, 1,,7 ")
	assert.Equal(t, "1,4,7", s.String())
	assert.True(t, s.Has("4"))
	assert.False(t, s.Has(""))

	toggled := s.Toggle("4").Toggle("9")
	assert.Equal(t, "1,7,9", toggled.String())
	assert.Equal(t, "1,4,7", s.String(), "Toggle must not modify the receiver")

	var empty UIDSet
	assert.False(t, empty.Has("1"))
	assert.Equal(t, "", empty.String())
	assert.Equal(t, "1", empty.Toggle("1").String())
	assert.Empty(t, ParseUIDSet(""))
}
