package gantt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/starford/ganttview/internal/models"
)

// ErrOutlineOrder means tasks are not in depth-first outline order, so
// visibility filtering results are undefined.
var ErrOutlineOrder = errors.New("tasks are not in outline order")

// UIDSet is a set of task UIDs, used for the collapsed summaries.
type UIDSet map[string]struct{}

// NewUIDSet returns a set holding uids.
func NewUIDSet(uids ...string) UIDSet {
	s := make(UIDSet, len(uids))
	for _, u := range uids {
		if u != "" {
			s[u] = struct{}{}
		}
	}
	return s
}

// ParseUIDSet parses a comma-separated list such as "1,4,7".
func ParseUIDSet(raw string) UIDSet {
	var uids []string
	for _, part := range strings.Split(raw, ",") {
		uids = append(uids, strings.TrimSpace(part))
	}
	return NewUIDSet(uids...)
}

// Has reports whether uid is in the set. A nil set is empty.
func (s UIDSet) Has(uid string) bool {
	_, ok := s[uid]
	return ok
}

// Toggle returns a copy of s with uid added or removed.
func (s UIDSet) Toggle(uid string) UIDSet {
	out := make(UIDSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	if s.Has(uid) {
		delete(out, uid)
	} else {
		out[uid] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s UIDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String returns the members comma-joined in lexical order, the inverse of
// ParseUIDSet.
func (s UIDSet) String() string {
	return strings.Join(s.Sorted(), ",")
}

// visibilityState is the fold accumulator: while suppressing, every task
// deeper than level is hidden.
type visibilityState struct {
	suppressing bool
	level       int
}

// step folds one task into the state and reports whether it is visible.
func (st visibilityState) step(t *models.Task, collapsed UIDSet) (visibilityState, bool) {
	level := t.Level()
	if st.suppressing && level > st.level {
		return st, false
	}
	next := visibilityState{}
	if collapsed.Has(t.UID) {
		next = visibilityState{suppressing: true, level: level}
	}
	return next, true
}

// VisibleTasks returns the tasks not hidden under a collapsed ancestor.
//
// tasks must be in depth-first outline order (each parent immediately
// precedes its descendants); see CheckOutline. The walk is a single pass that
// tracks only the outermost active collapse, so nested collapses compose: a
// collapsed child inside a collapsed parent is already skipped.
func VisibleTasks(tasks []models.Task, collapsed UIDSet) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	st := visibilityState{}
	for i := range tasks {
		var visible bool
		st, visible = st.step(&tasks[i], collapsed)
		if visible {
			out = append(out, tasks[i])
		}
	}
	return out
}

// CheckOutline verifies the ordering precondition of VisibleTasks: the first
// task is at level 1 and no task is more than one level deeper than its
// predecessor.
func CheckOutline(tasks []models.Task) error {
	prev := 0
	for i := range tasks {
		level := tasks[i].Level()
		if level > prev+1 {
			return fmt.Errorf("%w: task %s (id %s) at level %d follows level %d",
				ErrOutlineOrder, tasks[i].UID, tasks[i].ID, level, prev)
		}
		prev = level
	}
	return nil
}

// HasChildren reports whether the task at index i has descendants, i.e. the
// next task is deeper.
func HasChildren(tasks []models.Task, i int) bool {
	if i < 0 || i+1 >= len(tasks) {
		return false
	}
	return tasks[i+1].Level() > tasks[i].Level()
}

// Collapsible returns the UIDs of every task that has children.
func Collapsible(tasks []models.Task) UIDSet {
	s := make(UIDSet)
	for i := range tasks {
		if HasChildren(tasks, i) {
			s[tasks[i].UID] = struct{}{}
		}
	}
	return s
}
