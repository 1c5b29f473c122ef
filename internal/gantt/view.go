package gantt

import (
	"time"

	"github.com/starford/ganttview/internal/models"
)

// View is a project prepared for display under one collapse state.
type View struct {
	Project     *models.Project
	Range       Range
	Collapsed   UIDSet
	Collapsible UIDSet
	Visible     []models.Task
	Chart       *Chart
	// OutlineErr is non-nil when the tasks violate outline order. The view is
	// still built; callers decide whether to warn.
	OutlineErr error
}

// NewView computes the range over all tasks, filters the visible ones and
// lays them out. The range does not depend on the collapse state so the
// timeline stays put while summaries are toggled.
func NewView(p *models.Project, collapsed UIDSet, now time.Time, opts Options) *View {
	r := DateRange(p.Tasks, now)
	visible := VisibleTasks(p.Tasks, collapsed)
	return &View{
		Project:     p,
		Range:       r,
		Collapsed:   collapsed,
		Collapsible: Collapsible(p.Tasks),
		Visible:     visible,
		Chart:       Layout(r, visible, opts),
		OutlineErr:  CheckOutline(p.Tasks),
	}
}
