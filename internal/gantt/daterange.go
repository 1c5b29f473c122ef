// Package gantt derives the chart view from a parsed project: the visible
// timeline span, the tasks visible under a set of collapsed summaries, and the
// pixel geometry of header cells and bars.
package gantt

import (
	"time"

	"github.com/starford/ganttview/internal/models"
)

// Padding applied around the task span so bars never touch the chart edges.
const (
	LeadPadding  = 3 * Day
	TrailPadding = 7 * Day
)

// Day is the length of one timeline day.
const Day = 24 * time.Hour

// Range is the visible timeline span.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the span length in fractional days.
func (r Range) Days() float64 {
	return float64(r.End.Sub(r.Start)) / float64(Day)
}

// DateRange returns the padded span covering every parsed task instant.
//
// The minimum is taken over parsed starts and the maximum over parsed
// finishes. When no task has a start the earliest finish is used, and when no
// task has a finish the latest start is used. If no task has any parsed
// instant the range collapses to {now, now} and is not padded.
func DateRange(tasks []models.Task, now time.Time) Range {
	var minStart, maxFinish, minFinish, maxStart *time.Time

	for i := range tasks {
		if s := tasks[i].ParsedStart; s != nil {
			if minStart == nil || s.Before(*minStart) {
				minStart = s
			}
			if maxStart == nil || s.After(*maxStart) {
				maxStart = s
			}
		}
		if f := tasks[i].ParsedFinish; f != nil {
			if maxFinish == nil || f.After(*maxFinish) {
				maxFinish = f
			}
			if minFinish == nil || f.Before(*minFinish) {
				minFinish = f
			}
		}
	}

	if minStart == nil {
		minStart = minFinish
	}
	if maxFinish == nil {
		maxFinish = maxStart
	}
	if minStart == nil || maxFinish == nil {
		return Range{Start: now, End: now}
	}

	return Range{
		Start: minStart.Add(-LeadPadding),
		End:   maxFinish.Add(TrailPadding),
	}
}
