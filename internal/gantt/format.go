package gantt

import "time"

// DefaultDateLayout renders dates as day/month/year.
const DefaultDateLayout = "02/01/2006"

// Placeholder stands in for a missing date.
const Placeholder = "-"

// FormatDate renders t with layout, or Placeholder when t is nil. An empty
// layout uses DefaultDateLayout.
func FormatDate(t *time.Time, layout string) string {
	if t == nil {
		return Placeholder
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.Format(layout)
}
