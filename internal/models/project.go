// Package models defines the domain types for ganttview.
package models

import (
	"strconv"
	"time"
)

// Flag values used by MS Project for boolean fields.
const (
	FlagTrue  = "1"
	FlagFalse = "0"
)

// Task is one project activity or summary group as exported by MS Project.
// The string fields hold the raw element text; the Parsed* and DurationDays
// fields are derived once when the document is parsed.
type Task struct {
	UID             string `json:"uid"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type,omitempty"`
	Start           string `json:"start"`
	Finish          string `json:"finish"`
	Duration        string `json:"duration,omitempty"`
	Manual          string `json:"manual,omitempty"`
	Summary         string `json:"summary"`
	Milestone       string `json:"milestone"`
	PercentComplete string `json:"percent_complete"`
	OutlineNumber   string `json:"outline_number"`
	OutlineLevel    string `json:"outline_level"`
	Notes           string `json:"notes,omitempty"`

	ParsedStart  *time.Time    `json:"parsed_start,omitempty"`
	ParsedFinish *time.Time    `json:"parsed_finish,omitempty"`
	DurationDays float64       `json:"duration_days"`
	Work         time.Duration `json:"work,omitempty"`
}

// IsSummary reports whether the task groups child tasks.
func (t *Task) IsSummary() bool { return t.Summary == FlagTrue }

// IsMilestone reports whether the task marks a point in time.
func (t *Task) IsMilestone() bool { return t.Milestone == FlagTrue }

// IsManual reports whether the task is manually scheduled.
func (t *Task) IsManual() bool { return t.Manual == FlagTrue }

// Level returns the 1-based outline depth. Missing or invalid levels are
// treated as top level.
func (t *Task) Level() int {
	n, err := strconv.Atoi(t.OutlineLevel)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Percent returns the completion percentage clamped to 0..100.
func (t *Task) Percent() int {
	n, err := strconv.Atoi(t.PercentComplete)
	if err != nil || n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Seq returns the numeric display sequence and whether ID was numeric.
func (t *Task) Seq() (int, bool) {
	n, err := strconv.Atoi(t.ID)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasDates reports whether at least one of the parsed instants is present.
func (t *Task) HasDates() bool {
	return t.ParsedStart != nil || t.ParsedFinish != nil
}

// Project is the root container of an MS Project export.
type Project struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date"`
	Tasks      []Task `json:"tasks"`
}

// DisplayTitle returns the title when present, otherwise the name.
func (p *Project) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// ProjectMetadata is a lightweight representation of a library file.
type ProjectMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
