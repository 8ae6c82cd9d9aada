package domain

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusIncomplete TaskStatus = "incomplete"
	StatusComplete   TaskStatus = "complete"
)

func (s TaskStatus) Valid() bool {
	return s == StatusIncomplete || s == StatusComplete
}

// Opposite returns the status a toggle moves to.
func (s TaskStatus) Opposite() TaskStatus {
	if s == StatusComplete {
		return StatusIncomplete
	}
	return StatusComplete
}

// PlaceholderPrefix marks tasks whose insert has not been confirmed yet.
const PlaceholderPrefix = "temp-"

type Task struct {
	ID        string
	UserID    string
	Name      string
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPlaceholder reports whether t only exists locally.
func (t Task) IsPlaceholder() bool {
	return strings.HasPrefix(t.ID, PlaceholderPrefix)
}

// NewTask is the payload of a task insert.
type NewTask struct {
	UserID string
	Name   string
	Status TaskStatus
}

// TaskPatch lists the fields of a task update; nil fields are left alone.
type TaskPatch struct {
	Name   *string
	Status *TaskStatus
}

// Apply returns t with the patch applied and UpdatedAt set to now.
func (p TaskPatch) Apply(t Task, now time.Time) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = now
	return t
}

// TaskFilter selects which tasks a list view shows.
type TaskFilter string

const (
	FilterAll        TaskFilter = "all"
	FilterInProgress TaskFilter = "in-progress"
	FilterCompleted  TaskFilter = "completed"
)

// ParseTaskFilter maps a tab name onto a filter. Unknown or empty names
// select the in-progress tab.
func ParseTaskFilter(s string) TaskFilter {
	switch TaskFilter(s) {
	case FilterAll, FilterCompleted:
		return TaskFilter(s)
	default:
		return FilterInProgress
	}
}

// Match reports whether t belongs in the filtered view.
func (f TaskFilter) Match(t Task) bool {
	switch f {
	case FilterInProgress:
		return t.Status == StatusIncomplete
	case FilterCompleted:
		return t.Status == StatusComplete
	default:
		return true
	}
}
