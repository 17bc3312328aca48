package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskStatus is a kanban column. Any status may move to any other.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

// Statuses lists the board columns in display order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the board columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus accepts either the display form ("In Progress") or a
// compact form ("in-progress", "inprogress", "todo", "done").
func ParseStatus(s string) (TaskStatus, error) {
	norm := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s))
	switch norm {
	case "todo":
		return StatusTodo, nil
	case "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Complexity bounds.
const (
	MinComplexity = 1
	MaxComplexity = 10
)

// TempIDPrefix marks a draft task that has not been saved yet.
const TempIDPrefix = "temp-"

// Task is a card on a project board. ProjectID never changes after creation.
type Task struct {
	ID          string     `json:"id" db:"id"`
	ProjectID   string     `json:"projectId" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	AssigneeID  *string    `json:"assigneeId,omitempty" db:"assignee_id"`
	DueDate     Date       `json:"dueDate,omitzero" db:"due_date"`
	Tags        []string   `json:"tags" db:"-"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	IsBlocked   *bool      `json:"isBlocked,omitempty" db:"is_blocked"`

	// Complexity is an optional 1-10 effort estimate.
	Complexity *int `json:"complexity,omitempty" db:"complexity"`
}

// IsDraft reports whether the task still carries a temporary id.
func (t Task) IsDraft() bool {
	return t.ID == "" || strings.HasPrefix(t.ID, TempIDPrefix)
}

// Blocked reports whether the task is flagged as blocked.
func (t Task) Blocked() bool {
	return t.IsBlocked != nil && *t.IsBlocked
}

// AssignedTo reports whether the task is assigned to userID.
func (t Task) AssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// Validate checks the fields a task must carry before it is persisted.
func (t Task) Validate() error {
	var errs []error
	if strings.TrimSpace(t.ProjectID) == "" {
		errs = append(errs, errors.New("task project must not be empty"))
	}
	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, errors.New("task title must not be empty"))
	}
	if !t.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid task status %q", t.Status))
	}
	if !t.Priority.Valid() {
		errs = append(errs, fmt.Errorf("invalid task priority %q", t.Priority))
	}
	if t.Complexity != nil && (*t.Complexity < MinComplexity || *t.Complexity > MaxComplexity) {
		errs = append(errs, fmt.Errorf("task complexity %d outside %d-%d",
			*t.Complexity, MinComplexity, MaxComplexity))
	}
	return errors.Join(errs...)
}
