package model

import "time"

// Activity actions written by the task repository.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Activity is one entry in a project's audit feed.
type Activity struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id" db:"id"`

	// ProjectID scopes the entry to a project feed.
	ProjectID string `json:"projectId" db:"project_id"`

	// UserID and UserName identify the actor at the time of the change.
	UserID   string `json:"userId" db:"user_id"`
	UserName string `json:"userName" db:"user_name"`

	// Action is a free-text verb such as "created" or "updated".
	Action string `json:"action" db:"action"`

	// TargetName is the title of the task the action applied to.
	TargetName string `json:"targetName" db:"target_name"`

	// CreatedAt is when the action happened.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
