package store

import (
	"context"
	"errors"

	"github.com/nhle/zenith/internal/model"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// Versioned record keys. They match the legacy browser storage layout so
// snapshots can move between the two.
const (
	KeyUsers       = "pm_users_v1"
	KeyProjects    = "pm_projects_v1"
	KeyTasks       = "pm_tasks_v1"
	KeyComments    = "pm_comments_v1"
	KeyActivities  = "pm_activities_v1"
	KeyCurrentUser = "pm_current_user_v1"
	KeyAuthToken   = "pm_auth_token_v1"
)

// Store defines the persistence interface for the tracker's collections
// and session records.
type Store interface {
	// === Users ===

	UpsertUser(ctx context.Context, user model.User) (created bool, err error)
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// === Projects ===

	UpsertProject(ctx context.Context, project model.Project) (created bool, err error)
	GetProjects(ctx context.Context) ([]model.Project, error)
	GetProjectsForUser(ctx context.Context, userID string) ([]model.Project, error)
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	DeleteProjectCascade(ctx context.Context, id string) (tasksRemoved int, err error)

	// === Tasks ===

	UpsertTask(ctx context.Context, task model.Task) (created bool, err error)
	SaveTaskWithActivity(ctx context.Context, task model.Task, activity model.Activity, keep int) (created bool, err error)
	GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// === Comments ===

	AppendComment(ctx context.Context, comment model.Comment) error
	GetComments(ctx context.Context, taskID string) ([]model.Comment, error)

	// === Activities ===

	AppendActivity(ctx context.Context, activity model.Activity, keep int) error
	GetActivities(ctx context.Context, projectID string, limit int) ([]model.Activity, error)

	// === Key/value records ===

	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}
