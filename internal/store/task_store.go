package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
)

const taskColumns = `id, project_id, title, description, status, priority,
	assignee_id, due_date, tags, created_at, is_blocked, complexity`

type taskRow struct {
	ID          string  `db:"id"`
	ProjectID   string  `db:"project_id"`
	Title       string  `db:"title"`
	Description string  `db:"description"`
	Status      string  `db:"status"`
	Priority    string  `db:"priority"`
	AssigneeID  *string `db:"assignee_id"`
	DueDate     *string `db:"due_date"`
	Tags        string  `db:"tags"`
	CreatedAt   string  `db:"created_at"`
	IsBlocked   *int    `db:"is_blocked"`
	Complexity  *int    `db:"complexity"`
}

func (s *SQLiteStore) taskFromRow(r taskRow) model.Task {
	t := model.Task{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		Title:       r.Title,
		Description: r.Description,
		Status:      model.TaskStatus(r.Status),
		Priority:    model.Priority(r.Priority),
		AssigneeID:  r.AssigneeID,
		Tags:        s.decodeList("tasks.tags", r.Tags),
		CreatedAt:   s.parseTime("tasks.created_at", r.CreatedAt),
		Complexity:  r.Complexity,
	}
	if r.DueDate != nil {
		due, err := model.ParseDate(*r.DueDate)
		if err != nil {
			s.logger.Warn("discarding unparseable due date",
				zap.String("task_id", r.ID), zap.String("value", *r.DueDate))
		}
		t.DueDate = due
	}
	if r.IsBlocked != nil {
		blocked := *r.IsBlocked != 0
		t.IsBlocked = &blocked
	}
	return t
}

// taskArgs flattens a task into the insert argument order of taskColumns.
func taskArgs(task model.Task) ([]any, error) {
	tags, err := encodeList(task.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshaling tags for task %s: %w", task.ID, err)
	}

	var due *string
	if !task.DueDate.IsZero() {
		v := task.DueDate.String()
		due = &v
	}
	var blocked *int
	if task.IsBlocked != nil {
		v := boolToInt(*task.IsBlocked)
		blocked = &v
	}

	return []any{
		task.ID, task.ProjectID, task.Title, task.Description,
		string(task.Status), string(task.Priority),
		task.AssigneeID, due, tags, formatTime(task.CreatedAt),
		blocked, task.Complexity,
	}, nil
}

// upsertTask writes a task inside tx and reports whether it was new.
func upsertTask(ctx context.Context, tx *sqlx.Tx, task model.Task) (bool, error) {
	if strings.TrimSpace(task.ID) == "" {
		return false, fmt.Errorf("task id must not be empty")
	}
	args, err := taskArgs(task)
	if err != nil {
		return false, err
	}

	found, err := exists(ctx, tx, "tasks", task.ID)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			priority = excluded.priority,
			assignee_id = excluded.assignee_id,
			due_date = excluded.due_date,
			tags = excluded.tags,
			created_at = excluded.created_at,
			is_blocked = excluded.is_blocked,
			complexity = excluded.complexity`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("upserting task %s: %w", task.ID, err)
	}
	return !found, nil
}

// UpsertTask inserts a task or replaces the one with the same ID in place.
func (s *SQLiteStore) UpsertTask(ctx context.Context, task model.Task) (bool, error) {
	var created bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created, err = upsertTask(ctx, tx, task)
		return err
	})
	return created, err
}

// SaveTaskWithActivity upserts a task and appends an activity entry in one
// transaction. The activity's Action is set to "created" or "updated"
// depending on whether the task already existed.
func (s *SQLiteStore) SaveTaskWithActivity(
	ctx context.Context,
	task model.Task,
	activity model.Activity,
	keep int,
) (bool, error) {
	var created bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created, err = upsertTask(ctx, tx, task)
		if err != nil {
			return err
		}

		activity.Action = model.ActionUpdated
		if created {
			activity.Action = model.ActionCreated
		}
		return appendActivity(ctx, tx, activity, keep)
	})
	return created, err
}

// GetTasksByProject returns the project's tasks in storage order.
func (s *SQLiteStore) GetTasksByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+taskColumns+" FROM tasks WHERE project_id = ? ORDER BY seq", projectID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for project %s: %w", projectID, err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, s.taskFromRow(r))
	}
	return tasks, nil
}

// GetAllTasks returns every task in storage order.
func (s *SQLiteStore) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT "+taskColumns+" FROM tasks ORDER BY seq"); err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, s.taskFromRow(r))
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, notFound(err))
	}
	t := s.taskFromRow(row)
	return &t, nil
}

// DeleteTask removes a task by ID. Deleting an unknown ID is not an error.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}
