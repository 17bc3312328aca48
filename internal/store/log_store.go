package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/zenith/internal/model"
)

type commentRow struct {
	ID        string `db:"id"`
	TaskID    string `db:"task_id"`
	UserID    string `db:"user_id"`
	UserName  string `db:"user_name"`
	Text      string `db:"text"`
	CreatedAt string `db:"created_at"`
}

type activityRow struct {
	ID         string `db:"id"`
	ProjectID  string `db:"project_id"`
	UserID     string `db:"user_id"`
	UserName   string `db:"user_name"`
	Action     string `db:"action"`
	TargetName string `db:"target_name"`
	CreatedAt  string `db:"created_at"`
}

// AppendComment stores a new comment. Comments are never edited.
func (s *SQLiteStore) AppendComment(ctx context.Context, c model.Comment) error {
	return appendComment(ctx, s.db, c)
}

func appendComment(ctx context.Context, ex sqlx.ExecerContext, c model.Comment) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("comment id must not be empty")
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO comments (id, task_id, user_id, user_name, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.TaskID, c.UserID, c.UserName, c.Text, formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending comment to task %s: %w", c.TaskID, err)
	}
	return nil
}

// GetComments returns a task's comments in the order they were written.
func (s *SQLiteStore) GetComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	comments, err := s.selectComments(ctx, `
		SELECT id, task_id, user_id, user_name, text, created_at
		FROM comments WHERE task_id = ? ORDER BY seq`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying comments for task %s: %w", taskID, err)
	}
	return comments, nil
}

func (s *SQLiteStore) selectComments(ctx context.Context, query string, args ...any) ([]model.Comment, error) {
	var rows []commentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	comments := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, model.Comment{
			ID:        r.ID,
			TaskID:    r.TaskID,
			UserID:    r.UserID,
			UserName:  r.UserName,
			Text:      r.Text,
			CreatedAt: s.parseTime("comments.created_at", r.CreatedAt),
		})
	}
	return comments, nil
}

// appendActivity inserts an activity and trims the project's feed to the
// newest keep entries. keep <= 0 disables trimming.
func appendActivity(ctx context.Context, tx *sqlx.Tx, a model.Activity, keep int) error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("activity id must not be empty")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO activities (id, project_id, user_id, user_name, action, target_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.UserID, a.UserName, a.Action, a.TargetName, formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending activity to project %s: %w", a.ProjectID, err)
	}

	if keep <= 0 {
		return nil
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM activities
		WHERE project_id = ?
		  AND seq NOT IN (
			SELECT seq FROM activities
			WHERE project_id = ?
			ORDER BY seq DESC LIMIT ?
		  )`,
		a.ProjectID, a.ProjectID, keep,
	)
	if err != nil {
		return fmt.Errorf("trimming activities of project %s: %w", a.ProjectID, err)
	}
	return nil
}

// AppendActivity stores an activity entry, keeping at most keep entries
// for its project.
func (s *SQLiteStore) AppendActivity(ctx context.Context, a model.Activity, keep int) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return appendActivity(ctx, tx, a, keep)
	})
}

// GetActivities returns a project's activity feed, newest first, capped at
// limit entries. limit <= 0 returns the whole feed.
func (s *SQLiteStore) GetActivities(ctx context.Context, projectID string, limit int) ([]model.Activity, error) {
	query := `
		SELECT id, project_id, user_id, user_name, action, target_name, created_at
		FROM activities WHERE project_id = ? ORDER BY seq DESC`
	args := []any{projectID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	activities, err := s.selectActivities(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities for project %s: %w", projectID, err)
	}
	return activities, nil
}

func (s *SQLiteStore) selectActivities(ctx context.Context, query string, args ...any) ([]model.Activity, error) {
	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	activities := make([]model.Activity, 0, len(rows))
	for _, r := range rows {
		activities = append(activities, model.Activity{
			ID:         r.ID,
			ProjectID:  r.ProjectID,
			UserID:     r.UserID,
			UserName:   r.UserName,
			Action:     r.Action,
			TargetName: r.TargetName,
			CreatedAt:  s.parseTime("activities.created_at", r.CreatedAt),
		})
	}
	return activities, nil
}
