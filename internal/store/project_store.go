package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/zenith/internal/model"
)

const projectColumns = `id, name, description, owner_id, members, color, created_at, risk_level`

// projectRow mirrors the projects table; members and timestamps are stored
// as text and decoded by toModel.
type projectRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	OwnerID     string `db:"owner_id"`
	Members     string `db:"members"`
	Color       string `db:"color"`
	CreatedAt   string `db:"created_at"`
	RiskLevel   string `db:"risk_level"`
}

func (s *SQLiteStore) projectFromRow(r projectRow) model.Project {
	return model.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Members:     s.decodeList("projects.members", r.Members),
		Color:       r.Color,
		CreatedAt:   s.parseTime("projects.created_at", r.CreatedAt),
		RiskLevel:   model.RiskLevel(r.RiskLevel),
	}
}

// UpsertProject inserts a project or replaces the one with the same ID,
// keeping its position in storage order.
func (s *SQLiteStore) UpsertProject(ctx context.Context, project model.Project) (bool, error) {
	var created bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created, err = upsertProject(ctx, tx, project)
		return err
	})
	return created, err
}

func upsertProject(ctx context.Context, tx *sqlx.Tx, project model.Project) (bool, error) {
	if strings.TrimSpace(project.ID) == "" {
		return false, fmt.Errorf("project id must not be empty")
	}
	members, err := encodeList(project.Members)
	if err != nil {
		return false, fmt.Errorf("marshaling members for project %s: %w", project.ID, err)
	}

	found, err := exists(ctx, tx, "projects", project.ID)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			owner_id = excluded.owner_id,
			members = excluded.members,
			color = excluded.color,
			created_at = excluded.created_at,
			risk_level = excluded.risk_level`,
		project.ID, project.Name, project.Description, project.OwnerID,
		members, project.Color, formatTime(project.CreatedAt), string(project.RiskLevel),
	)
	if err != nil {
		return false, fmt.Errorf("upserting project %s: %w", project.ID, err)
	}
	return !found, nil
}

// GetProjects returns every project in storage order.
func (s *SQLiteStore) GetProjects(ctx context.Context) ([]model.Project, error) {
	return s.selectProjects(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY seq")
}

// GetProjectsForUser returns the projects userID owns or is a member of,
// in storage order.
func (s *SQLiteStore) GetProjectsForUser(ctx context.Context, userID string) ([]model.Project, error) {
	return s.selectProjects(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE owner_id = ?
		   OR EXISTS (SELECT 1 FROM json_each(projects.members) WHERE json_each.value = ?)
		ORDER BY seq`, userID, userID)
}

func (s *SQLiteStore) selectProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		projects = append(projects, s.projectFromRow(r))
	}
	return projects, nil
}

// GetProjectByID retrieves a single project.
func (s *SQLiteStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var row projectRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, notFound(err))
	}
	p := s.projectFromRow(row)
	return &p, nil
}

// DeleteProjectCascade removes a project and every task that belongs to it
// in a single transaction. It returns the number of tasks removed.
func (s *SQLiteStore) DeleteProjectCascade(ctx context.Context, id string) (int, error) {
	var removed int64
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting project %s: %w", id, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("deleting project %s: %w", id, ErrNotFound)
		}

		result, err = tx.ExecContext(ctx, "DELETE FROM tasks WHERE project_id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting tasks of project %s: %w", id, err)
		}
		removed, _ = result.RowsAffected()
		return nil
	})
	return int(removed), err
}
