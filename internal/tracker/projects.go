package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
)

// Projects manages project workspaces.
type Projects struct {
	store  store.Store
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewProjects creates a project repository.
func NewProjects(st store.Store, opts Options, logger *zap.Logger) *Projects {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projects{store: st, opts: opts, logger: logger, now: time.Now}
}

// List returns the projects userID owns or belongs to, in storage order.
func (p *Projects) List(ctx context.Context, userID string) ([]model.Project, error) {
	if err := p.opts.pause(ctx); err != nil {
		return nil, err
	}
	return p.store.GetProjectsForUser(ctx, userID)
}

// Get returns a single project.
func (p *Projects) Get(ctx context.Context, id string) (*model.Project, error) {
	if err := p.opts.pause(ctx); err != nil {
		return nil, err
	}
	return p.store.GetProjectByID(ctx, id)
}

// Save creates or replaces a project. A project without an id gets a new
// one and a creation time. The owner of an existing project cannot change.
func (p *Projects) Save(ctx context.Context, project model.Project) (model.Project, error) {
	if err := p.opts.pause(ctx); err != nil {
		return model.Project{}, err
	}

	project.Name = strings.TrimSpace(project.Name)
	if err := project.Validate(); err != nil {
		return model.Project{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if project.ID == "" {
		project.ID = uuid.NewString()
	} else {
		existing, err := p.store.GetProjectByID(ctx, project.ID)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return model.Project{}, err
		case existing.OwnerID != project.OwnerID:
			return model.Project{}, fmt.Errorf("owner of project %s: %w", project.ID, ErrImmutableField)
		}
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = p.now()
	}
	project.CreatedAt = project.CreatedAt.UTC()

	created, err := p.store.UpsertProject(ctx, project)
	if err != nil {
		return model.Project{}, err
	}
	p.logger.Info("project saved",
		zap.String("project_id", project.ID), zap.Bool("created", created))
	return project, nil
}

// AddMember adds userID to the project's members unless it already
// belongs to the project.
func (p *Projects) AddMember(ctx context.Context, projectID, userID string) (model.Project, error) {
	project, err := p.Get(ctx, projectID)
	if err != nil {
		return model.Project{}, err
	}
	if project.HasMember(userID) {
		return *project, nil
	}
	project.Members = append(project.Members, userID)
	return p.Save(ctx, *project)
}

// Delete removes a project and all of its tasks. Only the owner may
// delete; a missing project is reported as ErrUnauthorized as well.
// It returns the number of tasks removed.
func (p *Projects) Delete(ctx context.Context, projectID, requesterID string) (int, error) {
	if err := p.opts.pause(ctx); err != nil {
		return 0, err
	}

	project, err := p.store.GetProjectByID(ctx, projectID)
	if errors.Is(err, ErrNotFound) {
		return 0, ErrUnauthorized
	}
	if err != nil {
		return 0, err
	}
	if !project.IsOwner(requesterID) {
		return 0, ErrUnauthorized
	}

	removed, err := p.store.DeleteProjectCascade(ctx, projectID)
	if err != nil {
		return 0, err
	}
	p.logger.Info("project deleted",
		zap.String("project_id", projectID), zap.Int("tasks_removed", removed))
	return removed, nil
}
