package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
)

// TaskPatch lists the fields a bulk update may set. Nil fields are left
// unchanged.
type TaskPatch struct {
	Status     *model.TaskStatus
	Priority   *model.Priority
	AssigneeID *string
	IsBlocked  *bool
}

func (p TaskPatch) apply(t model.Task) model.Task {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		if *p.AssigneeID == "" {
			t.AssigneeID = nil
		} else {
			id := *p.AssigneeID
			t.AssigneeID = &id
		}
	}
	if p.IsBlocked != nil {
		b := *p.IsBlocked
		t.IsBlocked = &b
	}
	return t
}

// Tasks manages the cards on project boards.
type Tasks struct {
	store  store.Store
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewTasks creates a task repository.
func NewTasks(st store.Store, opts Options, logger *zap.Logger) *Tasks {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tasks{store: st, opts: opts, logger: logger, now: time.Now}
}

// List returns a project's tasks in storage order.
func (r *Tasks) List(ctx context.Context, projectID string) ([]model.Task, error) {
	if err := r.opts.pause(ctx); err != nil {
		return nil, err
	}
	return r.store.GetTasksByProject(ctx, projectID)
}

// Get returns a single task.
func (r *Tasks) Get(ctx context.Context, id string) (*model.Task, error) {
	if err := r.opts.pause(ctx); err != nil {
		return nil, err
	}
	return r.store.GetTaskByID(ctx, id)
}

// Save creates or replaces a task and records a "created" or "updated"
// activity for actor in the same write. Draft ids are replaced with a
// durable one.
func (r *Tasks) Save(ctx context.Context, task model.Task, actor model.Actor) (model.Task, error) {
	if err := r.opts.pause(ctx); err != nil {
		return model.Task{}, err
	}

	if task.IsDraft() {
		task.ID = uuid.NewString()
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	existing, err := r.store.GetTaskByID(ctx, task.ID)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return model.Task{}, err
	case existing.ProjectID != task.ProjectID:
		return model.Task{}, fmt.Errorf("project of task %s: %w", task.ID, ErrImmutableField)
	}

	now := r.now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.CreatedAt = task.CreatedAt.UTC()

	activity := model.Activity{
		ID:         uuid.NewString(),
		ProjectID:  task.ProjectID,
		UserID:     actor.ID,
		UserName:   actor.Name,
		TargetName: task.Title,
		CreatedAt:  now,
	}
	created, err := r.store.SaveTaskWithActivity(ctx, task, activity, r.opts.retention())
	if err != nil {
		return model.Task{}, err
	}

	r.logger.Debug("task saved",
		zap.String("task_id", task.ID),
		zap.String("project_id", task.ProjectID),
		zap.Bool("created", created))
	return task, nil
}

// Move changes a task's status. Every transition is allowed.
func (r *Tasks) Move(ctx context.Context, taskID string, status model.TaskStatus, actor model.Actor) (model.Task, error) {
	task, err := r.Get(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	task.Status = status
	return r.Save(ctx, *task, actor)
}

// Delete removes a task. No activity is recorded and deleting an unknown
// task is not an error.
func (r *Tasks) Delete(ctx context.Context, taskID string) error {
	if err := r.opts.pause(ctx); err != nil {
		return err
	}
	return r.store.DeleteTask(ctx, taskID)
}

// BulkUpdate applies patch to each listed task and saves it, recording an
// activity per task. Unknown ids are skipped. The saved tasks are returned
// in the order given.
func (r *Tasks) BulkUpdate(ctx context.Context, ids []string, patch TaskPatch, actor model.Actor) ([]model.Task, error) {
	updated := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		task, err := r.store.GetTaskByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return updated, err
		}

		saved, err := r.Save(ctx, patch.apply(*task), actor)
		if err != nil {
			return updated, fmt.Errorf("updating task %s: %w", id, err)
		}
		updated = append(updated, saved)
	}
	return updated, nil
}

// BulkDelete removes every listed task.
func (r *Tasks) BulkDelete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
