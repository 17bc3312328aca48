package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
)

// ActivityFeedLimit caps how many entries Activities returns.
const ActivityFeedLimit = 30

// Logs gives access to task comments and project activity.
type Logs struct {
	store  store.Store
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewLogs creates the comment and activity log repository.
func NewLogs(st store.Store, opts Options, logger *zap.Logger) *Logs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logs{store: st, opts: opts, logger: logger, now: time.Now}
}

// Comments returns a task's comments, oldest first.
func (l *Logs) Comments(ctx context.Context, taskID string) ([]model.Comment, error) {
	if err := l.opts.pause(ctx); err != nil {
		return nil, err
	}
	return l.store.GetComments(ctx, taskID)
}

// AddComment appends a comment. A missing id or timestamp is filled in.
func (l *Logs) AddComment(ctx context.Context, c model.Comment) (model.Comment, error) {
	if err := l.opts.pause(ctx); err != nil {
		return model.Comment{}, err
	}

	if strings.TrimSpace(c.Text) == "" {
		return model.Comment{}, fmt.Errorf("comment text is required: %w", ErrInvalidInput)
	}
	if c.TaskID == "" {
		return model.Comment{}, fmt.Errorf("comment task is required: %w", ErrInvalidInput)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = l.now().UTC()
	}
	c.CreatedAt = c.CreatedAt.UTC()

	if err := l.store.AppendComment(ctx, c); err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

// Activities returns a project's most recent activity, newest first.
func (l *Logs) Activities(ctx context.Context, projectID string) ([]model.Activity, error) {
	if err := l.opts.pause(ctx); err != nil {
		return nil, err
	}
	return l.store.GetActivities(ctx, projectID, ActivityFeedLimit)
}

// LogActivity appends an entry to a project's feed. Older entries beyond
// the configured retention are dropped.
func (l *Logs) LogActivity(ctx context.Context, a model.Activity) (model.Activity, error) {
	if err := l.opts.pause(ctx); err != nil {
		return model.Activity{}, err
	}

	if a.ProjectID == "" || a.Action == "" {
		return model.Activity{}, fmt.Errorf("activity project and action are required: %w", ErrInvalidInput)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = l.now().UTC()
	}
	a.CreatedAt = a.CreatedAt.UTC()

	if err := l.store.AppendActivity(ctx, a, l.opts.retention()); err != nil {
		return model.Activity{}, err
	}
	l.logger.Debug("activity logged",
		zap.String("project_id", a.ProjectID), zap.String("action", a.Action))
	return a, nil
}
