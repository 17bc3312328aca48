// Package tracker implements the project tracker's operations on top of
// the entity store: the user directory, projects, tasks, and the comment
// and activity logs.
package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
)

// Options tunes repository behavior.
type Options struct {
	// Latency delays every operation. Zero disables it.
	Latency time.Duration

	// ActivityRetention is the number of activity entries kept per project.
	ActivityRetention int
}

// OptionsFromConfig derives Options from the storage section of the
// application config.
func OptionsFromConfig(cfg model.StorageConfig) Options {
	return Options{
		Latency:           cfg.Latency,
		ActivityRetention: cfg.ActivityRetention,
	}
}

func (o Options) retention() int {
	if o.ActivityRetention <= 0 {
		return model.DefaultActivityRetention
	}
	return o.ActivityRetention
}

// pause waits for the configured latency or until ctx is done.
func (o Options) pause(ctx context.Context) error {
	if o.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SessionRefresher updates the signed-in user's record after a directory
// edit.
type SessionRefresher interface {
	Refresh(ctx context.Context, user model.User) (bool, error)
}

// Tracker bundles the repositories that share one store.
type Tracker struct {
	Directory *Directory
	Projects  *Projects
	Tasks     *Tasks
	Logs      *Logs
}

// New wires every repository to st. sessions may be nil.
func New(st store.Store, sessions SessionRefresher, opts Options, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		Directory: NewDirectory(st, sessions, opts, logger),
		Projects:  NewProjects(st, opts, logger),
		Tasks:     NewTasks(st, opts, logger),
		Logs:      NewLogs(st, opts, logger),
	}
}
