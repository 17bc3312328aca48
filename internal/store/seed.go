package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
)

// DefaultUsers populate an empty directory on first run.
var DefaultUsers = []model.User{
	{ID: "1", Name: "Alex Rivera", Email: "alex@pm.ai", Avatar: "https://i.pravatar.cc/150?u=alex"},
	{ID: "2", Name: "Sarah Chen", Email: "sarah@pm.ai", Avatar: "https://i.pravatar.cc/150?u=sarah"},
	{ID: "3", Name: "Marcus Bell", Email: "marcus@pm.ai", Avatar: "https://i.pravatar.cc/150?u=marcus"},
}

// Seed writes DefaultUsers when the user table is empty. It reports
// whether anything was written.
func (s *SQLiteStore) Seed(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	for _, u := range DefaultUsers {
		if _, err := s.UpsertUser(ctx, u); err != nil {
			return false, fmt.Errorf("seeding user %s: %w", u.ID, err)
		}
	}
	s.logger.Info("seeded default users", zap.Int("count", len(DefaultUsers)))
	return true, nil
}
