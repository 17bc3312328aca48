package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/zenith/internal/model"
)

// UpsertUser inserts a user or replaces the entry with the same ID in place.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user model.User) (bool, error) {
	var created bool
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		created, err = upsertUser(ctx, tx, user)
		return err
	})
	return created, err
}

func upsertUser(ctx context.Context, tx *sqlx.Tx, user model.User) (bool, error) {
	if strings.TrimSpace(user.ID) == "" {
		return false, fmt.Errorf("user id must not be empty")
	}
	found, err := exists(ctx, tx, "users", user.ID)
	if err != nil {
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, avatar)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			avatar = excluded.avatar`,
		user.ID, user.Name, user.Email, user.Avatar,
	)
	if err != nil {
		return false, fmt.Errorf("upserting user %s: %w", user.ID, err)
	}
	return !found, nil
}

// GetUsers returns every user in registration order.
func (s *SQLiteStore) GetUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT id, name, email, avatar FROM users ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	return users, nil
}

// GetUserByID retrieves a single user.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.GetContext(ctx, &user,
		"SELECT id, name, email, avatar FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, notFound(err))
	}
	return &user, nil
}

// GetUserByEmail retrieves the earliest registered user whose email matches,
// ignoring case and surrounding whitespace.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.GetContext(ctx, &user, `
		SELECT id, name, email, avatar FROM users
		WHERE lower(trim(email)) = lower(trim(?))
		ORDER BY seq LIMIT 1`, email)
	if err != nil {
		return nil, fmt.Errorf("getting user by email %q: %w", email, notFound(err))
	}
	return &user, nil
}
