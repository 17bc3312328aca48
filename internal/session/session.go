// Package session keeps track of the signed-in user.
//
// The current-user record lives in the entity store under
// store.KeyCurrentUser so it travels with snapshots. The session token is
// a signed JWT kept in the credential vault. The token is a display
// artifact: nothing in the tracker authorizes requests with it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/credential"
	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
)

// ErrInvalidToken is returned by ParseToken for tokens that fail
// verification or carry no subject.
var ErrInvalidToken = errors.New("invalid session token")

// Records is the part of the entity store the session manager needs.
type Records interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpsertUser(ctx context.Context, user model.User) (bool, error)
}

// Manager reads and writes the session record and token.
type Manager struct {
	records Records
	vault   *credential.Vault
	secret  []byte
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager creates a Manager. A nil logger is replaced with a no-op one.
func NewManager(records Records, vault *credential.Vault, secret string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		records: records,
		vault:   vault,
		secret:  []byte(secret),
		logger:  logger,
		now:     time.Now,
	}
}

// Current returns the active session, or nil when nobody is signed in.
// A corrupt current-user record is treated as signed out.
func (m *Manager) Current(ctx context.Context) (*model.Session, error) {
	raw, err := m.records.GetValue(ctx, store.KeyCurrentUser)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading current user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		m.logger.Warn("discarding corrupt current user record", zap.Error(err))
		return nil, nil
	}

	sess := &model.Session{User: user}
	token, err := m.vault.Get(credential.KeySessionToken)
	switch {
	case errors.Is(err, credential.ErrNotFound):
	case err != nil:
		m.logger.Warn("reading session token", zap.Error(err))
	default:
		sess.Token = token
		if sub, issued, err := m.ParseToken(token); err == nil && sub == user.ID {
			sess.IssuedAt = issued
		}
	}
	return sess, nil
}

// SignIn makes user the active session and issues a fresh token. The
// directory is not touched; call SyncDirectory to write the user back.
func (m *Manager) SignIn(ctx context.Context, user model.User) (*model.Session, error) {
	if user.ID == "" {
		return nil, errors.New("signing in: user id must not be empty")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshaling current user: %w", err)
	}

	issued := m.now().UTC().Truncate(time.Second)
	token, err := m.issue(user.ID, issued)
	if err != nil {
		return nil, err
	}

	if err := m.records.SetValue(ctx, store.KeyCurrentUser, string(data)); err != nil {
		return nil, fmt.Errorf("writing current user: %w", err)
	}
	if err := m.vault.Set(credential.KeySessionToken, token); err != nil {
		return nil, err
	}

	m.logger.Info("signed in", zap.String("user_id", user.ID))
	return &model.Session{User: user, Token: token, IssuedAt: issued}, nil
}

// SignOut clears the current-user record and the token.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.records.DeleteValue(ctx, store.KeyCurrentUser); err != nil {
		return fmt.Errorf("clearing current user: %w", err)
	}
	if err := m.vault.Delete(credential.KeySessionToken); err != nil {
		return err
	}
	m.logger.Info("signed out")
	return nil
}

// Refresh replaces the stored session user when user is the one signed in.
// It reports whether the record changed.
func (m *Manager) Refresh(ctx context.Context, user model.User) (bool, error) {
	sess, err := m.Current(ctx)
	if err != nil || sess == nil || sess.User.ID != user.ID {
		return false, err
	}

	data, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("marshaling current user: %w", err)
	}
	if err := m.records.SetValue(ctx, store.KeyCurrentUser, string(data)); err != nil {
		return false, fmt.Errorf("writing current user: %w", err)
	}
	return true, nil
}

// SyncDirectory writes the session user over its directory entry. Users
// missing from the directory are left out. It reports whether the
// directory was written.
func (m *Manager) SyncDirectory(ctx context.Context) (bool, error) {
	sess, err := m.Current(ctx)
	if err != nil || sess == nil {
		return false, err
	}

	if _, err := m.records.GetUserByID(ctx, sess.User.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := m.records.UpsertUser(ctx, sess.User); err != nil {
		return false, err
	}
	return true, nil
}

// Token returns the stored session token, or "" when there is none.
func (m *Manager) Token() (string, error) {
	token, err := m.vault.Get(credential.KeySessionToken)
	if errors.Is(err, credential.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (m *Manager) issue(userID string, issued time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       uuid.NewString(),
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(issued),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// ParseToken verifies a token issued by SignIn and returns its user id and
// issue time.
func (m *Manager) ParseToken(token string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	var issued time.Time
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.UTC()
	}
	return claims.Subject, issued, nil
}
