package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/store"
)

const avatarBaseURL = "https://i.pravatar.cc/150?u="

// AvatarURL returns the generated avatar for email.
func AvatarURL(email string) string {
	return avatarBaseURL + url.QueryEscape(email)
}

// Directory manages registered users.
type Directory struct {
	store    store.Store
	sessions SessionRefresher
	opts     Options
	logger   *zap.Logger
}

// NewDirectory creates a Directory. sessions may be nil.
func NewDirectory(st store.Store, sessions SessionRefresher, opts Options, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: st, sessions: sessions, opts: opts, logger: logger}
}

// Users returns every user in registration order.
func (d *Directory) Users(ctx context.Context) ([]model.User, error) {
	if err := d.opts.pause(ctx); err != nil {
		return nil, err
	}
	return d.store.GetUsers(ctx)
}

// Register appends a new user with a generated id and avatar. It does not
// check whether the email is already in use.
func (d *Directory) Register(ctx context.Context, name, email string) (model.User, error) {
	if err := d.opts.pause(ctx); err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Avatar: AvatarURL(email),
	}
	if _, err := d.store.UpsertUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("registering %s: %w", email, err)
	}

	d.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// SignUp registers a new account. Name and email are required and the
// email must not already be registered. A non-empty avatar replaces the
// generated one.
func (d *Directory) SignUp(ctx context.Context, name, email, avatar string) (model.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return model.User{}, fmt.Errorf("name and email are required: %w", ErrInvalidInput)
	}

	existing, err := d.Lookup(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return model.User{}, err
	}
	if existing != nil {
		return model.User{}, fmt.Errorf("%s: %w", email, ErrEmailTaken)
	}

	user, err := d.Register(ctx, name, email)
	if err != nil {
		return model.User{}, err
	}
	if avatar = strings.TrimSpace(avatar); avatar != "" {
		user.Avatar = avatar
		if _, err := d.store.UpsertUser(ctx, user); err != nil {
			return model.User{}, fmt.Errorf("setting avatar for %s: %w", user.ID, err)
		}
	}
	return user, nil
}

// Lookup finds a user by email, ignoring case. It returns ErrNotFound when
// nobody matches.
func (d *Directory) Lookup(ctx context.Context, email string) (*model.User, error) {
	if err := d.opts.pause(ctx); err != nil {
		return nil, err
	}
	return d.store.GetUserByEmail(ctx, strings.TrimSpace(email))
}

// Update replaces an existing user and refreshes the session record when
// that user is signed in.
func (d *Directory) Update(ctx context.Context, user model.User) error {
	if err := d.opts.pause(ctx); err != nil {
		return err
	}

	if _, err := d.store.GetUserByID(ctx, user.ID); err != nil {
		return err
	}
	if _, err := d.store.UpsertUser(ctx, user); err != nil {
		return err
	}

	if d.sessions != nil {
		if _, err := d.sessions.Refresh(ctx, user); err != nil {
			return fmt.Errorf("refreshing session for %s: %w", user.ID, err)
		}
	}
	return nil
}

// Invite returns the user registered under email, registering one named
// after the email's local part when there is none. created reports
// whether a user was added.
func (d *Directory) Invite(ctx context.Context, email string) (user model.User, created bool, err error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.User{}, false, fmt.Errorf("email is required: %w", ErrInvalidInput)
	}

	existing, err := d.Lookup(ctx, email)
	if err == nil {
		return *existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.User{}, false, err
	}

	name, _, _ := strings.Cut(email, "@")
	user, err = d.Register(ctx, name, email)
	if err != nil {
		return model.User{}, false, err
	}
	return user, true, nil
}
