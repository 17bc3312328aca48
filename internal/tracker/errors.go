package tracker

import (
	"errors"

	"github.com/nhle/zenith/internal/store"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = store.ErrNotFound

	// ErrUnauthorized is returned when the requester may not perform an
	// operation, e.g. deleting a project they do not own.
	ErrUnauthorized = errors.New("unauthorized: only the project lead can delete this workspace")

	// ErrInvalidInput is returned for blank or malformed fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrImmutableField is returned when a save would change a project's
	// owner or move a task to another project.
	ErrImmutableField = errors.New("field cannot be changed after creation")
)
