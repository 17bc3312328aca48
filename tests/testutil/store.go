package testutil

import (
	"testing"

	"github.com/99designs/keyring"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/zenith/internal/credential"
	"github.com/nhle/zenith/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestVault returns a credential vault backed by an in-memory keyring.
func NewTestVault(t *testing.T) *credential.Vault {
	t.Helper()
	return credential.NewVault(keyring.NewArrayKeyring(nil))
}
