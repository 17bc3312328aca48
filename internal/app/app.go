// Package app wires configuration, storage, credentials and services into
// a ready-to-use application.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nhle/zenith/internal/ai"
	"github.com/nhle/zenith/internal/credential"
	"github.com/nhle/zenith/internal/model"
	"github.com/nhle/zenith/internal/session"
	"github.com/nhle/zenith/internal/store"
	"github.com/nhle/zenith/internal/tracker"
)

// App holds the long-lived services of one process.
type App struct {
	Config      *model.AppConfig
	Logger      *zap.Logger
	Store       *store.SQLiteStore
	Vault       *credential.Vault
	Sessions    *session.Manager
	Tracker     *tracker.Tracker
	Coordinator *ai.Coordinator
}

// Open opens the keyring selected by cfg and then the rest of the
// application.
func Open(ctx context.Context, cfg *model.AppConfig, logger *zap.Logger) (*App, error) {
	vault, err := credential.Open(cfg.Credential)
	if err != nil {
		return nil, err
	}
	return OpenWithVault(ctx, cfg, vault, logger)
}

// OpenWithVault opens the store at cfg.Storage.Path, seeds the default
// users on first run, and builds the services around it.
func OpenWithVault(ctx context.Context, cfg *model.AppConfig, vault *credential.Vault, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Storage.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	st, err := store.NewSQLiteStore(cfg.Storage.Path, logger.Named("store"))
	if err != nil {
		return nil, err
	}
	if _, err := st.Seed(ctx); err != nil {
		st.Close()
		return nil, err
	}

	sessions := session.NewManager(st, vault, cfg.Session.Secret, logger.Named("session"))
	opts := tracker.OptionsFromConfig(cfg.Storage)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Store:       st,
		Vault:       vault,
		Sessions:    sessions,
		Tracker:     tracker.New(st, sessions, opts, logger.Named("tracker")),
		Coordinator: ai.NewCoordinator(loadGenerator(cfg.AI, vault, logger), logger.Named("ai")),
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// loadGenerator returns a Claude client when an API key is available in
// the configured environment variable or the keyring, and nil otherwise.
func loadGenerator(cfg model.AIConfig, vault *credential.Vault, logger *zap.Logger) ai.TextGenerator {
	apiKey := ""
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	if apiKey == "" {
		var err error
		apiKey, err = vault.Get(credential.KeyAnthropicAPI)
		if err != nil && !errors.Is(err, credential.ErrNotFound) {
			logger.Warn("reading AI key", zap.Error(err))
		}
	}
	if apiKey == "" {
		return nil
	}
	return ai.NewAnthropicClient(apiKey, cfg.Model, cfg.MaxTokens)
}
