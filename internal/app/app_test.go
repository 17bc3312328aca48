package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/zenith/internal/ai"
	"github.com/nhle/zenith/internal/credential"
	"github.com/nhle/zenith/internal/model"
)

func TestOpenWithVault_SeedsAndPersists(t *testing.T) {
	ctx := context.Background()
	cfg := model.DefaultAppConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data", "zenith.db")
	vault := credential.NewVault(keyring.NewArrayKeyring(nil))

	a, err := OpenWithVault(ctx, cfg, vault, zaptest.NewLogger(t))
	require.NoError(t, err)

	users, err := a.Tracker.Directory.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	_, err = a.Tracker.Projects.Save(ctx, model.Project{Name: "Apollo", OwnerID: users[0].ID})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	again, err := OpenWithVault(ctx, cfg, vault, nil)
	require.NoError(t, err)
	defer again.Close()

	projects, err := again.Tracker.Projects.List(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	users, err = again.Tracker.Directory.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestLoadGenerator(t *testing.T) {
	vault := credential.NewVault(keyring.NewArrayKeyring(nil))
	cfg := model.AIConfig{APIKeyEnv: "ZENITH_TEST_AI_KEY"}

	t.Setenv("ZENITH_TEST_AI_KEY", "")
	assert.Nil(t, loadGenerator(cfg, vault, zaptest.NewLogger(t)))

	require.NoError(t, vault.Set(credential.KeyAnthropicAPI, "from-keyring"))
	assert.IsType(t, &ai.AnthropicClient{}, loadGenerator(cfg, vault, zaptest.NewLogger(t)))

	t.Setenv("ZENITH_TEST_AI_KEY", "from-env")
	assert.NotNil(t, loadGenerator(cfg, vault, zaptest.NewLogger(t)))
}
