package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/release/internal/config"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/testutil"
)

func TestNewConfigInitCmd(t *testing.T) {
	cmd := NewConfigInitCmd()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("project"))
}

func TestConfigInit_CreatesFile(t *testing.T) {
	home := testutil.Isolate(t)

	require.NoError(t, execute(t, "config", "init"))

	path := filepath.Join(home, ".release", "config.yaml")
	require.FileExists(t, path)

	store, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	assert.True(t, store.Found())

	cfg, err := store.Config()
	require.NoError(t, err)
	want := config.DefaultConfig()
	assert.Equal(t, want.Commands, cfg.Commands)
	assert.Equal(t, want.Publish, cfg.Publish)
	assert.Equal(t, want.VCS, cfg.VCS)
}

func TestConfigInit_SecurePermissions(t *testing.T) {
	home := testutil.Isolate(t)

	require.NoError(t, execute(t, "config", "init"))

	info, err := os.Stat(filepath.Join(home, ".release", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigInit_AlreadyExists(t *testing.T) {
	testutil.Isolate(t)

	require.NoError(t, execute(t, "config", "init"))

	err := execute(t, "config", "init")
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))

	assert.NoError(t, execute(t, "config", "init", "--force"))
}

func TestConfigInit_Project(t *testing.T) {
	home := testutil.Isolate(t)
	dir := t.TempDir()

	require.NoError(t, execute(t, "config", "init", "--project", "--dir", dir))

	assert.FileExists(t, filepath.Join(dir, config.ProjectConfigName))
	assert.NoFileExists(t, filepath.Join(home, ".release", "config.yaml"))
}
