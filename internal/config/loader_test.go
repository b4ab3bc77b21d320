package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from yaml file", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", `
commands:
  test: make test
  build: make dist VERSION=${project.version}
paths:
  installDir: /opt/app
publish:
  repository: s3://artifacts/releases
  retries: 5
vcs:
  tagPrefix: release-
variables:
  deployTarget: staging
`)
		store, err := NewLoader().Load(path)
		require.NoError(t, err)
		assert.True(t, store.Found())
		assert.Equal(t, path, store.File())

		cfg, err := store.Config()
		require.NoError(t, err)
		assert.Equal(t, "make test", cfg.Commands.Test)
		assert.Equal(t, "make dist VERSION=${project.version}", cfg.Commands.Build)
		assert.Equal(t, "/opt/app", cfg.Paths.InstallDir)
		assert.Equal(t, "~/.m2/repository", cfg.Paths.LocalRepository, "defaults fill unset keys")
		assert.Equal(t, "s3://artifacts/releases", cfg.Publish.Repository)
		assert.Equal(t, uint(5), cfg.Publish.Retries)
		assert.Equal(t, "origin", cfg.VCS.Remote)
		assert.Equal(t, "release-", cfg.VCS.TagPrefix)
		assert.Equal(t, map[string]string{"deployTarget": "staging"}, cfg.Variables, "variable names keep their case")
	})

	t.Run("loads config from toml file", func(t *testing.T) {
		path := writeConfig(t, "config.toml", `
[vcs]
remote = "upstream"

[variables]
Channel = "beta"
`)
		store, err := NewLoader().Load(path)
		require.NoError(t, err)

		remote, ok := store.Get("vcs.remote")
		assert.True(t, ok)
		assert.Equal(t, "upstream", remote)
		assert.Equal(t, map[string]string{"Channel": "beta"}, store.Variables())
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		store, err := NewLoader().Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)
		assert.False(t, store.Found())

		cfg, err := store.Config()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Commands, cfg.Commands)
	})

	t.Run("empty path yields defaults", func(t *testing.T) {
		store, err := NewLoader().Load("")
		require.NoError(t, err)
		assert.Empty(t, store.File())
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("RELEASE_VCS_REMOTE", "env-remote")
		t.Setenv("RELEASE_COMMANDS_TEST", "go test ./...")
		path := writeConfig(t, "config.yaml", "vcs:\n  remote: file-remote\n")

		store, err := NewLoader().Load(path)
		require.NoError(t, err)
		cfg, err := store.Config()
		require.NoError(t, err)
		assert.Equal(t, "env-remote", cfg.VCS.Remote)
		assert.Equal(t, "go test ./...", cfg.Commands.Test)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "commands: [unclosed\n")
		_, err := NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestStore_GetSet(t *testing.T) {
	store, err := NewLoader().Load("")
	require.NoError(t, err)

	test, ok := store.Get("commands.test")
	assert.True(t, ok)
	assert.Equal(t, "mvn -B test", test)

	_, ok = store.Get("paths.installDir")
	assert.False(t, ok, "empty values count as unset")

	_, ok = store.Get("no.such.key")
	assert.False(t, ok)

	store.Set("paths.installDir", "/opt/app")
	dir, ok := store.Get("paths.installDir")
	assert.True(t, ok)
	assert.Equal(t, "/opt/app", dir)

	cfg, err := store.Config()
	require.NoError(t, err)
	assert.Equal(t, "/opt/app", cfg.Paths.InstallDir)
	assert.Contains(t, store.Keys(), "commands.test")
}

func TestStore_Resolved(t *testing.T) {
	t.Setenv("RELEASE_COMMANDS_TEST", "go test ./...")
	path := writeConfig(t, "config.yaml", "vcs:\n  remote: upstream\n")

	store, err := NewLoader().Load(path)
	require.NoError(t, err)
	store.Set("log.timestamps", "false")

	got := make(map[string]ResolvedValue)
	for _, rv := range store.Resolved() {
		got[rv.Key] = rv
	}

	tests := []struct {
		key      string
		value    any
		source   ConfigSource
		shadowed bool
	}{
		{key: "log.timestamps", value: "false", source: SourceFlag},
		{key: "commands.test", value: "go test ./...", source: SourceEnv, shadowed: true},
		{key: "vcs.remote", value: "upstream", source: SourceConfig, shadowed: true},
		{key: "vcs.tagprefix", value: "v", source: SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rv, ok := got[tt.key]
			require.True(t, ok)
			assert.Equal(t, tt.value, rv.Value)
			assert.Equal(t, tt.source, rv.Source)
			assert.Equal(t, tt.shadowed, rv.Shadowed != nil)
		})
	}

	LogResolvedValues(store.Resolved())
}
