package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	defaultPath := filepath.Join(home, ".release", "config.yaml")

	projectDir := t.TempDir()
	projectPath := filepath.Join(projectDir, ProjectConfigName)
	require.NoError(t, os.WriteFile(projectPath, []byte("vcs:\n  remote: origin\n"), 0o644))

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(envConfig, "/env/config.yaml")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/config.yaml", ProjectDir: projectDir})
		require.NoError(t, err)

		assert.Equal(t, "/flag/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
		assert.Equal(t, projectPath, result.Shadowed[SourceProject])
		assert.Equal(t, defaultPath, result.Shadowed[SourceDefault])
	})

	t.Run("env beats project", func(t *testing.T) {
		t.Setenv(envConfig, "/env/config.yaml")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{ProjectDir: projectDir})
		require.NoError(t, err)

		assert.Equal(t, "/env/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceEnv, result.Source)
		assert.NotContains(t, result.Shadowed, SourceFlag)
	})

	t.Run("project file beats default", func(t *testing.T) {
		t.Setenv(envConfig, "")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{ProjectDir: projectDir})
		require.NoError(t, err)

		assert.Equal(t, projectPath, result.ConfigPath)
		assert.Equal(t, SourceProject, result.Source)
		assert.Equal(t, defaultPath, result.Shadowed[SourceDefault])
	})

	t.Run("default when nothing else", func(t *testing.T) {
		t.Setenv(envConfig, "")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{ProjectDir: t.TempDir()})
		require.NoError(t, err)

		assert.Equal(t, defaultPath, result.ConfigPath)
		assert.Equal(t, SourceDefault, result.Source)
		assert.Empty(t, result.Shadowed)
	})
}

func TestResolveConfigPathResult_Value(t *testing.T) {
	result := ResolveConfigPathResult{
		ConfigPath: "/etc/release.yaml",
		Source:     SourceFlag,
		Shadowed:   map[ConfigSource]string{SourceDefault: "~/.release/config.yaml"},
	}

	rv := result.Value()
	assert.Equal(t, "config", rv.Key)
	assert.Equal(t, "/etc/release.yaml", rv.Value)
	assert.Equal(t, SourceFlag, rv.Source)
	assert.Equal(t, map[ConfigSource]any{SourceDefault: "~/.release/config.yaml"}, rv.Shadowed)
}
