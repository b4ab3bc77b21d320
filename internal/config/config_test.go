package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "mvn -B test", cfg.Commands.Test)
	assert.Equal(t, "~/.m2/repository", cfg.Paths.LocalRepository)
	assert.Empty(t, cfg.Paths.InstallDir)
	assert.Equal(t, uint(3), cfg.Publish.Retries)
	assert.Equal(t, "origin", cfg.VCS.Remote)
	assert.Equal(t, "v", cfg.VCS.TagPrefix)
	assert.Nil(t, cfg.Log.Timestamps)
	assert.Empty(t, cfg.Requires)
}

func TestDefaults_MatchDefaultConfig(t *testing.T) {
	d := defaults()
	cfg := DefaultConfig()

	assert.Equal(t, cfg.Commands.Build, d["commands.build"])
	assert.Equal(t, cfg.VCS.TagPrefix, d["vcs.tagPrefix"])
	assert.Equal(t, cfg.Publish.Retries, d["publish.retries"])
}

func TestResolvedValue(t *testing.T) {
	rv := ResolvedValue{
		Key:    "config",
		Value:  "/etc/release.yaml",
		Source: SourceEnv,
		Shadowed: map[ConfigSource]any{
			SourceDefault: "~/.release/config.yaml",
		},
	}

	assert.Equal(t, SourceEnv, rv.Source)
	assert.Len(t, rv.Shadowed, 1)
	LogResolvedValues([]ResolvedValue{rv})
}
