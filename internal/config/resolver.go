package config

import (
	"os"
	"path/filepath"

	"github.com/opmodel/release/internal/output"
)

// envConfig names the config file through the environment.
const envConfig = "RELEASE_CONFIG"

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceProject indicates value came from the project directory.
	SourceProject ConfigSource = "project"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
	// ProjectDir is searched for a project-local config file.
	ProjectDir string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// Value reports the config path as a resolved value.
func (r ResolveConfigPathResult) Value() ResolvedValue {
	shadowed := make(map[ConfigSource]any, len(r.Shadowed))
	for source, path := range r.Shadowed {
		shadowed[source] = path
	}
	return ResolvedValue{Key: "config", Value: r.ConfigPath, Source: r.Source, Shadowed: shadowed}
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) RELEASE_CONFIG env, (3) <project>/.release.yaml
// when it exists, (4) ~/.release/config.yaml default.
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}

	candidates := []struct {
		source ConfigSource
		path   string
	}{
		{SourceFlag, opts.FlagValue},
		{SourceEnv, os.Getenv(envConfig)},
		{SourceProject, projectConfig(opts.ProjectDir)},
		{SourceDefault, paths.ConfigFile},
	}

	for _, c := range candidates {
		if c.path == "" {
			continue
		}
		if result.Source == "" {
			result.ConfigPath = c.path
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.path
	}

	return result, nil
}

// projectConfig returns the project config file in dir if one exists.
func projectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, ProjectConfigName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
