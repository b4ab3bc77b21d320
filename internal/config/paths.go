package config

import (
	"os"
	"path/filepath"
)

// ProjectConfigName is the project-local configuration file.
const ProjectConfigName = ".release.yaml"

// Paths contains standard filesystem paths for the release CLI.
type Paths struct {
	// ConfigFile is the path to the config file (~/.release/config.yaml).
	ConfigFile string

	// HomeDir is the release home directory (~/.release).
	HomeDir string
}

// DefaultPaths returns the default paths for the release CLI.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	releaseHome := filepath.Join(homeDir, ".release")

	return &Paths{
		ConfigFile: filepath.Join(releaseHome, "config.yaml"),
		HomeDir:    releaseHome,
	}, nil
}

// EnsureDir creates the directory holding path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}
