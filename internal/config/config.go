// Package config provides configuration loading and management.
package config

// CommandsConfig holds the external command templates. Templates may use
// ${name} placeholders resolved through the run scope.
type CommandsConfig struct {
	// Test runs the project tests during qualification.
	// Env: RELEASE_COMMANDS_TEST
	Test string `json:"test,omitempty" yaml:"test,omitempty" toml:"test,omitempty" mapstructure:"test"`

	// Build produces the release artifacts.
	// Env: RELEASE_COMMANDS_BUILD
	Build string `json:"build,omitempty" yaml:"build,omitempty" toml:"build,omitempty" mapstructure:"build"`
}

// PathsConfig holds local install locations.
type PathsConfig struct {
	// LocalRepository is the root of the local artifact repository.
	// Default: ~/.m2/repository
	LocalRepository string `json:"localRepository,omitempty" yaml:"localRepository,omitempty" toml:"localRepository,omitempty" mapstructure:"localRepository"`

	// InstallDir receives a copy of the primary artifact when set.
	InstallDir string `json:"installDir,omitempty" yaml:"installDir,omitempty" toml:"installDir,omitempty" mapstructure:"installDir"`
}

// PublishConfig holds the remote artifact repository settings.
type PublishConfig struct {
	// Repository is a directory, a file:// URL or an s3://bucket/prefix URL.
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty" toml:"repository,omitempty" mapstructure:"repository"`

	// Retries is the number of upload attempts per artifact.
	// Default: 3
	Retries uint `json:"retries,omitempty" yaml:"retries,omitempty" toml:"retries,omitempty" mapstructure:"retries"`
}

// VCSConfig holds version control settings.
type VCSConfig struct {
	// Remote is the remote pushed to. Default: origin
	Remote string `json:"remote,omitempty" yaml:"remote,omitempty" toml:"remote,omitempty" mapstructure:"remote"`

	// TagPrefix is prepended to the version to name release tags. Default: v
	TagPrefix string `json:"tagPrefix,omitempty" yaml:"tagPrefix,omitempty" toml:"tagPrefix,omitempty" mapstructure:"tagPrefix"`

	// AuthorName and AuthorEmail sign release commits and tags.
	AuthorName  string `json:"authorName,omitempty" yaml:"authorName,omitempty" toml:"authorName,omitempty" mapstructure:"authorName"`
	AuthorEmail string `json:"authorEmail,omitempty" yaml:"authorEmail,omitempty" toml:"authorEmail,omitempty" mapstructure:"authorEmail"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty" toml:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the release CLI configuration.
// Loaded from YAML or TOML, validated against the embedded CUE schema.
type Config struct {
	// Requires is a version constraint the CLI must satisfy, e.g. ">= 0.3".
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty" toml:"requires,omitempty" mapstructure:"requires"`

	Commands CommandsConfig `json:"commands" yaml:"commands" toml:"commands" mapstructure:"commands"`
	Paths    PathsConfig    `json:"paths" yaml:"paths" toml:"paths" mapstructure:"paths"`
	Publish  PublishConfig  `json:"publish" yaml:"publish" toml:"publish" mapstructure:"publish"`
	VCS      VCSConfig      `json:"vcs" yaml:"vcs" toml:"vcs" mapstructure:"vcs"`
	Log      LogConfig      `json:"log" yaml:"log,omitempty" toml:"log,omitempty" mapstructure:"log"`

	// Variables are declared in the root scope and available to every
	// command template.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty" mapstructure:"variables"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `release config init` to generate initial config file.
func DefaultConfig() *Config {
	return &Config{
		Commands: CommandsConfig{
			Test:  "mvn -B test",
			Build: "mvn -B -DskipTests package",
		},
		Paths: PathsConfig{
			LocalRepository: "~/.m2/repository",
		},
		Publish: PublishConfig{
			Retries: 3,
		},
		VCS: VCSConfig{
			Remote:    "origin",
			TagPrefix: "v",
		},
	}
}

// defaults flattens DefaultConfig into viper keys.
func defaults() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"commands.test":         d.Commands.Test,
		"commands.build":        d.Commands.Build,
		"paths.localRepository": d.Paths.LocalRepository,
		"paths.installDir":      d.Paths.InstallDir,
		"publish.repository":    d.Publish.Repository,
		"publish.retries":       d.Publish.Retries,
		"vcs.remote":            d.VCS.Remote,
		"vcs.tagPrefix":         d.VCS.TagPrefix,
		"vcs.authorName":        d.VCS.AuthorName,
		"vcs.authorEmail":       d.VCS.AuthorEmail,
		"requires":              d.Requires,
	}
}

// ResolvedValue records where a configuration value came from.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}
