package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment variable prefix for release configuration.
const envPrefix = "RELEASE"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader with defaults and
// environment bindings in place.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	return &Loader{v: v}
}

// Load reads the configuration file at configFile. A missing file is not an
// error: defaults and environment variables still apply. Environment
// variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Store, error) {
	store := &Store{v: l.v}
	if configFile == "" {
		return store, nil
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}
	store.file = expandedPath

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType(formatOf(expandedPath))

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", expandedPath, err)
	}
	store.found = true

	// viper folds keys to lower case; variable names keep their case.
	vars, err := readVariables(expandedPath)
	if err != nil {
		return nil, err
	}
	store.variables = vars

	return store, nil
}

// formatOf returns the config format for a file name, yaml by default.
func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

func readVariables(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var doc struct {
		Variables map[string]string `yaml:"variables" toml:"variables"`
	}
	if formatOf(path) == "toml" {
		err = toml.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding variables in %s: %w", path, err)
	}
	return doc.Variables, nil
}

// Store is the loaded configuration. It answers string lookups for release
// steps and decodes into Config.
type Store struct {
	v         *viper.Viper
	file      string
	found     bool
	variables map[string]string
	overrides map[string]bool
}

// Get returns the value of key and whether it is set to a non-empty value.
// Keys are dotted paths such as "commands.test".
func (s *Store) Get(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	value := s.v.GetString(key)
	return value, value != ""
}

// Set overrides key for the rest of the process. Command-line flags reach
// the configuration this way.
func (s *Store) Set(key, value string) {
	if s.overrides == nil {
		s.overrides = make(map[string]bool)
	}
	s.overrides[strings.ToLower(key)] = true
	s.v.Set(key, value)
}

// Keys returns every known key in sorted order.
func (s *Store) Keys() []string {
	keys := s.v.AllKeys()
	slices.Sort(keys)
	return keys
}

// Resolved reports every known key with the source its value came from.
func (s *Store) Resolved() []ResolvedValue {
	fallback := make(map[string]any)
	for key, value := range defaults() {
		fallback[strings.ToLower(key)] = value
	}

	keys := s.Keys()
	values := make([]ResolvedValue, 0, len(keys))
	for _, key := range keys {
		rv := ResolvedValue{Key: key, Source: s.source(key)}
		rv.Value, _ = s.Get(key)
		if def, ok := fallback[key]; ok && rv.Source != SourceDefault {
			rv.Shadowed = map[ConfigSource]any{SourceDefault: def}
		}
		values = append(values, rv)
	}
	return values
}

func (s *Store) source(key string) ConfigSource {
	env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	switch {
	case s.overrides[strings.ToLower(key)]:
		return SourceFlag
	case os.Getenv(env) != "":
		return SourceEnv
	case s.found && s.v.InConfig(key):
		return SourceConfig
	default:
		return SourceDefault
	}
}

// File returns the config file path, empty when none was given.
func (s *Store) File() string { return s.file }

// Found reports whether the config file was read.
func (s *Store) Found() bool { return s.found }

// Config decodes the store into a Config.
func (s *Store) Config() (*Config, error) {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if s.variables != nil {
		cfg.Variables = s.variables
	}
	return &cfg, nil
}

// Variables returns the configured variables with their case preserved.
func (s *Store) Variables() map[string]string {
	if s.variables != nil {
		return s.variables
	}
	return s.v.GetStringMapString("variables")
}
