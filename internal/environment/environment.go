// Package environment carries the runtime environment of a release run: the
// working directory, the informational output channel and string-typed
// variables such as the no-tests, no-push and no-install switches.
package environment

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
)

// Well-known variables.
const (
	NoTests   = "no-tests"
	NoPush    = "no-push"
	NoInstall = "no-install"
)

// Environment is the runtime environment handed to every release step.
type Environment struct {
	workDir string
	log     *log.Logger
	vars    map[string]string
}

// Option configures an Environment.
type Option func(*Environment)

// WithLogger sets the informational output channel. It defaults to the
// output package logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Environment) { e.log = l }
}

// WithVariable sets a variable.
func WithVariable(name, value string) Option {
	return func(e *Environment) { e.vars[name] = value }
}

// WithFlag sets a boolean variable.
func WithFlag(name string, value bool) Option {
	return WithVariable(name, strconv.FormatBool(value))
}

// New returns an environment rooted at workDir.
func New(workDir string, opts ...Option) *Environment {
	e := &Environment{
		workDir: workDir,
		vars:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = output.Logger()
	}
	return e
}

// WorkDir returns the working directory.
func (e *Environment) WorkDir() string {
	return e.workDir
}

// Log returns the informational output channel.
func (e *Environment) Log() *log.Logger {
	return e.log
}

// Info writes an informational message.
func (e *Environment) Info(msg string, keyvals ...interface{}) {
	e.log.Info(msg, keyvals...)
}

// Variable returns a variable value and whether it is set.
func (e *Environment) Variable(name string) (string, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// SetVariable sets a variable.
func (e *Environment) SetVariable(name, value string) {
	e.vars[name] = value
}

// Bool parses a boolean variable. Only "true" and "false" are accepted,
// case-insensitively; anything else fails with ErrFormat. An unset variable
// is false.
func (e *Environment) Bool(name string) (bool, error) {
	v, ok := e.vars[name]
	if !ok {
		return false, nil
	}
	return ParseBool(v)
}

// Variables returns the variable names in sorted order.
func (e *Environment) Variables() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// ParseBool parses "true" or "false", case-insensitively.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, oerrors.Wrapf(oerrors.ErrFormat, "invalid boolean %q, expected true or false", value)
	}
}
