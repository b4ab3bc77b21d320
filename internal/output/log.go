// Package output provides terminal output utilities for the release CLI.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package logger. Use the package functions or the scoped
// loggers instead of reaching for it directly.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug output and caller reporting. It forces
	// timestamps on.
	Verbose bool

	// Timestamps toggles timestamps. Nil means on.
	Timestamps *bool
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// SetupLogging configures the package logger.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// SetOutput redirects the package logger, keeping its level.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Logger returns the package logger.
func Logger() *log.Logger {
	return logger
}

// ReleaseLogger returns a logger scoped to a project release.
func ReleaseLogger(project string) *log.Logger {
	return logger.WithPrefix(StyleDim.Render("r:") + StyleNoun.Render(project))
}

// StepLogger returns a child of parent scoped to one release step.
func StepLogger(parent *log.Logger, step string) *log.Logger {
	prefix := StyleAction.Render(step)
	if p := parent.GetPrefix(); p != "" {
		prefix = p + " " + prefix
	}
	return parent.WithPrefix(prefix)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	logger.Error(msg, keyvals...)
}

// Println prints a message to stdout with a newline.
func Println(msg string) {
	os.Stdout.WriteString(msg + "\n")
}
