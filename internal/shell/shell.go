// Package shell runs the configured test and build command lines through
// the system shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
)

// DefaultShell interprets command lines.
const DefaultShell = "/bin/sh"

// tailLines is how much stderr an ExitError keeps.
const tailLines = 20

// Command is one command line to run.
type Command struct {
	// Line is passed to the shell with -c.
	Line string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env is added to the inherited environment.
	Env map[string]string
	// Title is shown by the spinner. Defaults to Line.
	Title string
}

// Result is the captured outcome of a command that ran.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// ExitError reports a command that exited non-zero.
type ExitError struct {
	Line     string
	ExitCode int
	// Tail is the end of stderr.
	Tail string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", e.Line, e.ExitCode)
	if e.Tail != "" {
		msg += ":\n" + e.Tail
	}
	return msg
}

// Unwrap ties failing commands to ErrUser.
func (e *ExitError) Unwrap() error {
	return oerrors.ErrUser
}

// Runner executes command lines.
type Runner struct {
	shell   string
	spinner bool
	stream  io.Writer
	log     *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithShell sets the shell binary.
func WithShell(path string) Option {
	return func(r *Runner) { r.shell = path }
}

// WithSpinner shows a spinner while a command runs on a terminal.
func WithSpinner(enabled bool) Option {
	return func(r *Runner) { r.spinner = enabled }
}

// WithStream copies command output to w while it runs.
func WithStream(w io.Writer) Option {
	return func(r *Runner) { r.stream = w }
}

// WithLogger sets the logger commands are reported to.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// New returns a runner using DefaultShell.
func New(opts ...Option) *Runner {
	r := &Runner{shell: DefaultShell}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = output.Logger()
	}
	return r
}

// Run executes cmd and waits for it. A non-zero exit yields an *ExitError
// together with the captured result.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if strings.TrimSpace(cmd.Line) == "" {
		return nil, oerrors.Wrap(oerrors.ErrArgument, "empty command line")
	}

	var res *Result
	var runErr error
	action := func() error {
		res, runErr = r.run(ctx, cmd)
		return runErr
	}

	title := cmd.Title
	if title == "" {
		title = cmd.Line
	}
	r.log.Debug("running", "cmd", cmd.Line, "dir", cmd.Dir)

	if r.spinner && r.stream == nil {
		if err := output.RunWithSpinner(ctx, title, action); err != nil && runErr == nil {
			return res, err
		}
	} else {
		_ = action()
	}

	if res != nil {
		r.log.Debug("finished", "cmd", cmd.Line, "status", res.ExitCode, "took", res.Duration.Round(time.Millisecond))
	}
	return res, runErr
}

func (r *Runner) run(ctx context.Context, cmd Command) (*Result, error) {
	c := exec.CommandContext(ctx, r.shell, "-c", cmd.Line)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), envList(cmd.Env)...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if r.stream != nil {
		c.Stdout = io.MultiWriter(&stdout, r.stream)
		c.Stderr = io.MultiWriter(&stderr, r.stream)
	}

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("command %q interrupted: %w", cmd.Line, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Line: cmd.Line, ExitCode: res.ExitCode, Tail: tail(res.Stderr, tailLines)}
	}
	return res, fmt.Errorf("starting %q: %w", cmd.Line, err)
}

// envList renders env sorted by name.
func envList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
