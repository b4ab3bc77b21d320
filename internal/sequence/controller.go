package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opmodel/release/internal/environment"
	oerrors "github.com/opmodel/release/internal/errors"
	"github.com/opmodel/release/internal/output"
	"github.com/opmodel/release/internal/project"
	"github.com/opmodel/release/internal/version"
)

// Status is the outcome of Execute.
type Status int

const (
	StatusCompleted Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusFailed {
		return "failed"
	}
	return "completed"
}

// Result is either a completed run or a failed one carrying the error and
// the step that produced it. The context is returned in both cases.
type Result struct {
	Status     Status
	Context    *ExecutionContext
	FailedStep string
	Err        error
}

// Failed reports whether the run failed.
func (r *Result) Failed() bool {
	return r.Status == StatusFailed
}

// StepError is a step failure as returned by Execute.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Controller executes a pipeline once for one release mode. Undo reverts the
// steps that completed.
type Controller struct {
	mode     version.Mode
	pipeline Pipeline

	ec        *ExecutionContext
	completed []Sequence
	executed  bool
}

// NewController returns a controller for mode over pipeline.
func NewController(mode version.Mode, pipeline Pipeline) *Controller {
	return &Controller{mode: mode, pipeline: pipeline}
}

// Mode returns the release mode.
func (c *Controller) Mode() version.Mode { return c.mode }

// Pipeline returns the step factories.
func (c *Controller) Pipeline() Pipeline { return c.pipeline }

// Execute runs each step in order and stops at the first failure. Steps
// after the failing one never run. The caller decides whether to Undo.
func (c *Controller) Execute(ctx context.Context, env *environment.Environment, p project.Project) *Result {
	if c.executed {
		return &Result{
			Status:  StatusFailed,
			Context: c.ec,
			Err:     oerrors.Wrap(oerrors.ErrUnsupported, "controller already executed"),
		}
	}
	c.executed = true
	c.ec = NewExecutionContext(c.mode, p.Scope())

	log := env.Log()
	log.Debug("starting release", "mode", c.mode, "steps", c.pipeline.Names(), "run", c.ec.ID())

	for _, factory := range c.pipeline {
		step := factory.New()
		stepLog := output.StepLogger(log, step.Name())

		if err := ctx.Err(); err != nil {
			c.ec.record(Entry{Step: step.Name(), Phase: PhaseExecute, Err: err})
			return c.fail(step.Name(), err)
		}

		stepLog.Debug("executing")
		start := time.Now()
		err := step.Execute(ctx, env, p, c.ec)
		c.ec.record(Entry{Step: step.Name(), Phase: PhaseExecute, Err: err, Duration: time.Since(start)})
		if err != nil {
			stepLog.Debug("failed", "err", err)
			return c.fail(step.Name(), err)
		}

		c.completed = append(c.completed, step)
		stepLog.Info(output.FormatStepLine(step.Name(), output.StatusDone))
	}

	return &Result{Status: StatusCompleted, Context: c.ec}
}

func (c *Controller) fail(step string, err error) *Result {
	return &Result{
		Status:     StatusFailed,
		Context:    c.ec,
		FailedStep: step,
		Err:        &StepError{Step: step, Err: err},
	}
}

// Undo reverts the completed steps, most recent first. It keeps going when
// a step fails to undo; those failures are recorded in the context and
// returned joined. The step that failed to execute is not undone. Undo
// before Execute, or a second Undo, does nothing.
func (c *Controller) Undo(ctx context.Context, env *environment.Environment, p project.Project) (*ExecutionContext, error) {
	if len(c.completed) == 0 {
		return c.ec, nil
	}

	log := env.Log()
	var errs []error
	for i := len(c.completed) - 1; i >= 0; i-- {
		step := c.completed[i]
		stepLog := output.StepLogger(log, step.Name())

		stepLog.Debug("undoing")
		start := time.Now()
		err := step.Undo(ctx, env, p, c.ec)
		c.ec.record(Entry{Step: step.Name(), Phase: PhaseUndo, Err: err, Duration: time.Since(start)})
		if err != nil {
			stepLog.Warn(output.FormatStepLine(step.Name(), output.StatusUndoFailed), "err", err)
			errs = append(errs, &StepError{Step: step.Name(), Err: err})
			continue
		}
		stepLog.Info(output.FormatStepLine(step.Name(), output.StatusUndone))
	}
	c.completed = nil

	return c.ec, errors.Join(errs...)
}
