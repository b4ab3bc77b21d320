package sequence

import (
	"time"

	"github.com/google/uuid"

	"github.com/opmodel/release/internal/scope"
	"github.com/opmodel/release/internal/version"
)

// Key names a fact in an ExecutionContext.
type Key string

// Phase tells whether a journal entry belongs to the execute or undo pass.
type Phase int

const (
	PhaseExecute Phase = iota
	PhaseUndo
)

func (p Phase) String() string {
	if p == PhaseUndo {
		return "undo"
	}
	return "execute"
}

// Entry is one journal record.
type Entry struct {
	Step     string
	Phase    Phase
	Err      error
	Duration time.Duration
}

// ExecutionContext accumulates the facts produced during one run. It is
// owned by the controller for the duration of the run.
type ExecutionContext struct {
	id      string
	mode    version.Mode
	values  map[Key]any
	scope   *scope.MapScope
	journal []Entry
}

// NewExecutionContext returns an empty context whose scope is enclosed by
// parent.
func NewExecutionContext(mode version.Mode, parent scope.Scope) *ExecutionContext {
	return &ExecutionContext{
		id:     uuid.NewString(),
		mode:   mode,
		values: make(map[Key]any),
		scope:  scope.New(parent),
	}
}

// ID identifies the run.
func (c *ExecutionContext) ID() string { return c.id }

// Mode returns the release mode of the run.
func (c *ExecutionContext) Mode() version.Mode { return c.mode }

// Scope returns the run scope. Steps declare run variables here.
func (c *ExecutionContext) Scope() *scope.MapScope { return c.scope }

// Set records a fact, replacing any previous value.
func (c *ExecutionContext) Set(key Key, value any) {
	c.values[key] = value
}

// Get returns a fact.
func (c *ExecutionContext) Get(key Key) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Delete forgets a fact.
func (c *ExecutionContext) Delete(key Key) {
	delete(c.values, key)
}

// Value returns the fact stored under key if it has type T.
func Value[T any](c *ExecutionContext, key Key) (T, bool) {
	v, ok := c.values[key].(T)
	return v, ok
}

// Append adds items to the list stored under key.
func Append[T any](c *ExecutionContext, key Key, items ...T) {
	list, _ := c.values[key].([]T)
	c.values[key] = append(list, items...)
}

// Version returns the version stored under key.
func (c *ExecutionContext) Version(key Key) (*version.Version, bool) {
	return Value[*version.Version](c, key)
}

// Journal returns the execute and undo records in the order they happened.
func (c *ExecutionContext) Journal() []Entry {
	return c.journal
}

// Completed returns the steps whose Execute succeeded, in order.
func (c *ExecutionContext) Completed() []string {
	var names []string
	for _, e := range c.journal {
		if e.Phase == PhaseExecute && e.Err == nil {
			names = append(names, e.Step)
		}
	}
	return names
}

// UndoErrors returns the failures of the undo pass.
func (c *ExecutionContext) UndoErrors() []error {
	var errs []error
	for _, e := range c.journal {
		if e.Phase == PhaseUndo && e.Err != nil {
			errs = append(errs, e.Err)
		}
	}
	return errs
}

func (c *ExecutionContext) record(e Entry) {
	c.journal = append(c.journal, e)
}
