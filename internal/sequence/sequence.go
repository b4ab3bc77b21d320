// Package sequence runs the release pipeline: an ordered list of undoable
// steps executed against one project. A failed run is unwound by undoing the
// completed steps in reverse order.
package sequence

import (
	"context"

	"github.com/opmodel/release/internal/environment"
	"github.com/opmodel/release/internal/project"
)

// Sequence is one step of the release pipeline.
//
// Execute records in the execution context whatever Undo needs to revert
// it. Undo is only called on sequences whose Execute succeeded.
type Sequence interface {
	Name() string
	Execute(ctx context.Context, env *environment.Environment, p project.Project, ec *ExecutionContext) error
	Undo(ctx context.Context, env *environment.Environment, p project.Project, ec *ExecutionContext) error
}

// Factory creates a fresh Sequence for one run.
type Factory struct {
	Name string
	New  func() Sequence
}

// Pipeline is an ordered list of step factories.
type Pipeline []Factory

// NewPipeline returns a pipeline of factories in order.
func NewPipeline(factories ...Factory) Pipeline {
	return Pipeline(factories)
}

// Names returns the step names in order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, f := range p {
		names[i] = f.Name
	}
	return names
}

// Without returns a copy of p without the named steps.
func (p Pipeline) Without(names ...string) Pipeline {
	out := make(Pipeline, 0, len(p))
	for _, f := range p {
		skip := false
		for _, name := range names {
			if f.Name == name {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, f)
		}
	}
	return out
}
