package scope

import (
	oerrors "github.com/opmodel/release/internal/errors"
)

// Source supplies the bindings of a read-only scope. Lookup is called on
// every Get, so the source may change between lookups.
type Source interface {
	Lookup(name string) (string, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) (string, bool)

// Lookup implements Source.
func (f SourceFunc) Lookup(name string) (string, bool) { return f(name) }

// ReadOnly is a projection of a live source. Writes fail with ErrUnsupported.
type ReadOnly struct {
	name   string
	source Source
	parent Scope
}

// NewReadOnly returns a read-only scope over source enclosed by parent. The
// name appears in error messages.
func NewReadOnly(name string, source Source, parent Scope) *ReadOnly {
	return &ReadOnly{name: name, source: source, parent: parent}
}

// Get implements Scope.
func (r *ReadOnly) Get(name string) (string, bool) {
	if v, ok := r.source.Lookup(name); ok {
		return v, true
	}
	if r.parent != nil {
		return r.parent.Get(name)
	}
	return "", false
}

// Declare always fails.
func (r *ReadOnly) Declare(name, _ string) error {
	return oerrors.Wrapf(oerrors.ErrUnsupported, "cannot declare %q in read-only %s scope", name, r.name)
}

// DeclarePlaceholder always fails.
func (r *ReadOnly) DeclarePlaceholder(name string) error {
	return oerrors.Wrapf(oerrors.ErrUnsupported, "cannot declare %q in read-only %s scope", name, r.name)
}

// Set always fails.
func (r *ReadOnly) Set(name, _ string) error {
	return oerrors.Wrapf(oerrors.ErrUnsupported, "cannot set %q in read-only %s scope", name, r.name)
}

// Parent implements Scope.
func (r *ReadOnly) Parent() Scope {
	return r.parent
}
