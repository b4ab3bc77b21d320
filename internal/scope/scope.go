// Package scope resolves named variables through a tree of scopes.
//
// Every scope holds local bindings and an optional parent fixed at
// construction. A lookup that misses locally is delegated up the chain until
// the root, where the name is undeclared. Declarations only ever touch the
// scope they are made on.
package scope

import (
	"fmt"
	"maps"
	"slices"

	oerrors "github.com/opmodel/release/internal/errors"
)

// Scope is a node in a variable resolution tree.
type Scope interface {
	// Get resolves name locally, then through the parent chain. The boolean
	// is false when no scope binds the name.
	Get(name string) (string, bool)

	// Declare introduces a local binding. Redeclaring a local name fails.
	Declare(name, value string) error

	// DeclarePlaceholder introduces a local name whose value is bound later
	// with Set.
	DeclarePlaceholder(name string) error

	// Set rebinds the nearest scope declaring name.
	Set(name, value string) error

	// Parent returns the enclosing scope, or nil at the root.
	Parent() Scope
}

// UndeclaredError reports a name that no scope in the chain declares.
type UndeclaredError struct {
	Name string
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("undeclared variable %q", e.Name)
}

// Unwrap ties UndeclaredError to the ErrUndeclared sentinel.
func (e *UndeclaredError) Unwrap() error {
	return oerrors.ErrUndeclared
}

type binding struct {
	value string
	bound bool
}

// MapScope is a mutable scope backed by a map.
type MapScope struct {
	parent   Scope
	bindings map[string]binding
}

// New returns an empty scope enclosed by parent, which may be nil.
func New(parent Scope) *MapScope {
	return &MapScope{parent: parent, bindings: make(map[string]binding)}
}

// NewWithValues returns a scope enclosed by parent that declares every entry
// of values.
func NewWithValues(parent Scope, values map[string]string) *MapScope {
	s := New(parent)
	for name, value := range values {
		s.bindings[name] = binding{value: value, bound: true}
	}
	return s
}

// Get implements Scope. A local placeholder that has not been bound yet
// shadows the parent chain and resolves to nothing.
func (s *MapScope) Get(name string) (string, bool) {
	if b, ok := s.bindings[name]; ok {
		return b.value, b.bound
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return "", false
}

// Declare implements Scope.
func (s *MapScope) Declare(name, value string) error {
	if err := s.declare(name); err != nil {
		return err
	}
	s.bindings[name] = binding{value: value, bound: true}
	return nil
}

// DeclarePlaceholder implements Scope.
func (s *MapScope) DeclarePlaceholder(name string) error {
	if err := s.declare(name); err != nil {
		return err
	}
	s.bindings[name] = binding{}
	return nil
}

func (s *MapScope) declare(name string) error {
	if name == "" {
		return oerrors.Wrap(oerrors.ErrArgument, "variable name must not be empty")
	}
	if _, ok := s.bindings[name]; ok {
		return oerrors.Wrapf(oerrors.ErrArgument, "variable %q is already declared", name)
	}
	return nil
}

// Set implements Scope. It fails with an *UndeclaredError when no scope in
// the chain declares name.
func (s *MapScope) Set(name, value string) error {
	if _, ok := s.bindings[name]; ok {
		s.bindings[name] = binding{value: value, bound: true}
		return nil
	}
	if s.parent != nil {
		return s.parent.Set(name, value)
	}
	return &UndeclaredError{Name: name}
}

// Parent implements Scope.
func (s *MapScope) Parent() Scope {
	return s.parent
}

// Names returns the locally declared names in sorted order.
func (s *MapScope) Names() []string {
	return slices.Sorted(maps.Keys(s.bindings))
}
