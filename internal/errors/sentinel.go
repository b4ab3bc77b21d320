package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrFormat indicates a malformed literal: a version string, a
	// placeholder expression or a boolean variable.
	ErrFormat = errors.New("format error")

	// ErrUser indicates a problem the invoking user has to fix, such as an
	// invalid configuration value or missing project metadata.
	ErrUser = errors.New("user error")

	// ErrArgument indicates an invalid argument, for example a custom release
	// version that does not succeed the current version.
	ErrArgument = errors.New("invalid argument")

	// ErrUnsupported indicates a contract violation: writing through a
	// read-only scope or requesting a release mode that is not implemented.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrUndeclared indicates a variable that no scope in the chain declares.
	ErrUndeclared = errors.New("undeclared variable")

	// ErrValidation indicates a configuration schema validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a project, file or artifact was not found.
	ErrNotFound = errors.New("not found")
)
