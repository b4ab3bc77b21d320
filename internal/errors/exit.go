package errors

import "errors"

// Exit codes returned by the release binary.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates a malformed literal or an invalid config.
	ExitValidationError = 2

	// ExitUserError indicates a condition the user has to fix.
	ExitUserError = 3

	// ExitUnsupported indicates an unsupported operation or release mode.
	ExitUnsupported = 4

	// ExitNotFound indicates a project, file or artifact was not found.
	ExitNotFound = 5

	// ExitReleaseFailed indicates a pipeline step failed and the release was
	// rolled back.
	ExitReleaseFailed = 6
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	// Code is the process exit code.
	Code int

	// Err is the underlying error.
	Err error

	// Printed is set when the command layer already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrFormat), errors.Is(err, ErrValidation):
		return ExitValidationError
	case errors.Is(err, ErrUser), errors.Is(err, ErrArgument), errors.Is(err, ErrUndeclared):
		return ExitUserError
	case errors.Is(err, ErrUnsupported):
		return ExitUnsupported
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitUserError:
		return "User Error"
	case ExitUnsupported:
		return "Unsupported"
	case ExitNotFound:
		return "Not Found"
	case ExitReleaseFailed:
		return "Release Failed"
	default:
		return "Unknown"
	}
}
