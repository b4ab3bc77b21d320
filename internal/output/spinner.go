package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// RunWithSpinner executes action under a spinner titled title. Without a
// terminal the action runs directly. Returns the action's error if any.
func RunWithSpinner(ctx context.Context, title string, action func() error) error {
	if !IsTTY() {
		return action()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- action()
	}()

	var actionErr error
	done := false
	spinnerErr := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() {
			actionErr = <-errCh
			done = true
		}).
		Run()

	if spinnerErr != nil && !done {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	return actionErr
}
