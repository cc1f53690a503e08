// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// exitUsage marks failures the user can fix by changing the invocation or
	// the configuration, e.g. an unknown pack id.
	exitUsage = 1
	// exitFailure marks network, integrity, and filesystem failures.
	exitFailure = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// Reported errors were already printed by the handler.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
