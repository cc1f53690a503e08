// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a user-facing error: what packget was doing, on which
	// pack or file, and what the user can try next.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("download pack").
	//		WithResource("ftb/79").
	//		WithSuggestion("Check your network connection and retry").
	//		WithIssue(issue.NetworkFailedId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		Operation   string // verb phrase, e.g. "download pack"
		Resource    string // pack reference or path; optional
		Suggestions []string
		Cause       error
		Issue       Id // catalog entry rendered in verbose mode; zero for none
	}

	// ErrorContext accumulates the fields of an ActionableError. A context can
	// be prepared before the failing call and finished with Wrap once the
	// cause is known.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasSuggestions reports whether any suggestion was attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Format renders the message followed by one bullet per suggestion. Verbose
// output also lists every error in the cause chain, numbered from the
// outermost. Errors that wrap several causes, such as the engine's kinded
// errors, contribute each branch in order.
func (e *ActionableError) Format(verbose bool) string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if e.HasSuggestions() {
		sb.WriteString("\n")
		for _, s := range e.Suggestions {
			sb.WriteString("\n  • " + s)
		}
	}

	if verbose && e.Cause != nil {
		sb.WriteString("\n\nError chain:")
		for i, err := range causeChain(e.Cause) {
			fmt.Fprintf(&sb, "\n  %d. %s", i+1, err.Error())
		}
	}

	return sb.String()
}

// causeChain flattens err depth-first.
func causeChain(err error) []error {
	var chain []error

	var walk func(error)
	walk = func(err error) {
		for err != nil {
			chain = append(chain, err)
			if multi, ok := err.(interface{ Unwrap() []error }); ok {
				for _, branch := range multi.Unwrap() {
					walk(branch)
				}
				return
			}
			err = errors.Unwrap(err)
		}
	}
	walk(err)

	return chain
}

// WithOperation sets the verb phrase describing the failed step.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource names the pack, URL, or path involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends one hint.
func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s)
	return c
}

// WithSuggestions appends several hints at once.
func (c *ErrorContext) WithSuggestions(s ...string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, s...)
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the accumulated error, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}

// BuildError is Build returning the error interface, so that a missing
// operation yields an untyped nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
