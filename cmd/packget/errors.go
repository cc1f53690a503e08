// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/packget/packget/internal/issue"
	"github.com/packget/packget/internal/manifest"
	"github.com/packget/packget/pkg/modpack"
)

// classifyError maps a failure to its issue catalog entry (0 when there is
// none) and the process exit code.
func classifyError(err error) (issue.Id, int) {
	switch {
	case errors.Is(err, manifest.ErrPackNotFound):
		return issue.PackNotFoundId, exitUsage
	case errors.Is(err, modpack.ErrInvalidPackID),
		errors.Is(err, manifest.ErrInvalidVersion),
		errors.Is(err, errInvalidThreads):
		return 0, exitUsage
	}

	switch modpack.KindOf(err) {
	case modpack.KindNetwork:
		return issue.NetworkFailedId, exitFailure
	case modpack.KindDecode:
		return issue.ManifestDecodeFailedId, exitFailure
	case modpack.KindHashMismatch:
		return issue.HashMismatchId, exitFailure
	case modpack.KindIO:
		return issue.FileWriteFailedId, exitFailure
	case modpack.KindInvalidArchiveEntry:
		return issue.UnsafeArchiveId, exitFailure
	case modpack.KindExtraction:
		return issue.ExtractionFailedId, exitFailure
	case modpack.KindUnknown:
	}

	// Configuration errors carry their own catalog entry.
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue, exitUsage
	}
	return 0, exitFailure
}

// withGuidance wraps an engine error in an ActionableError that names the
// failed operation and suggests a next step. Errors that already carry
// guidance are returned unchanged.
func withGuidance(err error, operation, resource string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	id, _ := classifyError(err)
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id).
		Wrap(err)

	switch id {
	case issue.PackNotFoundId:
		ctx.WithSuggestions(
			"Search the catalog for the pack id, e.g. 'packget ftb search <term>'",
			"Use 'latest' instead of a version id")
	case issue.NetworkFailedId:
		ctx.WithSuggestions(
			"Check your internet connection and retry",
			"Verify api.base_url with 'packget config show'")
	case issue.ManifestDecodeFailedId:
		ctx.WithSuggestion("Check that the pack id and version are correct")
	case issue.HashMismatchId:
		ctx.WithSuggestion("Run the download again, the mirror may have served a corrupted copy")
	case issue.FileWriteFailedId:
		ctx.WithSuggestion("Check the permissions of the destination or choose another one with --dest")
	case issue.UnsafeArchiveId:
		ctx.WithSuggestion("Do not install this pack version and report it to its author")
	case issue.ExtractionFailedId:
		ctx.WithSuggestion("Delete the pack directory and download it again")
	default:
		if errors.Is(err, modpack.ErrInvalidPackID) || errors.Is(err, manifest.ErrInvalidVersion) {
			ctx.WithSuggestion("Pack ids and versions are numeric, e.g. 'packget ftb download 79 latest'")
		}
	}
	return ctx.BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// reportError prints err to w and returns the ExitError the handler should
// return. In verbose mode the matching issue is rendered with glamour.
func reportError(cmd *cobra.Command, w io.Writer, err error, verbose bool, glamourStyle string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	id, code := classifyError(err)
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if id != 0 {
		if !verbose {
			fmt.Fprintln(w, VerboseStyle.Render("Run again with --verbose for troubleshooting steps."))
		} else if rendered, renderErr := issue.Get(id).Render(glamourStyle); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}

	return &ExitError{Code: code, Err: err, Reported: true}
}
