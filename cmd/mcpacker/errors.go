// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mcpacker/mcpacker/internal/catalog"
	"github.com/mcpacker/mcpacker/internal/config"
	"github.com/mcpacker/mcpacker/internal/digest"
	"github.com/mcpacker/mcpacker/internal/issue"
	"github.com/mcpacker/mcpacker/internal/tui"
	"github.com/mcpacker/mcpacker/pkg/modpack"
	"github.com/mcpacker/mcpacker/pkg/types"
)

// classifyError maps a command failure to a process exit code and the issue
// catalog entry that explains it.
func classifyError(err error) (types.ExitCode, issue.Id) {
	if err == nil {
		return types.ExitOK, 0
	}

	id := issueFor(err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, id
	}

	switch {
	case errors.Is(err, catalog.ErrPackNotFound),
		errors.Is(err, modpack.ErrSourceNotFound):
		return types.ExitNotFound, id
	case errors.Is(err, catalog.ErrAmbiguousPack),
		errors.Is(err, modpack.ErrInvalidPackName),
		errors.Is(err, tui.ErrInvalidPackName):
		return types.ExitUsage, id
	case errors.Is(err, modpack.ErrMalformedHeader),
		errors.Is(err, modpack.ErrTruncatedStream),
		errors.Is(err, modpack.ErrSizeMismatch),
		errors.Is(err, modpack.ErrUnsafeName):
		return types.ExitCorrupt, id
	case errors.Is(err, modpack.ErrNotADirectory),
		errors.Is(err, modpack.ErrDestinationUnwritable),
		errors.Is(err, digest.ErrMismatch):
		return types.ExitWriteFailure, id
	default:
		return types.ExitGeneric, id
	}
}

// issueFor picks the catalog entry for err. An ActionableError that names
// one wins over the error kind.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}

	switch {
	case errors.Is(err, catalog.ErrPackNotFound):
		return issue.PackNotFoundId
	case errors.Is(err, modpack.ErrSourceNotFound):
		return issue.SourceNotFoundId
	case errors.Is(err, modpack.ErrSourceUnreadable):
		return issue.SourceUnreadableId
	case errors.Is(err, modpack.ErrMalformedHeader),
		errors.Is(err, modpack.ErrTruncatedStream),
		errors.Is(err, modpack.ErrSizeMismatch):
		return issue.CorruptPackId
	case errors.Is(err, modpack.ErrNotADirectory):
		return issue.NotADirectoryId
	case errors.Is(err, modpack.ErrDestinationUnwritable):
		return issue.DestinationUnwritableId
	case errors.Is(err, modpack.ErrInvalidPackName),
		errors.Is(err, tui.ErrInvalidPackName):
		return issue.InvalidPackNameId
	case errors.Is(err, modpack.ErrUnsafeName):
		return issue.UnsafeModNameId
	case errors.Is(err, modpack.ErrPayloadNotLoaded):
		return issue.MetaOnlyPackId
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidLogLevel):
		return issue.ConfigLoadFailedId
	case errors.Is(err, digest.ErrMismatch):
		return issue.DeployVerifyFailedId
	}
	return 0
}

// suggestionsFor returns short hints for the kind of err.
func suggestionsFor(err error) []string {
	switch {
	case errors.Is(err, catalog.ErrPackNotFound):
		return []string{"Run 'mcpacker list' to see the packs in the catalog"}
	case errors.Is(err, catalog.ErrAmbiguousPack):
		return []string{"Pass the pack file path instead of its name"}
	case errors.Is(err, modpack.ErrSourceNotFound):
		return []string{"Check the mod file paths"}
	case errors.Is(err, modpack.ErrMalformedHeader),
		errors.Is(err, modpack.ErrTruncatedStream):
		return []string{"Copy the pack again from its source"}
	case errors.Is(err, modpack.ErrNotADirectory):
		return []string{"Pass an existing directory"}
	case errors.Is(err, modpack.ErrDestinationUnwritable):
		return []string{"Check that the directory exists and is writable"}
	case errors.Is(err, modpack.ErrInvalidPackName),
		errors.Is(err, tui.ErrInvalidPackName):
		return []string{"Pick a pack name without '/' or '\\'"}
	case errors.Is(err, modpack.ErrUnsafeName):
		return []string{"Do not deploy packs from untrusted sources"}
	}
	return nil
}

// wrapError adds operation context and suggestions to err. Errors that
// already carry context, and cancellations, pass through unchanged.
func wrapError(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) || errors.Is(err, context.Canceled) {
		return err
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestionsFor(err)...).
		WithIssue(issueFor(err)).
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError prints err and, in verbose mode, the issue help that
// explains it.
func renderError(w io.Writer, err error, verbose, markdown bool) {
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Fprintln(w, WarningStyle.Render("Cancelled."))
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	_, id := classifyError(err)
	if !verbose || !markdown || id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		if rendered, renderErr := entry.Render(glamourStyle(w)); renderErr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}
