// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fenics/cmakegen/internal/config"
	"github.com/fenics/cmakegen/internal/generate"
	"github.com/fenics/cmakegen/internal/issue"
	"github.com/fenics/cmakegen/internal/watch"
)

// classifyGenerateError maps a generation failure to an issue catalog ID and
// returns the error rewritten as an ActionableError where a known failure
// allows concrete suggestions.
func classifyGenerateError(err error) (issue.Id, error) {
	var (
		ae       *issue.ActionableError
		missing  *generate.EntryFileMissingError
		writeErr *generate.DescriptorWriteError
	)

	switch {
	case errors.As(err, &missing):
		return issue.EntryFileMissingId, issue.NewErrorContext().
			WithOperation("generate build descriptors").
			WithResource(missing.Dir.String()).
			WithIssue(issue.EntryFileMissingId).
			WithSuggestion(fmt.Sprintf("Add %s to %s", strings.Join(missing.EntryFiles, " or "), missing.Dir)).
			WithSuggestion(fmt.Sprintf("Exclude the directory: cmakegen generate -x %s", filepath.Base(missing.Dir.String()))).
			Wrap(err).
			BuildError()
	case errors.As(err, &writeErr):
		return issue.DescriptorWriteFailedId, issue.NewErrorContext().
			WithOperation("write build descriptor").
			WithResource(writeErr.Path.String()).
			WithIssue(issue.DescriptorWriteFailedId).
			WithSuggestion("Check the permissions of " + filepath.Dir(writeErr.Path.String())).
			Wrap(err).
			BuildError()
	case errors.Is(err, generate.ErrInvalidTemplate):
		return issue.TemplateInvalidId, issue.NewErrorContext().
			WithOperation("render build descriptor").
			WithIssue(issue.TemplateInvalidId).
			WithSuggestion("Templates may only reference {{.ProjectName}} and {{.SourceFiles}}").
			Wrap(err).
			BuildError()
	case errors.Is(err, watch.ErrWatchLimit):
		return issue.WatchLimitReachedId, issue.NewErrorContext().
			WithOperation("watch sources").
			WithIssue(issue.WatchLimitReachedId).
			WithSuggestion("Raise fs.inotify.max_user_watches or add ignore patterns").
			Wrap(err).
			BuildError()
	case errors.As(err, &ae):
		return ae.Issue, err
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId, err
	default:
		return 0, err
	}
}
