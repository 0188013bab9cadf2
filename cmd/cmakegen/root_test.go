// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"

	"github.com/fenics/cmakegen/internal/issue"
	"github.com/fenics/cmakegen/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v0.3.0"
		Commit = "abc1234"
		BuildDate = "2026-10-01T10:00:00Z"

		got := getVersionString()
		want := "v0.3.0 (commit: abc1234, built: 2026-10-01T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	actionable := issue.NewErrorContext().
		WithOperation("generate build descriptors").
		WithResource("/src/demo/poisson").
		WithSuggestion("Add main.cpp").
		Wrap(errors.New("boom")).
		BuildError()

	got := formatErrorForDisplay(actionable, false)
	if !strings.Contains(got, "Add main.cpp") {
		t.Errorf("expected suggestion in %q", got)
	}
	if strings.Contains(got, "Error chain") {
		t.Errorf("non-verbose output should omit the chain: %q", got)
	}
	if verbose := formatErrorForDisplay(actionable, true); !strings.Contains(verbose, "Error chain") {
		t.Errorf("verbose output should include the chain: %q", verbose)
	}

	if got := formatErrorForDisplay(errors.New("plain"), true); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handleError(&buf, fang.Styles{}, &ExitError{Code: types.ExitFailure, Err: errors.New("already shown")})
	if buf.Len() != 0 {
		t.Errorf("ExitError should not be printed again, got %q", buf.String())
	}

	handleError(&buf, fang.Styles{}, errors.New(`unknown flag: --nope`))
	if !strings.Contains(buf.String(), "unknown flag: --nope") {
		t.Errorf("handleError output = %q", buf.String())
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := &ExitError{Code: types.ExitFailure, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ExitError should unwrap to its cause")
	}
	if err.Error() != "inner" {
		t.Errorf("Error() = %q", err.Error())
	}
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() without cause = %q", got)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{Config: &stubConfigProvider{}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	root := NewRootCommand(app)

	for _, name := range []string{"generate", "config"} {
		if sub, _, findErr := root.Find([]string{name}); findErr != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}
