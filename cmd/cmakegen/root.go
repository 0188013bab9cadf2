// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fenics/cmakegen/internal/issue"
	"github.com/fenics/cmakegen/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the cmakegen command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "cmakegen",
		Short: "Generate CMakeLists.txt files for demo programs",
		Long: TitleStyle.Render("cmakegen") + SubtitleStyle.Render(" - CMake build descriptors for demo programs") + `

cmakegen walks the demo tree of a C++ source checkout and writes one
CMakeLists.txt into every directory that holds a demo program. The
executable of each demo is named after its directory with a category
prefix, e.g. demo/poisson builds demo_poisson.

` + SubtitleStyle.Render("Examples:") + `
  cmakegen generate              Regenerate descriptors under the current directory
  cmakegen generate --dry-run    Show what would be written
  cmakegen generate --check      Fail if committed descriptors are stale
  cmakegen config init           Create a cmakegen.cue with the defaults`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.installLogger(rootFlags.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default is <ROOT>/cmakegen.cue, then the user config directory)")

	rootCmd.AddCommand(newGenerateCommand(app, rootFlags))
	rootCmd.AddCommand(newConfigCommand(app, rootFlags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:")+" "+err.Error())
		os.Exit(int(types.ExitFailure))
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Code.Validate() == nil {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// handleError prints errors that handlers did not render themselves, such
// as flag parsing failures. ExitErrors have already been reported.
func handleError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, false))
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose adds the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
