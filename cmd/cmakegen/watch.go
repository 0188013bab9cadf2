// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fenics/cmakegen/internal/watch"
)

// runWatchMode generates once, then regenerates after every debounced batch
// of source changes below the category roots until ctx is cancelled.
func runWatchMode(ctx context.Context, run *generateRun) error {
	app := run.app

	fmt.Fprintf(app.stdout, "%s Watch mode: initial generation in %s\n", HighlightStyle.Render("→"), run.root)
	if err := run.generate(ctx); err != nil {
		// Keep watching; saving a fixed file retries.
		fmt.Fprintf(app.stderr, "%s Initial generation failed: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, run.verbose))
	}

	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", HighlightStyle.Render("→"))

	cfg := watch.Config{
		BaseDir:  run.root.String(),
		Patterns: run.watchPatterns(),
		Ignore:   run.cfg.Ignore,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "%s Detected %d change(s). Regenerating...\n",
				HighlightStyle.Render("→"), len(changed))
			if err := run.generate(ctx); err != nil {
				fmt.Fprintf(app.stderr, "%s Generation failed: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, run.verbose))
			}
			fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n\n", HighlightStyle.Render("→"))
			return nil
		},
		Stdout: app.stdout,
	}

	w, err := watch.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	slog.DebugContext(ctx, "watching", "dir", w.BaseDir(), "patterns", len(cfg.Patterns))
	return w.Run(ctx)
}

// watchPatterns selects the source files of every scanned category. The
// descriptors themselves never match, so writing them does not retrigger.
func (r *generateRun) watchPatterns() []string {
	sources := watch.SourcePatterns(r.watchSuffixes()...)
	patterns := make([]string, 0, len(sources)*len(r.planner.Categories))
	for _, c := range r.planner.Categories {
		for _, p := range sources {
			patterns = append(patterns, c.Name+"/"+p)
		}
	}
	return patterns
}
