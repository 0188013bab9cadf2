// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fenics/cmakegen/internal/config"
	"github.com/fenics/cmakegen/internal/generate"
	"github.com/fenics/cmakegen/internal/issue"
)

// newConfigCommand creates the `cmakegen config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize cmakegen configuration",
		Long: `Inspect and initialize cmakegen configuration.

Configuration is read from the first file found of:
  - the file given with --config
  - <ROOT>/cmakegen.cue
  - the user config directory (e.g. ~/.config/cmakegen/config.cue)

Environment variables prefixed with CMAKEGEN_ override scalar keys.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show [ROOT]",
		Short: "Show the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rootFlags, projectDirArg(args))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path [ROOT]",
		Short: "Show the configuration lookup locations",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.Context(), app, rootFlags, projectDirArg(args))
		},
	})

	var dumpFormat string
	dumpCmd := &cobra.Command{
		Use:   "dump [ROOT]",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpConfig(cmd.Context(), app, rootFlags, projectDirArg(args), dumpFormat)
		},
	}
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "cue", "output format (cue, toml)")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "template [ROOT]",
		Short: "Print the descriptor template in effect",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTemplate(cmd.Context(), app, rootFlags, projectDirArg(args))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init [ROOT]",
		Short: "Create a cmakegen.cue with the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, rootFlags, projectDirArg(args))
		},
	})

	return cfgCmd
}

func projectDirArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func loadOptions(rootFlags *rootFlagValues, projectDir string) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: rootFlags.configPath, ProjectDir: projectDir}
}

func dumpConfig(ctx context.Context, app *App, rootFlags *rootFlagValues, projectDir, format string) error {
	cfg, err := app.Config.Load(ctx, loadOptions(rootFlags, projectDir))
	if err != nil {
		return app.fail(err, rootFlags.verbose, config.ColorSchemeAuto)
	}

	switch format {
	case "cue":
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	case "toml":
		text, err := config.GenerateTOML(cfg)
		if err != nil {
			return app.fail(err, rootFlags.verbose, cfg.UI.ColorScheme)
		}
		fmt.Fprint(app.stdout, text)
	default:
		return app.fail(fmt.Errorf("unknown format %q (valid: cue, toml)", format), rootFlags.verbose, cfg.UI.ColorScheme)
	}
	return nil
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues, projectDir string) error {
	cfg, cfgPath, err := app.Config.Resolve(ctx, loadOptions(rootFlags, projectDir))
	if err != nil {
		return app.fail(err, rootFlags.verbose, config.ColorSchemeAuto)
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	list := func(items []string) string {
		if len(items) == 0 {
			return SubtitleStyle.Render("(none)")
		}
		return valueStyle.Render(strings.Join(items, " "))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	root := cfg.Root
	if root == "" {
		root = projectDir
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("root"), valueStyle.Render(root))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("descriptor_name"), valueStyle.Render(cfg.DescriptorName))
	if cfg.TemplateFile != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("template_file"), valueStyle.Render(cfg.TemplateFile))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("template_file"), SubtitleStyle.Render("(built-in)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("categories"))
	for _, c := range cfg.Categories {
		fmt.Fprintf(w, "  - %s (prefix: %s, entry files: %s)\n",
			valueStyle.Render(c.Name), valueStyle.Render(c.Prefix), valueStyle.Render(strings.Join(c.EntryFiles, " ")))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("exclude"), list(cfg.Exclude))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("ignore"), list(cfg.Ignore))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("sources"))
	fmt.Fprintf(w, "  primary: %s\n", list(cfg.Sources.Primary))
	fmt.Fprintf(w, "  secondary: %s\n", list(cfg.Sources.Secondary))
	generated := make([]string, 0, len(cfg.Sources.Generated))
	for _, tr := range cfg.Sources.Generated {
		generated = append(generated, tr.From+"->"+tr.To)
	}
	fmt.Fprintf(w, "  generated: %s\n", list(generated))
	fmt.Fprintf(w, "  doc_markers: %s\n", list(cfg.Sources.DocMarkers))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	return nil
}

func showConfigPath(ctx context.Context, app *App, rootFlags *rootFlagValues, projectDir string) error {
	opts := loadOptions(rootFlags, projectDir)
	candidates, err := config.Candidates(opts)
	if err != nil && len(candidates) == 0 {
		return app.fail(err, rootFlags.verbose, config.ColorSchemeAuto)
	}

	w := app.stdout
	fmt.Fprintln(w, "Lookup order:")
	for i, path := range candidates {
		marker := SubtitleStyle.Render("(missing)")
		if fileExistsCheck(path) {
			marker = SuccessStyle.Render("(found)")
		}
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, path, marker)
	}

	_, used, loadErr := app.Config.Resolve(ctx, opts)
	switch {
	case loadErr != nil:
		fmt.Fprintf(w, "In use: %s\n", WarningStyle.Render("(invalid configuration)"))
	case used == "":
		fmt.Fprintf(w, "In use: %s\n", SubtitleStyle.Render("(built-in defaults)"))
	default:
		fmt.Fprintf(w, "In use: %s\n", used)
	}
	return nil
}

// showTemplate prints template_file when configured, otherwise the built-in
// template.
func showTemplate(ctx context.Context, app *App, rootFlags *rootFlagValues, projectDir string) error {
	cfg, err := app.Config.Load(ctx, loadOptions(rootFlags, projectDir))
	if err != nil {
		return app.fail(err, rootFlags.verbose, config.ColorSchemeAuto)
	}
	if cfg.TemplateFile == "" {
		fmt.Fprint(app.stdout, generate.DefaultTemplateText())
		return nil
	}
	data, err := os.ReadFile(cfg.TemplateFile)
	if err != nil {
		return app.fail(&generate.TemplateError{Name: cfg.TemplateFile, Err: err}, rootFlags.verbose, cfg.UI.ColorScheme)
	}
	fmt.Fprint(app.stdout, string(data))
	return nil
}

func initConfig(app *App, rootFlags *rootFlagValues, dir string) error {
	path, err := config.CreateDefaultConfig(dir)
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			err = issue.NewErrorContext().
				WithOperation("create configuration").
				WithResource(path).
				WithSuggestion("Edit the existing file, or delete it and run 'cmakegen config init' again").
				Wrap(err).
				BuildError()
		}
		return app.fail(err, rootFlags.verbose, config.ColorSchemeAuto)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
