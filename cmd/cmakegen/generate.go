// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fenics/cmakegen/internal/config"
	"github.com/fenics/cmakegen/internal/discovery"
	"github.com/fenics/cmakegen/internal/generate"
	"github.com/fenics/cmakegen/internal/issue"
	"github.com/fenics/cmakegen/internal/report"
	"github.com/fenics/cmakegen/pkg/fspath"
	"github.com/fenics/cmakegen/pkg/types"
)

type (
	// generateFlagValues holds the flags of the generate command.
	generateFlagValues struct {
		categories   []string
		exclude      []string
		templatePath string
		dryRun       bool
		check        bool
		watch        bool
	}

	// generateRun is the resolved state of one generate invocation.
	generateRun struct {
		app     *App
		cfg     *config.Config
		root    types.FilesystemPath
		planner *generate.Planner
		verbose bool
	}
)

func newGenerateCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate [ROOT]",
		Short: "Write a CMakeLists.txt into every demo program directory",
		Long: `Walk every configured category below ROOT and write a CMakeLists.txt into
each directory that holds primary sources (e.g. *.cpp).

ROOT defaults to the configured root, else the current directory. A
directory with primary sources must contain the category entry file
(main.cpp by default); otherwise nothing is written.`,
		Example: `  cmakegen generate
  cmakegen generate ./cpp -x demo/custom
  cmakegen generate --check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, app, rootFlags, flags, args)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.categories, "category", "c", nil, "only scan the named category (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.exclude, "exclude", "x", nil, "skip directories whose path relative to ROOT contains SUBSTR (repeatable)")
	cmd.Flags().StringVar(&flags.templatePath, "template", "", "descriptor template file (Go text/template)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the planned descriptors without writing")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit 1 if any descriptor is missing or out of date")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "regenerate whenever a source file changes")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "check", "watch")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *generateFlagValues, args []string) error {
	ctx := cmd.Context()

	run, err := newGenerateRun(ctx, app, rootFlags, flags, args)
	if err != nil {
		return app.fail(err, rootFlags.verbose, config.ColorSchemeAuto)
	}

	switch {
	case flags.dryRun:
		err = run.dryRun(ctx)
	case flags.check:
		err = run.check(ctx)
	case flags.watch:
		err = runWatchMode(ctx, run)
	default:
		err = run.generate(ctx)
	}
	if err != nil {
		return app.fail(err, run.verbose, run.cfg.UI.ColorScheme)
	}
	return nil
}

// newGenerateRun loads configuration, resolves the scan root and builds the
// planner with the command line overrides applied.
func newGenerateRun(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *generateFlagValues, args []string) (*generateRun, error) {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	cfg, cfgPath, err := app.Config.Resolve(ctx, config.LoadOptions{
		ConfigFilePath: rootFlags.configPath,
		ProjectDir:     projectDir,
	})
	if err != nil {
		return nil, err
	}

	verbose := rootFlags.verbose || cfg.UI.Verbose
	if verbose && !rootFlags.verbose {
		app.installLogger(true)
	}
	slog.Debug("using configuration", "path", cfgPath)

	rootArg := projectDir
	if len(args) == 0 && cfg.Root != "" {
		rootArg = cfg.Root
	}
	root, err := resolveScanRoot(rootArg)
	if err != nil {
		return nil, err
	}

	categories, err := selectCategories(cfg.Categories, flags.categories)
	if err != nil {
		return nil, err
	}

	exclude := slices.Concat(cfg.Exclude, flags.exclude)
	if slices.Contains(exclude, "") {
		return nil, issue.NewErrorContext().
			WithOperation("parse flags").
			WithSuggestion("Pass a non-empty path substring to --exclude").
			Wrap(errors.New("empty exclusion would skip every directory")).
			BuildError()
	}

	tmpl, err := loadTemplate(flags.templatePath, cfg.TemplateFile)
	if err != nil {
		return nil, err
	}

	return &generateRun{
		app:  app,
		cfg:  cfg,
		root: root,
		planner: &generate.Planner{
			Categories:     categories,
			Exclude:        exclude,
			Ignore:         cfg.Ignore,
			Rules:          rulesFromConfig(cfg.Sources),
			DescriptorName: cfg.DescriptorName,
			Template:       tmpl,
		},
		verbose: verbose,
	}, nil
}

// resolveScanRoot returns the absolute scan root, which must be an existing
// directory.
func resolveScanRoot(dir string) (types.FilesystemPath, error) {
	if err := types.FilesystemPath(dir).Validate(); err != nil {
		return "", err
	}
	root, err := fspath.Abs(types.FilesystemPath(dir))
	if err != nil {
		return "", err
	}
	info, err := os.Stat(root.String())
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", root)
	}
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("resolve scan root").
			WithResource(root.String()).
			WithIssue(issue.ScanRootNotFoundId).
			WithSuggestion("Pass the directory that contains the demo tree as ROOT").
			Wrap(err).
			BuildError()
	}
	return root, nil
}

// selectCategories returns the configured categories named in names, in
// configuration order. No names selects every category.
func selectCategories(configured []config.Category, names []string) ([]generate.Category, error) {
	out := make([]generate.Category, 0, len(configured))
	known := make([]string, 0, len(configured))
	for _, c := range configured {
		known = append(known, c.Name)
		if len(names) > 0 && !slices.Contains(names, c.Name) {
			continue
		}
		out = append(out, generate.Category{
			Name:       c.Name,
			Prefix:     c.Prefix,
			EntryFiles: slices.Clone(c.EntryFiles),
		})
	}

	for _, name := range names {
		if !slices.Contains(known, name) {
			return nil, issue.NewErrorContext().
				WithOperation("select categories").
				WithResource(name).
				WithSuggestion("Configured categories: " + strings.Join(known, ", ")).
				Wrap(fmt.Errorf("unknown category %q", name)).
				BuildError()
		}
	}
	return out, nil
}

func rulesFromConfig(src config.SourcesConfig) discovery.Rules {
	generated := make([]discovery.Translation, 0, len(src.Generated))
	for _, tr := range src.Generated {
		generated = append(generated, discovery.Translation{From: tr.From, To: tr.To})
	}
	return discovery.Rules{
		PrimarySuffixes:   slices.Clone(src.Primary),
		SecondarySuffixes: slices.Clone(src.Secondary),
		Generated:         generated,
		DocMarkers:        slices.Clone(src.DocMarkers),
	}
}

// loadTemplate prefers the flag over the configured file. Neither selects
// the built-in template.
func loadTemplate(flagPath, configPath string) (*generate.Template, error) {
	path := flagPath
	if path == "" {
		path = configPath
	}
	if path == "" {
		return generate.DefaultTemplate(), nil
	}
	return generate.LoadTemplate(types.FilesystemPath(path))
}

// plan computes the descriptors and renders the planning diagnostics.
func (r *generateRun) plan(ctx context.Context) (*generate.Plan, *report.Report, error) {
	plan, err := r.planner.Plan(r.fsys(), r.root)
	if err != nil {
		return nil, nil, err
	}
	r.app.Diagnostics.Render(ctx, plan.Diagnostics)

	rep := &report.Report{}
	rep.AddDiagnostics(plan.Diagnostics...)
	return plan, rep, nil
}

func (r *generateRun) fsys() fs.FS {
	return os.DirFS(r.root.String())
}

// generate writes every descriptor and prints the report.
func (r *generateRun) generate(ctx context.Context) error {
	plan, rep, err := r.plan(ctx)
	if err != nil {
		return err
	}
	if err := generate.Apply(ctx, plan, rep); err != nil {
		return err
	}
	slog.Debug("generation finished",
		"written", len(rep.Generated),
		"warnings", rep.Count(discovery.SeverityWarning))
	return rep.WriteText(r.app.stdout)
}

// dryRun prints the planned descriptors without touching the tree.
func (r *generateRun) dryRun(ctx context.Context) error {
	plan, _, err := r.plan(ctx)
	if err != nil {
		return err
	}
	renderDryRun(r.app.stdout, r.root, plan)
	return nil
}

// check compares the tree with the plan and fails when anything is stale.
func (r *generateRun) check(ctx context.Context) error {
	plan, rep, err := r.plan(ctx)
	if err != nil {
		return err
	}
	if err := generate.Check(r.fsys(), plan, rep); err != nil {
		return err
	}

	w := r.app.stdout
	if !rep.HasStale() {
		fmt.Fprintf(w, "%s %d descriptor(s) up to date\n", SuccessStyle.Render("✓"), len(plan.Entries))
		return nil
	}

	fmt.Fprintf(w, "%s %d of %d descriptor(s) out of date:\n",
		WarningStyle.Render("!"), len(rep.Stale), len(plan.Entries))
	if err := rep.WriteStale(w); err != nil {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("check build descriptors").
		WithResource(r.root.String()).
		WithIssue(issue.StaleDescriptorsId).
		WithSuggestion("Run 'cmakegen generate' and commit the result").
		Wrap(fmt.Errorf("%d stale descriptor(s)", len(rep.Stale))).
		BuildError()
}

// fail renders err on stderr and converts it into an ExitError. Verbose
// mode adds the error chain and the issue catalog entry.
func (app *App) fail(err error, verbose bool, scheme config.ColorScheme) error {
	issueID, classified := classifyGenerateError(err)
	styled := fmt.Sprintf("%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(classified, verbose))

	stylePath := ""
	if verbose {
		stylePath = scheme.GlamourStyle()
	}
	renderServiceError(app.stderr, newServiceError(classified, issueID, styled), stylePath)

	return &ExitError{Code: types.ExitFailure, Err: classified}
}

// watchSuffixes returns every suffix whose change can alter a descriptor.
func (r *generateRun) watchSuffixes() []string {
	rules := r.planner.Rules
	suffixes := slices.Concat(rules.PrimarySuffixes, rules.SecondarySuffixes, rules.DocMarkers)
	for _, tr := range rules.Generated {
		suffixes = append(suffixes, tr.From)
	}
	slices.Sort(suffixes)
	return slices.Compact(suffixes)
}
