// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/fenics/cmakegen/internal/config"
	"github.com/fenics/cmakegen/internal/discovery"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and reaches
	// configuration and diagnostic rendering through it.
	App struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// DiagnosticRenderer renders the diagnostics of a planning run.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic)
	}

	// defaultDiagnosticRenderer logs diagnostics through the default slog
	// logger, which the root command points at the App's stderr.
	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// installLogger makes a charm logger writing to the App's stderr the slog
// default. Verbose selects debug level.
func (app *App) installLogger(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(app.stderr, log.Options{
		Level:  level,
		Prefix: config.AppName,
	})
	slog.SetDefault(slog.New(logger))
}

// Render logs info diagnostics verbatim and attaches the path and code to
// warnings and errors.
func (r *defaultDiagnosticRenderer) Render(ctx context.Context, diags []discovery.Diagnostic) {
	logger := slog.Default()
	for _, diag := range diags {
		switch diag.Severity {
		case discovery.SeverityInfo:
			logger.InfoContext(ctx, diag.Message)
		case discovery.SeverityError:
			logger.ErrorContext(ctx, diag.Message, diagnosticAttrs(diag)...)
		default:
			logger.WarnContext(ctx, diag.Message, diagnosticAttrs(diag)...)
		}
	}
}

func diagnosticAttrs(diag discovery.Diagnostic) []any {
	attrs := []any{"code", string(diag.Code)}
	if diag.Path != "" {
		attrs = append(attrs, "path", diag.Path)
	}
	if diag.Cause != nil {
		attrs = append(attrs, "error", diag.Cause)
	}
	return attrs
}
