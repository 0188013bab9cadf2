// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fenics/cmakegen/internal/config"
)

// stubConfigProvider returns a fixed configuration without touching the
// filesystem or the environment.
type stubConfigProvider struct {
	cfg  *config.Config
	path string
	err  error
}

func (p *stubConfigProvider) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	cfg, _, err := p.Resolve(ctx, opts)
	return cfg, err
}

func (p *stubConfigProvider) Resolve(_ context.Context, _ config.LoadOptions) (*config.Config, string, error) {
	if p.err != nil {
		return nil, "", p.err
	}
	cfg := p.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return cfg, p.path, nil
}

// runResult captures the outcome of one command invocation.
type runResult struct {
	stdout string
	stderr string
	err    error
}

// executeCommand runs the root command with args. The root command points
// the default slog logger at the captured stderr, so callers must not run
// in parallel.
func executeCommand(t *testing.T, provider ConfigProvider, args ...string) runResult {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{Config: provider, Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SilenceErrors = true
	root.SilenceUsage = true

	err = root.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
