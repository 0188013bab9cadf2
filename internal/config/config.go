// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/fenics/cmakegen/internal/issue"
	"github.com/fenics/cmakegen/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "cmakegen"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// ProjectConfigName is the config file looked up in the scan root.
	ProjectConfigName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides (CMAKEGEN_ROOT, CMAKEGEN_UI_VERBOSE, ...).
	EnvPrefix = "CMAKEGEN"
	// TOMLFileExt selects the TOML decoder for an explicit --config file.
	TOMLFileExt = ".toml"
	// DotEnvFile is loaded from the working directory before env overrides apply.
	DotEnvFile = ".env"
)

// ErrConfigExists is returned by CreateDefaultConfig when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the cmakegen user configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Candidates returns the config file locations in lookup order. The explicit
// file, when set, is the only candidate.
func Candidates(opts LoadOptions) ([]string, error) {
	if opts.ConfigFilePath != "" {
		return []string{opts.ConfigFilePath}, nil
	}

	var out []string
	if opts.ProjectDir != "" {
		out = append(out, filepath.Join(opts.ProjectDir, ProjectConfigName))
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return out, err
	}
	return append(out, filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the effective config and the file it was
// read from ("" when only defaults apply).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := loadDotEnv(opts.EnvFile); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load environment file").
			WithResource(opts.EnvFile).
			WithSuggestion("Check that every line has the form KEY=value").
			Wrap(err).
			BuildError()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""

	// An explicit --config file is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'cmakegen config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadFileIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", loadError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		candidates, err := Candidates(opts)
		if err != nil {
			slog.Debug("user config directory unavailable", "error", err)
		}
		for _, path := range candidates {
			if !fileExists(path) {
				continue
			}
			if err := loadCUEIntoViper(v, path); err != nil {
				return nil, "", loadError(path, err)
			}
			resolvedPath = path
			break
		}
		// If no config file found, use defaults (no error)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Each category needs a unique name and at least one entry file").
			WithSuggestion("Source suffixes must start with '.'").
			Wrap(err).
			BuildError()
	}

	slog.Debug("configuration loaded", "path", resolvedPath, "categories", len(cfg.Categories))
	return &cfg, resolvedPath, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("Run 'cmakegen config dump' to see a valid configuration").
		Wrap(err).
		BuildError()
}

// loadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set keep their value. A missing file is ignored.
func loadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	if !fileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.Debug("loaded environment file", "path", path)
	return nil
}

// setDefaults registers every config key with Viper. Registration is what
// lets AutomaticEnv overrides reach Unmarshal.
func setDefaults(v *viper.Viper, defaults *Config) {
	categories := make([]any, 0, len(defaults.Categories))
	for _, c := range defaults.Categories {
		categories = append(categories, map[string]any{
			"name":        c.Name,
			"prefix":      c.Prefix,
			"entry_files": c.EntryFiles,
		})
	}
	generated := make([]any, 0, len(defaults.Sources.Generated))
	for _, tr := range defaults.Sources.Generated {
		generated = append(generated, map[string]any{"from": tr.From, "to": tr.To})
	}

	v.SetDefault("root", defaults.Root)
	v.SetDefault("descriptor_name", defaults.DescriptorName)
	v.SetDefault("template_file", defaults.TemplateFile)
	v.SetDefault("categories", categories)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("sources.primary", defaults.Sources.Primary)
	v.SetDefault("sources.secondary", defaults.Sources.Secondary)
	v.SetDefault("sources.generated", generated)
	v.SetDefault("sources.doc_markers", defaults.Sources.DocMarkers)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadFileIntoViper merges an explicit config file, selecting the decoder by
// extension. Only CUE files are schema-checked; every format is validated
// after decoding.
func loadFileIntoViper(v *viper.Viper, path string) error {
	if strings.EqualFold(filepath.Ext(path), TOMLFileExt) {
		return loadTOMLIntoViper(v, path)
	}
	return loadCUEIntoViper(v, path)
}

// loadTOMLIntoViper decodes a TOML file into a generic map and merges it.
func loadTOMLIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var configMap map[string]any
	if err := toml.Unmarshal(data, &configMap); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Fields absent from the file keep their
// defaults; lists replace the default list.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// normalize replaces nil lists with empty ones so that a list cleared in a
// config file and a default empty list compare equal.
func (c *Config) normalize() {
	for _, list := range []*[]string{
		&c.Exclude, &c.Ignore,
		&c.Sources.Primary, &c.Sources.Secondary, &c.Sources.DocMarkers,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	if c.Sources.Generated == nil {
		c.Sources.Generated = []Translation{}
	}
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default cmakegen.cue into dir and returns its
// path. An existing file is never overwritten.
func CreateDefaultConfig(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(dir, ProjectConfigName)
	f, err := os.OpenFile(cfgPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return cfgPath, fmt.Errorf("%s: %w", cfgPath, ErrConfigExists)
		}
		return "", fmt.Errorf("failed to create config file: %w", err)
	}

	_, writeErr := f.WriteString(GenerateCUE(DefaultConfig()))
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return "", fmt.Errorf("failed to write config file: %w", writeErr)
	}

	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// cmakegen configuration\n")
	sb.WriteString("// Omitted fields keep their built-in defaults.\n\n")

	if cfg.Root != "" {
		fmt.Fprintf(&sb, "root: %q\n", cfg.Root)
	}
	fmt.Fprintf(&sb, "descriptor_name: %q\n", cfg.DescriptorName)
	if cfg.TemplateFile != "" {
		fmt.Fprintf(&sb, "template_file: %q\n", cfg.TemplateFile)
	}

	sb.WriteString("\ncategories: [\n")
	for _, c := range cfg.Categories {
		fmt.Fprintf(&sb, "\t{name: %q, prefix: %q, entry_files: %s},\n", c.Name, c.Prefix, cueList(c.EntryFiles))
	}
	sb.WriteString("]\n")

	fmt.Fprintf(&sb, "\nexclude: %s\n", cueList(cfg.Exclude))
	fmt.Fprintf(&sb, "ignore: %s\n", cueList(cfg.Ignore))

	sb.WriteString("\nsources: {\n")
	fmt.Fprintf(&sb, "\tprimary: %s\n", cueList(cfg.Sources.Primary))
	fmt.Fprintf(&sb, "\tsecondary: %s\n", cueList(cfg.Sources.Secondary))
	sb.WriteString("\tgenerated: [")
	for i, tr := range cfg.Sources.Generated {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "{from: %q, to: %q}", tr.From, tr.To)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "\tdoc_markers: %s\n", cueList(cfg.Sources.DocMarkers))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	return sb.String()
}

// GenerateTOML renders the configuration as TOML, accepted by --config
// files with a .toml extension.
func GenerateTOML(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return "# cmakegen configuration\n\n" + string(data), nil
}

func cueList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, fmt.Sprintf("%q", item))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
