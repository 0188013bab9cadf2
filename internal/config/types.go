// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCategory is the sentinel error wrapped by InvalidCategoryError.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidSources is the sentinel error wrapped by InvalidSourcesError.
	ErrInvalidSources = errors.New("invalid sources config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Category is a top-level subtree with one program per directory.
	Category struct {
		// Name is the subtree directory relative to the root.
		Name string `json:"name" toml:"name" mapstructure:"name"`
		// Prefix is prepended to directory names to form target names.
		Prefix string `json:"prefix" toml:"prefix" mapstructure:"prefix"`
		// EntryFiles lists the accepted entry file names.
		EntryFiles []string `json:"entry_files" toml:"entry_files" mapstructure:"entry_files"`
	}

	// InvalidCategoryError is returned when a category entry is malformed.
	InvalidCategoryError struct {
		Name   string
		Reason string
	}

	// Translation maps a source suffix to the suffix it is compiled to.
	Translation struct {
		From string `json:"from" toml:"from" mapstructure:"from"`
		To   string `json:"to" toml:"to" mapstructure:"to"`
	}

	// SourcesConfig holds the file classification rules.
	SourcesConfig struct {
		Primary    []string      `json:"primary" toml:"primary" mapstructure:"primary"`
		Secondary  []string      `json:"secondary" toml:"secondary" mapstructure:"secondary"`
		Generated  []Translation `json:"generated" toml:"generated" mapstructure:"generated"`
		DocMarkers []string      `json:"doc_markers" toml:"doc_markers" mapstructure:"doc_markers"`
	}

	// InvalidSourcesError is returned when a suffix does not start with a dot.
	InvalidSourcesError struct {
		Field  string
		Suffix string
	}

	// UIConfig contains UI-related settings.
	UIConfig struct {
		// Verbose enables debug logging and error chains.
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the glamour style used for issue rendering.
		ColorScheme ColorScheme `json:"color_scheme" toml:"color_scheme" mapstructure:"color_scheme"`
	}

	// Config is the effective cmakegen configuration.
	Config struct {
		// Root is the directory categories are resolved against. Empty means
		// the directory given on the command line or the working directory.
		Root string `json:"root" toml:"root" mapstructure:"root"`
		// DescriptorName is the generated file name.
		DescriptorName string `json:"descriptor_name" toml:"descriptor_name" mapstructure:"descriptor_name"`
		// TemplateFile optionally replaces the built-in template.
		TemplateFile string `json:"template_file" toml:"template_file" mapstructure:"template_file"`
		// Categories are walked in order.
		Categories []Category `json:"categories" toml:"categories" mapstructure:"categories"`
		// Exclude holds path substrings skipped before classification.
		Exclude []string `json:"exclude" toml:"exclude" mapstructure:"exclude"`
		// Ignore holds doublestar patterns of directories never walked.
		Ignore []string `json:"ignore" toml:"ignore" mapstructure:"ignore"`
		// Sources holds the classification rules.
		Sources SourcesConfig `json:"sources" toml:"sources" mapstructure:"sources"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// FieldErrors contains the per-field validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration for a DOLFINx C++ source tree.
func DefaultConfig() *Config {
	return &Config{
		DescriptorName: "CMakeLists.txt",
		Categories: []Category{
			{Name: "demo", Prefix: "demo_", EntryFiles: []string{"main.cpp"}},
		},
		Exclude: []string{},
		Ignore:  []string{"**/.git", "**/CMakeFiles"},
		Sources: SourcesConfig{
			Primary:    []string{".cpp"},
			Secondary:  []string{".c"},
			Generated:  []Translation{{From: ".ufl", To: ".c"}},
			DocMarkers: []string{".cpp.rst"},
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// GlamourStyle returns the glamour style name for the scheme.
func (cs ColorScheme) GlamourStyle() string {
	if cs == ColorSchemeDark || cs == ColorSchemeLight {
		return string(cs)
	}
	return "auto"
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid reports whether the category can be walked and named.
func (c Category) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, &InvalidCategoryError{Name: c.Name, Reason: "name must not be empty"})
	} else if strings.ContainsAny(c.Name, `/\`) {
		errs = append(errs, &InvalidCategoryError{Name: c.Name, Reason: "name must be a single directory"})
	}
	if len(c.EntryFiles) == 0 {
		errs = append(errs, &InvalidCategoryError{Name: c.Name, Reason: "at least one entry file is required"})
	}
	for _, f := range c.EntryFiles {
		if strings.TrimSpace(f) == "" || strings.ContainsAny(f, `/\`) {
			errs = append(errs, &InvalidCategoryError{Name: c.Name, Reason: fmt.Sprintf("invalid entry file %q", f)})
		}
	}
	if strings.IndexFunc(c.Prefix, isSpace) >= 0 {
		errs = append(errs, &InvalidCategoryError{Name: c.Name, Reason: "prefix must not contain whitespace"})
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("category %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidCategory for errors.Is() compatibility.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

// IsValid reports whether every suffix starts with a dot.
func (s SourcesConfig) IsValid() (bool, []error) {
	var errs []error
	check := func(field string, suffixes ...string) {
		for _, suffix := range suffixes {
			if !strings.HasPrefix(suffix, ".") {
				errs = append(errs, &InvalidSourcesError{Field: field, Suffix: suffix})
			}
		}
	}
	check("sources.primary", s.Primary...)
	check("sources.secondary", s.Secondary...)
	check("sources.doc_markers", s.DocMarkers...)
	for _, tr := range s.Generated {
		check("sources.generated", tr.From, tr.To)
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidSourcesError) Error() string {
	return fmt.Sprintf("%s: suffix %q must start with '.'", e.Field, e.Suffix)
}

// Unwrap returns ErrInvalidSources for errors.Is() compatibility.
func (e *InvalidSourcesError) Unwrap() error { return ErrInvalidSources }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// Validate returns an *InvalidConfigError listing every invalid field, or nil.
func (c Config) Validate() error {
	var errs []error

	if len(c.Categories) == 0 {
		errs = append(errs, fmt.Errorf("categories: at least one category is required: %w", ErrInvalidCategory))
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if valid, fieldErrs := cat.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
		if seen[cat.Name] {
			errs = append(errs, &InvalidCategoryError{Name: cat.Name, Reason: "duplicate category name"})
		}
		seen[cat.Name] = true
	}

	if strings.TrimSpace(c.DescriptorName) == "" || strings.ContainsAny(c.DescriptorName, `/\`) {
		errs = append(errs, fmt.Errorf("descriptor_name %q must be a plain file name", c.DescriptorName))
	}
	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("ignore: invalid pattern %q", pattern))
		}
	}
	for _, sub := range c.Exclude {
		if sub == "" {
			errs = append(errs, errors.New("exclude: empty entry would exclude every directory"))
		}
	}
	if valid, fieldErrs := c.Sources.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
