// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value ColorScheme
		want  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"solarized", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !tt.want && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme)) {
				t.Errorf("IsValid() errors = %v, want ErrInvalidColorScheme", errs)
			}
		})
	}
}

func TestColorScheme_GlamourStyle(t *testing.T) {
	t.Parallel()

	if got := ColorSchemeDark.GlamourStyle(); got != "dark" {
		t.Errorf("GlamourStyle() = %q, want dark", got)
	}
	if got := ColorScheme("").GlamourStyle(); got != "auto" {
		t.Errorf("GlamourStyle() = %q, want auto", got)
	}
}

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*Config)
		wantErrIs  error
		wantFields int
	}{
		{
			name:       "no categories",
			mutate:     func(c *Config) { c.Categories = nil },
			wantErrIs:  ErrInvalidCategory,
			wantFields: 1,
		},
		{
			name: "nested category name",
			mutate: func(c *Config) {
				c.Categories = []Category{{Name: "demo/sub", EntryFiles: []string{"main.cpp"}}}
			},
			wantErrIs:  ErrInvalidCategory,
			wantFields: 1,
		},
		{
			name: "category without entry files",
			mutate: func(c *Config) {
				c.Categories = []Category{{Name: "demo"}}
			},
			wantErrIs:  ErrInvalidCategory,
			wantFields: 1,
		},
		{
			name: "duplicate category",
			mutate: func(c *Config) {
				c.Categories = append(c.Categories, c.Categories[0])
			},
			wantErrIs:  ErrInvalidCategory,
			wantFields: 1,
		},
		{
			name:       "suffix without dot",
			mutate:     func(c *Config) { c.Sources.Primary = []string{"cpp"} },
			wantErrIs:  ErrInvalidSources,
			wantFields: 1,
		},
		{
			name:       "bad color scheme",
			mutate:     func(c *Config) { c.UI.ColorScheme = "neon" },
			wantErrIs:  ErrInvalidColorScheme,
			wantFields: 1,
		},
		{
			name:       "descriptor name with separator",
			mutate:     func(c *Config) { c.DescriptorName = "cmake/CMakeLists.txt" },
			wantFields: 1,
		},
		{
			name:       "invalid ignore glob",
			mutate:     func(c *Config) { c.Ignore = []string{"**/[CMake"} },
			wantFields: 1,
		},
		{
			name:       "empty exclusion",
			mutate:     func(c *Config) { c.Exclude = []string{""} },
			wantFields: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error should wrap ErrInvalidConfig, got %v", err)
			}

			var cfgErr *InvalidConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() error is %T, want *InvalidConfigError", err)
			}
			if len(cfgErr.FieldErrors) != tt.wantFields {
				t.Errorf("got %d field errors, want %d: %v", len(cfgErr.FieldErrors), tt.wantFields, cfgErr.FieldErrors)
			}
			if tt.wantErrIs != nil && !errors.Is(cfgErr.FieldErrors[0], tt.wantErrIs) {
				t.Errorf("field error %v should wrap %v", cfgErr.FieldErrors[0], tt.wantErrIs)
			}
		})
	}
}
