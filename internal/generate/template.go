// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"text/template"

	"github.com/fenics/cmakegen/pkg/types"
)

// ErrInvalidTemplate is the sentinel error wrapped by TemplateError.
var ErrInvalidTemplate = errors.New("invalid descriptor template")

//go:embed templates/CMakeLists.txt.tmpl
var defaultTemplateText string

type (
	// Template renders the content of one build descriptor.
	Template struct {
		name string
		tmpl *template.Template
	}

	// TemplateData is the data a descriptor template is executed with.
	TemplateData struct {
		// ProjectName is the CMake project and executable name.
		ProjectName types.TargetName
		// SourceFiles is the space-separated list of source file names.
		SourceFiles string
	}

	// TemplateError is returned when a template cannot be read, parsed or executed.
	TemplateError struct {
		Name string
		Err  error
	}
)

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Name, e.Err)
}

// Unwrap returns ErrInvalidTemplate for errors.Is() compatibility, followed
// by the underlying cause.
func (e *TemplateError) Unwrap() []error { return []error{ErrInvalidTemplate, e.Err} }

// DefaultTemplate returns the built-in DOLFINx demo template.
func DefaultTemplate() *Template {
	t, err := ParseTemplate("CMakeLists.txt.tmpl", defaultTemplateText)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTemplateText returns the source of the built-in template.
func DefaultTemplateText() string {
	return defaultTemplateText
}

// ParseTemplate parses text as a descriptor template. Unknown fields fail
// at render time.
func ParseTemplate(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	return &Template{name: name, tmpl: tmpl}, nil
}

// LoadTemplate reads and parses a template file.
func LoadTemplate(path types.FilesystemPath) (*Template, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, &TemplateError{Name: string(path), Err: err}
	}
	return ParseTemplate(string(path), string(data))
}

// Name returns the template name used in error messages.
func (t *Template) Name() string { return t.name }

// Render executes the template.
func (t *Template) Render(data TemplateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return nil, &TemplateError{Name: t.name, Err: err}
	}
	return buf.Bytes(), nil
}
