// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/fenics/cmakegen/internal/discovery"
	"github.com/fenics/cmakegen/pkg/fspath"
	"github.com/fenics/cmakegen/pkg/types"
)

// ErrEntryFileMissing is the sentinel error wrapped by EntryFileMissingError.
var ErrEntryFileMissing = errors.New("entry file missing")

type (
	// Planner computes the descriptors of a source tree.
	Planner struct {
		// Categories are walked in order.
		Categories []Category
		// Exclude holds substrings of the slash path relative to the scan
		// root. Matching directories are skipped before classification.
		Exclude []string
		// Ignore holds doublestar patterns of directories that are not walked.
		Ignore []string
		// Rules classify directory files into sources.
		Rules discovery.Rules
		// DescriptorName is the descriptor file name; defaults to
		// DefaultDescriptorName.
		DescriptorName string
		// Template renders descriptors; defaults to DefaultTemplate().
		Template *Template
	}

	// EntryFileMissingError is returned when a directory has primary sources
	// but none of its category's entry files.
	EntryFileMissingError struct {
		Dir        types.FilesystemPath
		Category   string
		EntryFiles []string
		Primary    []string
	}
)

// Error implements the error interface.
func (e *EntryFileMissingError) Error() string {
	return fmt.Sprintf("%s has primary sources [%s] but none of the %s entry files [%s]",
		e.Dir, strings.Join(e.Primary, " "), e.Category, strings.Join(e.EntryFiles, " "))
}

// Unwrap returns ErrEntryFileMissing for errors.Is() compatibility.
func (e *EntryFileMissingError) Unwrap() error { return ErrEntryFileMissing }

// Plan walks every category of fsys, which must be rooted at root, and
// renders the descriptor of each program directory. It returns an error
// without a plan if any directory violates the entry file precondition.
func (p *Planner) Plan(fsys fs.FS, root types.FilesystemPath) (*Plan, error) {
	tmpl := p.Template
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	descriptorName := p.DescriptorName
	if descriptorName == "" {
		descriptorName = DefaultDescriptorName
	}

	plan := &Plan{}
	seen := make(map[types.TargetName]types.FilesystemPath)
	walker := &discovery.Walker{Root: root, Ignore: p.Ignore}

	for _, category := range p.Categories {
		for dir, err := range walker.Directories(fsys, category.Name) {
			if err != nil {
				plan.Diagnostics = append(plan.Diagnostics, walkDiagnostic(root, category, err))
				continue
			}

			if p.excluded(dir.Rel) {
				slog.Debug("skipping excluded directory", "path", dir.Path)
				plan.Diagnostics = append(plan.Diagnostics, discovery.NewDiagnostic(
					discovery.SeverityInfo, discovery.CodeExcludedDirectory,
					"Skipping custom CMakeLists.txt file: "+dir.Path.String(), dir.Path.String()))
				continue
			}

			classes := discovery.Classify(dir.Files, p.Rules)
			if classes.IsEmpty() {
				continue
			}
			if !classes.HasEntry(category.EntryFiles) {
				return nil, &EntryFileMissingError{
					Dir:        dir.Path,
					Category:   category.Name,
					EntryFiles: category.EntryFiles,
					Primary:    classes.Primary,
				}
			}

			target := types.NewTargetName(category.Prefix, dir.Base())
			if err := target.Validate(); err != nil {
				plan.Diagnostics = append(plan.Diagnostics, discovery.NewDiagnostic(
					discovery.SeverityWarning, discovery.CodeInvalidTargetName,
					fmt.Sprintf("Executable name %q contains whitespace; CMake will reject it", target),
					dir.Path.String()).WithCause(err))
			}
			if first, dup := seen[target]; dup {
				plan.Diagnostics = append(plan.Diagnostics, discovery.NewDiagnostic(
					discovery.SeverityWarning, discovery.CodeDuplicateTarget,
					fmt.Sprintf("Duplicate executable name %s found when generating %s files (first seen in %s)",
						target, descriptorName, first),
					dir.Path.String()))
			} else {
				seen[target] = dir.Path
			}

			desc := Descriptor{
				Dir:      dir.Path,
				Path:     fspath.JoinStr(dir.Path, descriptorName),
				Rel:      path.Join(dir.Rel, descriptorName),
				Category: category.Name,
				Target:   target,
				Sources:  classes.Sources(),
			}
			content, err := tmpl.Render(TemplateData{ProjectName: target, SourceFiles: desc.SourceList()})
			if err != nil {
				return nil, err
			}
			slog.Debug("planned descriptor", "target", target, "path", desc.Path, "sources", len(desc.Sources))
			plan.Entries = append(plan.Entries, Entry{Descriptor: desc, Content: content})
		}
	}

	return plan, nil
}

func (p *Planner) excluded(rel string) bool {
	for _, sub := range p.Exclude {
		if sub != "" && strings.Contains(rel, sub) {
			return true
		}
	}
	return false
}

func walkDiagnostic(root types.FilesystemPath, category Category, err error) discovery.Diagnostic {
	var unreadable *discovery.UnreadableDirError
	if errors.As(err, &unreadable) {
		dirPath := fspath.JoinSlash(root, unreadable.Rel).String()
		if unreadable.Rel == path.Clean(category.Name) && errors.Is(err, fs.ErrNotExist) {
			return discovery.NewDiagnostic(discovery.SeverityWarning, discovery.CodeCategoryMissing,
				fmt.Sprintf("category %q not found", category.Name), dirPath).WithCause(err)
		}
		return discovery.NewDiagnostic(discovery.SeverityWarning, discovery.CodeDirectoryUnreadable,
			"skipping unreadable directory", dirPath).WithCause(err)
	}
	return discovery.NewDiagnostic(discovery.SeverityWarning, discovery.CodeDirectoryUnreadable,
		err.Error(), root.String()).WithCause(err)
}
