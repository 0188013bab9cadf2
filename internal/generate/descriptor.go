// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"strings"

	"github.com/fenics/cmakegen/internal/discovery"
	"github.com/fenics/cmakegen/pkg/types"
)

const (
	// DefaultDescriptorName is the file name of a generated descriptor.
	DefaultDescriptorName = "CMakeLists.txt"

	// DescriptorMode is the permission of newly created descriptors.
	DescriptorMode = 0o644
)

type (
	// Category is a top-level subtree that holds one program per directory.
	Category struct {
		// Name is the subtree directory relative to the scan root (e.g. "demo").
		Name string
		// Prefix is prepended to directory base names to form target names.
		Prefix string
		// EntryFiles lists the file names of which one must be present as a
		// primary source in every program directory.
		EntryFiles []string
	}

	// Descriptor describes one build descriptor to generate.
	Descriptor struct {
		// Dir is the native path of the program directory.
		Dir types.FilesystemPath
		// Path is the native path of the descriptor file.
		Path types.FilesystemPath
		// Rel is the slash path of the descriptor relative to the scan root.
		Rel string
		// Category is the name of the category the directory belongs to.
		Category string
		// Target is the CMake project and executable name.
		Target types.TargetName
		// Sources are the sorted source file names.
		Sources []string
	}

	// Entry is a descriptor together with its rendered content.
	Entry struct {
		Descriptor
		Content []byte
	}

	// Plan is the ordered outcome of planning a run.
	Plan struct {
		Entries     []Entry
		Diagnostics []discovery.Diagnostic
	}
)

// DefaultCategories returns the categories of a DOLFINx C++ tree.
func DefaultCategories() []Category {
	return []Category{{Name: "demo", Prefix: "demo_", EntryFiles: []string{"main.cpp"}}}
}

// SourceList returns the sources joined by single spaces.
func (d Descriptor) SourceList() string {
	return strings.Join(d.Sources, " ")
}
