// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/fenics/cmakegen/internal/generate"
	"github.com/fenics/cmakegen/pkg/types"
)

// renderDryRun prints the target, path and sources of every planned
// descriptor without writing anything.
func renderDryRun(w io.Writer, root types.FilesystemPath, plan *generate.Plan) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", HighlightStyle.Render("Root:"), root)
	fmt.Fprintf(w, "  %s %d\n", HighlightStyle.Render("Descriptors:"), len(plan.Entries))

	for _, entry := range plan.Entries {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", CmdStyle.Render(entry.Target.String()))
		fmt.Fprintf(w, "    %s %s\n", SubtitleStyle.Render("path:"), entry.Path)
		fmt.Fprintf(w, "    %s %s\n", SubtitleStyle.Render("sources:"), entry.SourceList())
	}

	fmt.Fprintln(w)
}
