// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for terminal output, tuned for dark backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED") // titles
	ColorMuted     = lipgloss.Color("#6B7280") // defaults, placeholders
	ColorSuccess   = lipgloss.Color("#10B981") // written or up-to-date descriptors
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B") // stale descriptors
	ColorHighlight = lipgloss.Color("#3B82F6") // paths, targets, config keys
)

var (
	// TitleStyle renders section headings such as "Dry Run".
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// SubtitleStyle renders de-emphasized values like "(none)".
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	// ErrorStyle prefixes every reported failure.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	// CmdStyle renders target names, config keys and command examples.
	CmdStyle = lipgloss.NewStyle().Foreground(ColorHighlight)

	// HighlightStyle marks labels and progress arrows in dry-run and watch output.
	HighlightStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
)
