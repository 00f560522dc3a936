// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Shared color palette for CLI output, tuned for dark terminal backgrounds.
const (
	// ColorPrimary is the purple used for titles and the prompt highlight.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is the gray used for secondary text and help lines.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess marks completed substitutions.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorWarning marks skipped experiments and risky operations.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is the blue used for command and experiment names.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is the light gray used for supplementary detail.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// Styles shared by the command surfaces: headings, the status table, and the
// per-experiment result lines.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CmdStyle      = lipgloss.NewStyle().Foreground(ColorHighlight)
	VerboseStyle  = lipgloss.NewStyle().Foreground(ColorVerbose)
)
