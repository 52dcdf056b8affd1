// Package styles provides shared lipgloss styles for hk's status
// output.
//
// The run report is a dot-padded line per hook ending in a colored
// verdict, with dimmed detail lines after a failure. Styles render ANSI
// unconditionally; the output writer is wrapped in a colorprofile
// writer that downsamples or strips colors for the active terminal.
package styles

import "charm.land/lipgloss/v2"

// Verdict styles, black text on colored badges.
var (
	// Passed marks a hook that exited zero without touching files.
	Passed = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("2"))

	// Failed marks a non-zero exit or a working-tree modification.
	Failed = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("1"))

	// Skipped marks a hook suppressed via the skip list.
	Skipped = lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("3"))

	// SkippedNoFiles marks a hook with no files to check.
	SkippedNoFiles = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6"))
)

// Dimmed renders the per-hook detail lines (hook id, exit code,
// captured output).
var Dimmed = lipgloss.NewStyle().Faint(true)
