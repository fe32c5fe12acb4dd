package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor = lipgloss.Color("#06B6D4") // Cyan
	successColor = lipgloss.Color("#10B981") // Green
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

// Styles for text output. Colors are dropped automatically when the output
// is not a terminal.
var (
	// titleStyle for section headers.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// labelStyle for table headers and field labels.
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(mutedColor)

	// mutedStyle for placeholders and footers.
	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// successStyle for summaries.
	successStyle = lipgloss.NewStyle().
			Foreground(successColor)
)
