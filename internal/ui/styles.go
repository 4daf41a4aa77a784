package ui

import "github.com/charmbracelet/lipgloss"

// Shared styles for console output. lipgloss downgrades these to plain
// text when the output is not a terminal.
var (
	// ErrorStyle renders fatal CLI errors.
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	// TitleStyle renders banner headings.
	TitleStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)

	// LabelStyle renders key labels in key/value listings.
	LabelStyle = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
)
