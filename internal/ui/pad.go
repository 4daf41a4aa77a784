package ui

import "github.com/charmbracelet/lipgloss"

// PadRight pads a string to the specified visible width.
// ANSI escape codes do not count toward the width.
func PadRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	padding := width - visibleLen
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
