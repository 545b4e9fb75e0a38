package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette - warm, photography-inspired
	primaryColor   = lipgloss.Color("#E8A87C") // warm orange
	secondaryColor = lipgloss.Color("#85DCB0") // mint green
	warningColor   = lipgloss.Color("#F6AE2D") // amber warning
	errorColor     = lipgloss.Color("#E85D75") // soft red
	mutedColor     = lipgloss.Color("#6B7280") // gray
	textColor      = lipgloss.Color("#F3F4F6") // light text
	dimTextColor   = lipgloss.Color("#9CA3AF") // dim text

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Italic(true)

	fileNameStyle = lipgloss.NewStyle().
			Foreground(textColor)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			Width(20)

	statValueStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(2)

	iconSuccess = "✓"
	iconError   = "✗"
	iconSkipped = "○"
)
