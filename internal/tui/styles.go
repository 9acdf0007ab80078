package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warningStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Dim renders secondary text.
func Dim(s string) string { return helpStyle.Render(s) }

// Success renders a completed action.
func Success(s string) string { return successStyle.Render("✓ " + s) }

// Warning renders something the operator should look at.
func Warning(s string) string { return warningStyle.Render(s) }
