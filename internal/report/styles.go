package report

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray (brighter for readability)
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	SectionTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	Label = lipgloss.NewStyle().
		Foreground(MutedColor)

	Value = lipgloss.NewStyle().
		Foreground(TextColor)

	// Critical-path tasks are the schedule's hot spots
	Critical = lipgloss.NewStyle().
			Bold(true).
			Foreground(WarningColor)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Warning message
	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// RiskColor returns the color for a given risk level
func RiskColor(level string) lipgloss.Color {
	switch level {
	case "low":
		return SecondaryColor
	case "medium":
		return WarningColor
	case "high":
		return ErrorColor
	default:
		return MutedColor
	}
}

// RiskIcon returns an icon for a given risk level
func RiskIcon(level string) string {
	switch level {
	case "low":
		return "○"
	case "medium":
		return "◐"
	case "high":
		return "●"
	default:
		return "○"
	}
}
