package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	SectionStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ValidStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorStatus)

	EchoStyle = lipgloss.NewStyle().
			Foreground(ColorEcho)

	PerfStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray).
			Italic(true)
)

// SectionText styles a config section name
func SectionText(text string) string {
	return SectionStyle.Render(text)
}

// ValueText styles a config value
func ValueText(text string) string {
	return ValueStyle.Render(text)
}

// ValidText styles valid status text (green)
func ValidText(text string) string {
	return ValidStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// CountText styles count numbers (cyan)
func CountText(text string) string {
	return ComponentStyle.Render(text)
}
