package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Console palette. Hex values keep the exact shades scripts have always been
// rendered with; the ANSI values are used for trees and summaries.
var (
	ColorStatus = lipgloss.Color("#CDCDCD")
	ColorEcho   = lipgloss.Color("#00833F")
	ColorError  = lipgloss.Color("#B11F29")

	ColorBlue     = lipgloss.Color("39")
	ColorOrange   = lipgloss.Color("208")
	ColorGreen    = lipgloss.Color("82")
	ColorYellow   = lipgloss.Color("228")
	ColorCyan     = lipgloss.Color("45")
	ColorGray     = lipgloss.Color("250")
	ColorWhite    = lipgloss.Color("15")
	ColorDarkGray = lipgloss.Color("240")
)
