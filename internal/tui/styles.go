// Package tui renders the tailed line window in the terminal.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/clarabennett2626/logtail/internal/classify"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5588cc")).
			Background(lipgloss.Color("#161b22")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8cee8")).
			Background(lipgloss.Color("#161b22")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5588cc")).
			Background(lipgloss.Color("#161b22")).
			Bold(true).
			Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#404060"))

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffb86c"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c8cee8"))
)

// styleFor maps a severity to its display style.
func styleFor(tag classify.Severity) lipgloss.Style {
	switch tag {
	case classify.SeverityError:
		return errorStyle
	case classify.SeverityWarn:
		return warnStyle
	case classify.SeverityDebug:
		return debugStyle
	case classify.SeverityInfo:
		return infoStyle
	default:
		return defaultStyle
	}
}
