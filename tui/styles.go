package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorMuted   = lipgloss.Color("8")
	colorAccent  = lipgloss.Color("6")
	colorMatch   = lipgloss.Color("4")
	colorWarn    = lipgloss.Color("3")
	colorError   = lipgloss.Color("1")
	colorInfo    = lipgloss.Color("2")
	colorCursorF = lipgloss.Color("0")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	frameStyle  = lipgloss.NewStyle()
	markStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	cursorStyle = lipgloss.NewStyle().
			Foreground(colorCursorF).
			Background(colorMatch)
	matchStyle = lipgloss.NewStyle().
			Foreground(colorMatch).
			Bold(true)
	cursorMatchStyle = lipgloss.NewStyle().
				Foreground(colorCursorF).
				Background(colorMatch).
				Bold(true)
	detailStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorMuted)
	hintStyle = lipgloss.NewStyle().Foreground(colorMuted)

	noteStyles = map[string]lipgloss.Style{
		levelInfo:  lipgloss.NewStyle().Foreground(colorInfo),
		levelWarn:  lipgloss.NewStyle().Foreground(colorWarn),
		levelError: lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}
)
