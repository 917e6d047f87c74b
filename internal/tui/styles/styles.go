package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("#FF8700") // Amber
	ColorGood    = lipgloss.Color("#04B575") // Green
	ColorError   = lipgloss.Color("#FF5F87") // Pink/Red
	ColorWarning = lipgloss.Color("#FFAF00") // Gold
	ColorText    = lipgloss.Color("#FAFAFA")
	ColorSubtle  = lipgloss.Color("#767676")
	ColorBorder  = lipgloss.Color("#3C3C3C")
)

var (
	Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(ColorSubtle)

	Text   = lipgloss.NewStyle().Foreground(ColorText)
	Subtle = lipgloss.NewStyle().Foreground(ColorSubtle)

	Active  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	Success = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	Error   = lipgloss.NewStyle().Foreground(ColorError)
	Warn    = lipgloss.NewStyle().Foreground(ColorWarning)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Margin(0, 1)
)

func RenderKey(key, desc string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		Text.Bold(true).Render("<"+key+">"),
		" ",
		Subtle.Render(desc),
	)
}
