package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitcontrol/internal/stats"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	detailsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	fairStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	poorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func levelStyle(level stats.Level) lipgloss.Style {
	switch level {
	case stats.LevelGood:
		return goodStyle
	case stats.LevelFair:
		return fairStyle
	default:
		return poorStyle
	}
}
