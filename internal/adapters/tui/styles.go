package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#555555")).Padding(0, 1)
	activePaneStyle  = paneStyle.BorderForeground(lipgloss.Color("#00FF00"))
	infoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	markerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	gridStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A6EA5"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(1, 0, 0, 0)
)
