package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("241")
	colorDanger  = lipgloss.Color("196")
	colorAccent  = lipgloss.Color("214")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(30).
			Foreground(colorMuted)

	focusedLabelStyle = labelStyle.
				Foreground(colorPrimary).
				Bold(true)

	regimeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2).
			MarginTop(1)

	resultLabelStyle = lipgloss.NewStyle().
				Width(22).
				Foreground(colorMuted)

	resultValueStyle = lipgloss.NewStyle().
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)
