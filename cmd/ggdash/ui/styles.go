package ui

import "github.com/charmbracelet/lipgloss"

var (
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#25A065")).Render

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000")).
				Render

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("205"))

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
