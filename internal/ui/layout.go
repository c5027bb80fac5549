package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the radar panel and side panels horizontally,
// with menu bar on top and save prompt plus status bar on the bottom.
func ComposeLayout(menuBar, radarPanel, sidePanel, prompt, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, sidePanel)
	if prompt == "" {
		return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, prompt, statusBar)
}

// StackPanels places side panels on top of each other.
func StackPanels(panels ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}
