package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, feedSource string, phase arc.Phase) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"S", "tart"},
		{"N", "ext"},
		{"R", "epeat"},
		{"M", "ode"},
		{"V", "plane"},
		{"W", "save"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	label := strings.ToUpper(phase.String())
	status := PhaseStyle(phase.String()).Render(label)

	if feedSource == "" {
		feedSource = "none"
	}
	feedInfo := StyleMenuLabel.Render(fmt.Sprintf("Pose: %s", feedSource))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + feedInfo + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
