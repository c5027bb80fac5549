package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SavePrompt holds the file name input shown after a run completes.
type SavePrompt struct {
	Visible bool   // a finished run is waiting to be saved
	Active  bool   // text input mode
	Name    string // typed file name, without extension
	Message string // result of the last save attempt
	Failed  bool
}

// RenderSavePrompt renders the save line, or an empty string when hidden.
func RenderSavePrompt(p SavePrompt, width int) string {
	if !p.Visible && p.Message == "" {
		return ""
	}

	var line string
	switch {
	case p.Active:
		line = StyleLabel.Render(" Save trajectory as: ") +
			StyleInputActive.Render(p.Name+"_") + StyleInputInactive.Render(".csv") +
			"  " + StyleHelp.Render("[Enter] save  [Esc] cancel")
	case p.Visible:
		line = StyleLabel.Render(" Run complete. ") + StyleMenuKey.Render("[W]") + StyleMenuLabel.Render(" save trajectory")
	}

	if p.Message != "" {
		msgSty := StyleValue
		if p.Failed {
			msgSty = StyleError
		}
		line += "  " + msgSty.Render(p.Message)
	}

	gap := width - lipgloss.Width(line)
	if gap < 0 {
		gap = 0
	}
	return line + strings.Repeat(" ", gap)
}
