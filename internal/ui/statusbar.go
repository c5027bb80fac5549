package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arc-sound.klederson.com/internal/arc"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st arc.State, volume, distance float64) string {
	status := PhaseStyle(st.Phase.String()).Render("[" + strings.ToUpper(st.Phase.String()) + "]")

	info := fmt.Sprintf(" Mode: %s  Plane: %s  Angle: %.1fdeg  Vol: %.2f  Dist: %.1f  Run: %d",
		st.Mode, st.Plane, st.CurrentAngle, volume, distance, st.Run)
	if st.Phase == arc.PhaseStaticPlay {
		info += fmt.Sprintf("  Static: %.1fs", st.StaticRemaining)
	}

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
