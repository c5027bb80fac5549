package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arc-sound.klederson.com/internal/arc"
)

// SessionView is everything the session panel shows.
type SessionView struct {
	State    arc.State
	Volume   float64
	Distance float64
	Azimuth  float64   // Logged listener-to-source azimuth
	History  []float64 // Recent source angles
	LastSave string    // Path of the last export, if any
}

// RenderSessionPanel renders arc state, level meter, angle sparkline and compass.
func RenderSessionPanel(v SessionView, width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	st := v.State
	title := StylePanelTitle.Render("SESSION")
	runTag := StyleHelp.Render(fmt.Sprintf("[run %d]", st.Run))
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(runTag))) + runTag

	sep := StyleRadarRing.Render(strings.Repeat("-", innerW))
	lines := []string{titleLine, sep}

	fields := []struct{ label, value string }{
		{"ID", shortID(st.SessionID)},
		{"Phase", st.Phase.String()},
		{"Mode", st.Mode.String()},
		{"Plane", st.Plane.String()},
		{"Arc", formatArc(st.Target)},
		{"Angle", fmt.Sprintf("%.1fdeg", st.CurrentAngle)},
		{"Azimuth", fmt.Sprintf("%.1fdeg", v.Azimuth)},
		{"Samples", fmt.Sprintf("%d  %.2fs", st.Samples, st.Elapsed)},
	}
	if st.HasPrevious {
		fields = append(fields, struct{ label, value string }{"Previous", formatArc(st.Previous)})
	}
	if v.LastSave != "" {
		fields = append(fields, struct{ label, value string }{"Saved", v.LastSave})
	}

	for _, f := range fields {
		label := StyleLabel.Render(fmt.Sprintf("  %-9s", f.label))
		lines = append(lines, label+StyleValue.Render(truncRaw(f.value, innerW-11)))
	}

	lines = append(lines, "")

	barWidth := innerW - 20
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, StyleLabel.Render("  Level   ")+renderLevelBar(v.Volume, barWidth)+
		StyleValue.Render(fmt.Sprintf(" %.2f", v.Volume)))

	if len(v.History) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, StyleLabel.Render("  Angle history:"))
		lines = append(lines, "  "+StylePath.Render(renderSparkline(v.History, sparkW)))
	}

	lines = append(lines, "")

	compassH := height - len(lines) - 4
	if compassH >= 5 {
		compassW := innerW
		if compassW > compassH*3 {
			compassW = compassH * 3
		}
		compass := RenderCompass(compassW, compassH, Bearing(st.CurrentAngle), v.Volume)
		pad := strings.Repeat(" ", max(0, (innerW-compassW)/2))
		for _, cl := range strings.Split(compass, "\n") {
			lines = append(lines, pad+cl)
		}
		label := fmt.Sprintf("d=%.1f  %s", v.Distance, sideLabel(st.CurrentAngle))
		lines = append(lines, strings.Repeat(" ", max(0, (innerW-len(label))/2))+StyleValue.Render(label))
	}

	innerH := height - 2
	if len(lines) > innerH {
		lines = lines[:max(innerH, 0)]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	return StylePanelActive.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
}

func formatArc(a arc.Arc) string {
	return fmt.Sprintf("%.0f->%.0f %s %.0fdeg", a.Start, a.End, a.Direction, a.Span)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderLevelBar(level float64, width int) string {
	ratio := math.Max(0, math.Min(level, 1))
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(lipgloss.Color(levelColor(level))).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}
	values = values[start:]

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	rng := maxV - minV
	if rng < 1 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}

// sideLabel names the region of the circle the source is in, relative to the listener.
func sideLabel(angle float64) string {
	dirs := []string{"right", "front-right", "front", "front-left", "left", "back-left", "back", "back-right"}
	return dirs[int(math.Round(arc.Normalize(angle)/45))%8]
}
