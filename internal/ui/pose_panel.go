package ui

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/config"
	"arc-sound.klederson.com/internal/pose"
)

// RenderPosePanel renders the latest tracked arm and the feed health.
// Output is clamped to exactly height lines.
func RenderPosePanel(st pose.Status, source string, width, height int, now time.Time) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("POSE [%d]", st.Received))
	separator := StyleRadarRing.Render(strings.Repeat("-", innerW))

	conn := StyleDisconnected.Render("offline")
	if st.Connected {
		conn = StyleConnected.Render("online")
	}
	if source == "" {
		source = "none"
	}
	header := []string{title, separator, " " + conn + " " + StyleHelp.Render(truncRaw(source, innerW-10))}

	innerH := height - 2
	if innerH < len(header)+1 {
		innerH = len(header) + 1
	}

	var body []string
	if !st.HasArm {
		body = append(body, "", StyleHelp.Render(" No pose..."), StyleHelp.Render(" Waiting for tracker"))
	} else {
		arm := st.Arm
		valueSty := StyleValue
		if st.Stale(now, config.PoseStaleAfter) {
			valueSty = StyleInputInactive
		}
		row := func(label, value string) string {
			return StyleLabel.Render(fmt.Sprintf(" %-9s", label)) + valueSty.Render(truncRaw(value, innerW-10))
		}
		body = append(body,
			row("Shoulder", formatVec(arm.Shoulder)),
			row("Elbow", formatVec(arm.Elbow)),
			row("Wrist", formatVec(arm.Wrist)),
			row("Bend", fmt.Sprintf("%.0fdeg", arm.ElbowAngle())),
			row("Reach", fmt.Sprintf("%.3f", arm.Reach())),
			row("Last", formatLastSeen(st.LastSeen, now)),
		)
	}
	if st.DecodeErrors > 0 {
		body = append(body, StyleLabel.Render(" Dropped  ")+StyleError.Render(fmt.Sprintf("%d", st.DecodeErrors)))
	}
	if st.LastError != "" {
		body = append(body, " "+StyleError.Render(truncRaw(st.LastError, innerW-1)))
	}

	all := append(header, body...)
	if len(all) > innerH {
		all = all[:innerH]
	}

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))

	// lipgloss Height() only sets a minimum; it won't truncate overflow.
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("%.2f %.2f %.2f", v.X, v.Y, v.Z)
}

func formatLastSeen(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}

// truncRaw truncates a raw string to at most w characters.
func truncRaw(s string, w int) string {
	if w < 1 {
		return ""
	}
	if len(s) > w {
		return s[:w]
	}
	return s
}
