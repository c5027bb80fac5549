package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/pose"
)

func testState() arc.State {
	return arc.State{
		SessionID:    "0123456789abcdef",
		Run:          3,
		Phase:        arc.PhaseMoving,
		Mode:         arc.ModeMoving,
		Plane:        arc.Horizontal,
		Target:       arc.NewArc(30, 60, arc.Clockwise),
		CurrentAngle: 45,
		Samples:      12,
		Elapsed:      0.5,
	}
}

func TestBearing(t *testing.T) {
	assert.Equal(t, 90.0, Bearing(0))
	assert.Equal(t, 0.0, Bearing(90))
	assert.Equal(t, 270.0, Bearing(180))
	assert.Equal(t, 180.0, Bearing(270))
}

func TestArrowGlyphs(t *testing.T) {
	assert.Equal(t, byte('^'), arrowTip(0))
	assert.Equal(t, byte('>'), arrowTip(arc.Radians(90)))
	assert.Equal(t, byte('v'), arrowTip(arc.Radians(180)))
	assert.Equal(t, byte('<'), arrowTip(arc.Radians(270)))
	assert.Equal(t, byte('|'), shaftChar(0))
	assert.Equal(t, byte('-'), shaftChar(arc.Radians(90)))
	assert.Equal(t, byte('/'), shaftChar(arc.Radians(45)))
}

func TestRenderCompass(t *testing.T) {
	assert.Empty(t, RenderCompass(5, 3, 0, 1))

	out := RenderCompass(21, 9, 0, 1)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 9)
	assert.Contains(t, out, "^")
	assert.Contains(t, out, "+")
}

func TestRenderSparkline(t *testing.T) {
	assert.Empty(t, renderSparkline(nil, 10))
	assert.Equal(t, "_^", renderSparkline([]float64{0, 100}, 10))
	assert.Equal(t, "___", renderSparkline([]float64{5, 5, 5}, 10))
	assert.Len(t, renderSparkline(make([]float64, 50), 10), 10)
}

func TestSideLabel(t *testing.T) {
	assert.Equal(t, "right", sideLabel(0))
	assert.Equal(t, "front", sideLabel(90))
	assert.Equal(t, "left", sideLabel(180))
	assert.Equal(t, "back", sideLabel(270))
	assert.Equal(t, "right", sideLabel(359))
}

func TestRenderMenuBar(t *testing.T) {
	out := RenderMenuBar(120, "demo", arc.PhaseStaticPlay)
	assert.Contains(t, out, "STATIC-PLAY")
	assert.Contains(t, out, "Pose: demo")
	assert.Contains(t, out, "[W]")
}

func TestRenderStatusBar(t *testing.T) {
	st := testState()
	out := RenderStatusBar(140, st, 0.5, 10)
	assert.Contains(t, out, "[MOVING]")
	assert.Contains(t, out, "Angle: 45.0deg")
	assert.Contains(t, out, "Vol: 0.50")
	assert.NotContains(t, out, "Static:")

	st.Phase = arc.PhaseStaticPlay
	st.StaticRemaining = 2.5
	assert.Contains(t, RenderStatusBar(140, st, 0.5, 10), "Static: 2.5s")
}

func TestRenderSessionPanel(t *testing.T) {
	v := SessionView{
		State:    testState(),
		Volume:   0.5,
		Distance: 10,
		Azimuth:  135,
		History:  []float64{30, 35, 40, 45},
		LastSave: "out/run1.csv",
	}
	out := RenderSessionPanel(v, 40, 40)

	assert.Equal(t, 40, lipgloss.Height(out))
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "30->90 cw 60deg")
	assert.Contains(t, out, "out/run1.csv")
	assert.Contains(t, out, "Angle history")
}

func TestRenderPosePanel(t *testing.T) {
	now := time.Now()

	empty := RenderPosePanel(pose.Status{}, "", 30, 12, now)
	assert.Len(t, strings.Split(empty, "\n"), 12)
	assert.Contains(t, empty, "offline")
	assert.Contains(t, empty, "Waiting for tracker")

	st := pose.Status{
		Arm:          pose.Arm{Shoulder: r3.Vec{X: 0.1}, Elbow: r3.Vec{X: 0.3}, Wrist: r3.Vec{X: 0.5}},
		HasArm:       true,
		Received:     7,
		DecodeErrors: 2,
		LastSeen:     now,
		Connected:    true,
	}
	out := RenderPosePanel(st, "ws://localhost:8000", 40, 14, now)
	assert.Len(t, strings.Split(out, "\n"), 14)
	assert.Contains(t, out, "POSE [7]")
	assert.Contains(t, out, "online")
	assert.Contains(t, out, "0.50 0.00 0.00")
	assert.Contains(t, out, "Dropped")

	st.LastError = errors.New("read: reset").Error()
	assert.Contains(t, RenderPosePanel(st, "ws://x", 40, 14, now), "read: reset")
}

func TestFormatLastSeen(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "never", formatLastSeen(time.Time{}, now))
	assert.Equal(t, "now", formatLastSeen(now, now))
	assert.Equal(t, "5s ago", formatLastSeen(now.Add(-5*time.Second), now))
	assert.Equal(t, "2m ago", formatLastSeen(now.Add(-2*time.Minute), now))
}

func TestRenderSavePrompt(t *testing.T) {
	assert.Empty(t, RenderSavePrompt(SavePrompt{}, 80))

	assert.Contains(t, RenderSavePrompt(SavePrompt{Visible: true}, 80), "Run complete")

	active := RenderSavePrompt(SavePrompt{Visible: true, Active: true, Name: "trial"}, 80)
	assert.Contains(t, active, "trial_")
	assert.Contains(t, active, "[Esc]")

	saved := RenderSavePrompt(SavePrompt{Message: "saved out/trial.csv"}, 80)
	assert.Contains(t, saved, "saved out/trial.csv")
}

func TestComposeLayout(t *testing.T) {
	without := ComposeLayout("menu", "radar", "side", "", "status")
	assert.Equal(t, 3, lipgloss.Height(without))

	with := ComposeLayout("menu", "radar", "side", "prompt", "status")
	assert.Equal(t, 4, lipgloss.Height(with))
}
