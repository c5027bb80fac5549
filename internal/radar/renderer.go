package radar

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/config"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorDim    = lipgloss.Color("#004A0A")
	colorPath   = lipgloss.Color("#FFB000")
	colorAhead  = lipgloss.Color("#7A5A00")
	colorSource = lipgloss.Color("#FF3B3B")
	colorStart  = lipgloss.Color("#00FFAA")
	colorEnd    = lipgloss.Color("#33AAFF")

	styleCenter = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing   = lipgloss.NewStyle().Foreground(colorMid)
	styleDot    = lipgloss.NewStyle().Foreground(colorDim)
	styleDone   = lipgloss.NewStyle().Foreground(colorPath).Bold(true)
	styleAhead  = lipgloss.NewStyle().Foreground(colorAhead)
	styleSource = lipgloss.NewStyle().Foreground(colorSource).Bold(true)
	styleStart  = lipgloss.NewStyle().Foreground(colorStart).Bold(true)
	styleEnd    = lipgloss.NewStyle().Foreground(colorEnd).Bold(true)
	styleAxis   = lipgloss.NewStyle().Foreground(colorMid)
)

// View is what the radar needs from the controller for one frame.
type View struct {
	Overlay *Overlay
	Source  float64 // Current source angle in degrees
	Plane   arc.Plane
}

type marker struct {
	col, row int
	ch       string
	style    lipgloss.Style
}

// Render produces the radar display as a styled string: listener at the
// centre, the source circle as the outer ring, the planned arc highlighted,
// S and E at its ends and @ at the source.
func Render(width, height int, v View) string {
	if width < 10 || height < 5 {
		return ""
	}

	centerX := width / 2
	centerY := height / 2
	radius := float64(min(centerX-1, int(float64(centerY-1)/config.AspectRatio)))
	if radius < 3 {
		radius = 3
	}

	ringRadii := make([]float64, config.RingCount)
	for i := range ringRadii {
		ringRadii[i] = radius * float64(i+1) / float64(config.RingCount)
	}

	markers := buildMarkers(v, centerX, centerY, radius)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sb.WriteString(renderCell(col, row, centerX, centerY, radius, ringRadii, v.Overlay, markers))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// buildMarkers places start, end and source; later markers win on collision.
func buildMarkers(v View, centerX, centerY int, radius float64) []marker {
	var ms []marker
	if v.Overlay != nil {
		c, r := PolarToCell(v.Overlay.Arc.Start, radius, centerX, centerY)
		ms = append(ms, marker{c, r, "S", styleStart})
		if v.Overlay.Arc.Span > 0 && v.Overlay.Arc.Span < 360 {
			c, r = PolarToCell(v.Overlay.Arc.End, radius, centerX, centerY)
			ms = append(ms, marker{c, r, "E", styleEnd})
		}
	}
	c, r := PolarToCell(v.Source, radius, centerX, centerY)
	ms = append(ms, marker{c, r, "@", styleSource})
	return ms
}

func markerAt(markers []marker, col, row int) (marker, bool) {
	for i := len(markers) - 1; i >= 0; i-- {
		if markers[i].col == col && markers[i].row == row {
			return markers[i], true
		}
	}
	return marker{}, false
}

func renderCell(col, row, centerX, centerY int, radius float64, ringRadii []float64, ov *Overlay, markers []marker) string {
	if m, ok := markerAt(markers, col, row); ok {
		return m.style.Render(m.ch)
	}

	dist := CellDistance(col, row, centerX, centerY)
	if dist > radius+0.5 {
		return " "
	}

	if col == centerX && row == centerY {
		return styleCenter.Render("+")
	}

	angle := CellAngle(col, row, centerX, centerY)

	// Outer ring is the source circle.
	if math.Abs(dist-radius) < 0.8 && ov != nil {
		switch ov.Intensity(angle) {
		case 1:
			return styleDone.Render("o")
		case 0.5:
			return styleAhead.Render(string(RingChar(angle)))
		}
	}

	if col == centerX {
		return styleAxis.Render("|")
	}
	if row == centerY {
		return styleAxis.Render("-")
	}

	for _, ringR := range ringRadii {
		if math.Abs(dist-ringR) < 0.8 {
			return styleRing.Render(string(RingChar(angle)))
		}
	}

	return styleDot.Render(".")
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int, plane arc.Plane) string {
	axis := "X/Z"
	if plane == arc.Vertical {
		axis = "X/Y"
	}
	legend := styleCenter.Render("+ listener") + "  " +
		styleStart.Render("S start") + "  " +
		styleEnd.Render("E end") + "  " +
		styleSource.Render("@ source") + "  " +
		styleRing.Render(axis)

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
