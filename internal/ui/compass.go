package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arc-sound.klederson.com/internal/arc"
)

// Bearing converts a source angle (0 = +X, counter-clockwise, up on screen)
// into a compass bearing in degrees (0 = up, clockwise).
func Bearing(angle float64) float64 {
	return arc.Normalize(90 - angle)
}

// RenderCompass renders a compass with an arrow pointing toward the source.
// bearing: degrees (0=up, clockwise), volume: [0, 1].
func RenderCompass(width, height int, bearing, volume float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	angle := arc.Radians(bearing)

	grid := make([][]byte, height)
	isArrow := make([][]bool, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		isArrow[i] = make([]bool, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	fcx := float64(width) / 2.0
	fcy := float64(height) / 2.0
	rx := fcx - 2.0 // horizontal radius in columns
	ry := fcy - 2.0 // vertical radius in rows
	if rx < 3 {
		rx = 3
	}
	if ry < 2 {
		ry = 2
	}

	// Ring
	steps := 80
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Sin(a)))
		row := int(math.Round(fcy - ry*math.Cos(a)))
		if col >= 0 && col < width && row >= 0 && row < height && grid[row][col] == ' ' {
			grid[row][col] = ringChar(a)
		}
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	// Degree markers instead of cardinals: the listener has no north.
	setGrid(grid, width, height, cx, cy-int(math.Round(ry))-1, '0')
	setGrid(grid, width, height, cx+int(math.Round(rx))+1, cy, 'R')
	setGrid(grid, width, height, cx-int(math.Round(rx))-1, cy, 'L')

	for r := cy - int(ry) + 1; r < cy+int(ry); r++ {
		if r >= 0 && r < height && r != cy && grid[r][cx] == ' ' {
			grid[r][cx] = ':'
		}
	}
	for c := cx - int(rx) + 1; c < cx+int(rx); c++ {
		if c >= 0 && c < width && c != cx && cy < height && grid[cy][c] == ' ' {
			grid[cy][c] = '.'
		}
	}

	setGrid(grid, width, height, cx, cy, '+')

	// Louder source = longer arrow
	maxFrac := 0.85
	minFrac := 0.3
	arrowFrac := minFrac + (maxFrac-minFrac)*math.Max(0, math.Min(volume, 1))

	sinA := math.Sin(angle)
	cosA := math.Cos(angle)

	shaftSteps := int(math.Max(rx, ry) * arrowFrac)
	if shaftSteps < 2 {
		shaftSteps = 2
	}

	tipCol, tipRow := cx, cy
	for s := 1; s <= shaftSteps; s++ {
		t := float64(s) / float64(shaftSteps) * arrowFrac
		col := int(math.Round(fcx + t*rx*sinA))
		row := int(math.Round(fcy - t*ry*cosA))
		if col >= 0 && col < width && row >= 0 && row < height {
			grid[row][col] = shaftChar(angle)
			isArrow[row][col] = true
			tipCol = col
			tipRow = row
		}
	}

	grid[tipRow][tipCol] = arrowTip(angle)
	isArrow[tipRow][tipCol] = true

	arrowSty := lipgloss.NewStyle().Foreground(lipgloss.Color(levelColor(volume))).Bold(true)
	ringSty := lipgloss.NewStyle().Foreground(ColorDimGreen)
	axisSty := lipgloss.NewStyle().Foreground(lipgloss.Color("#003300"))
	markSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch := grid[row][col]
			switch {
			case isArrow[row][col]:
				sb.WriteString(arrowSty.Render(string(ch)))
			case ch == '0' || ch == 'L' || ch == 'R' || ch == '+':
				sb.WriteString(markSty.Render(string(ch)))
			case ch == ':' || ch == '.':
				sb.WriteString(axisSty.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(ringSty.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

func setGrid(grid [][]byte, w, h, col, row int, ch byte) {
	if col >= 0 && col < w && row >= 0 && row < h {
		grid[row][col] = ch
	}
}

func sector8(a float64) int {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return int(math.Round(a/(math.Pi/4))) % 8
}

func ringChar(a float64) byte {
	switch sector8(a) {
	case 1, 5:
		return '\\'
	case 2, 6:
		return '|'
	case 3, 7:
		return '/'
	}
	return '-'
}

// shaftChar returns the line character for a given angle direction.
func shaftChar(a float64) byte {
	switch sector8(a) {
	case 2, 6: // Right, left
		return '-'
	case 1, 5:
		return '/'
	case 3, 7:
		return '\\'
	}
	return '|'
}

// arrowTip returns the arrowhead character for a given angle.
func arrowTip(a float64) byte {
	return "^/>\\v/<\\"[sector8(a)]
}

// levelColor maps volume to a green shade (brighter = louder).
func levelColor(volume float64) string {
	switch {
	case volume > 0.8:
		return "#00FF41"
	case volume > 0.6:
		return "#00CC33"
	case volume > 0.4:
		return "#00AA22"
	case volume > 0.2:
		return "#008F11"
	}
	return "#005511"
}
