package radar

import (
	"math"

	"arc-sound.klederson.com/internal/arc"
	"arc-sound.klederson.com/internal/config"
)

// CellDistance computes the distance from a cell to the radar center,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell in degrees [0, 360).
// 0 is to the right (+X) and angles grow towards the top of the screen,
// matching the controller's angle convention.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return arc.Normalize(arc.Degrees(math.Atan2(-dy, dx)))
}

// PolarToCell maps an angle in degrees and a radius in cells to a screen cell.
func PolarToCell(deg, r float64, centerX, centerY int) (col, row int) {
	theta := arc.Radians(deg)
	col = centerX + int(math.Round(r*math.Cos(theta)))
	row = centerY - int(math.Round(r*math.Sin(theta)*config.AspectRatio))
	return col, row
}

// RingChar returns the character tangent to a ring at the given angle in degrees.
func RingChar(deg float64) rune {
	sector := int(math.Round(arc.Normalize(deg)/45)) % 8

	switch sector {
	case 0, 4: // East, West
		return '|'
	case 1, 5: // NE, SW
		return '\\'
	case 2, 6: // North, South
		return '-'
	case 3, 7: // NW, SE
		return '/'
	default:
		return '.'
	}
}

// AngleDiff returns the shortest angular distance between two angles in degrees.
// Result is in [0, 180].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(arc.Normalize(a) - arc.Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// UnitsToRadius converts a world distance to radar cells, clamped to the radar edge.
func UnitsToRadius(units, maxRange, radarRadius float64) float64 {
	if maxRange <= 0 {
		return 0
	}
	if units > maxRange {
		return radarRadius
	}
	return (units / maxRange) * radarRadius
}
