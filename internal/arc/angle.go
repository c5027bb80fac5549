package arc

import (
	"fmt"
	"math"
	"strings"
)

// Normalize wraps an angle in degrees to [0, 360).
// Non-finite input maps to 0.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 + 360 rounds to 360
	if a >= 360 {
		a = 0
	}
	return a
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Direction is the sense of travel along the arc.
type Direction int

const (
	// Clockwise increases the angle.
	Clockwise Direction = iota
	// CounterClockwise decreases the angle.
	CounterClockwise
)

// Sign returns +1 for Clockwise and -1 for CounterClockwise.
func (d Direction) Sign() float64 {
	if d == CounterClockwise {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == CounterClockwise {
		return "ccw"
	}
	return "cw"
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Plane selects the two axes that host the circle.
type Plane int

const (
	// Horizontal places the circle in X/Z; Y is left as it was.
	Horizontal Plane = iota
	// Vertical places the circle in X/Y; Z is pinned to the listener.
	Vertical
)

func (p Plane) String() string {
	if p == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalText implements encoding.TextMarshaler.
func (p Plane) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePlane accepts "horizontal"/"h" and "vertical"/"v".
func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("arc: unknown plane %q", s)
}

// Mode is the moving/static submode.
type Mode int

const (
	// ModeMoving traverses an arc on Start.
	ModeMoving Mode = iota
	// ModeStatic plays in place for a fixed duration on Start.
	ModeStatic
)

func (m Mode) String() string {
	if m == ModeStatic {
		return "static"
	}
	return "moving"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Phase is the controller's movement phase.
type Phase int

const (
	// PhaseIdle waits for a command; the source stays where the last run left it.
	PhaseIdle Phase = iota
	// PhaseMoving advances the source along the target arc each tick.
	PhaseMoving
	// PhaseStaticPlay plays in place until the static duration elapses.
	PhaseStaticPlay
)

func (p Phase) String() string {
	switch p {
	case PhaseMoving:
		return "moving"
	case PhaseStaticPlay:
		return "static-play"
	default:
		return "idle"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
