package arc

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Arc is one run's path: from Start, Span degrees in Direction, ending at End.
type Arc struct {
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Direction Direction `json:"direction"`
	Span      float64   `json:"span"`
}

// NewArc builds an arc travelling span degrees from start.
// A 360 degree span ends where it started after a full turn.
func NewArc(start, span float64, dir Direction) Arc {
	start = Normalize(start)
	span = math.Abs(span)
	return Arc{
		Start:     start,
		End:       Normalize(start + dir.Sign()*span),
		Direction: dir,
		Span:      span,
	}
}

// ArcBetween builds the arc from start to end travelling in dir.
// Equal endpoints give a zero span.
func ArcBetween(start, end float64, dir Direction) Arc {
	start, end = Normalize(start), Normalize(end)
	var span float64
	if dir == Clockwise {
		span = Normalize(end - start)
	} else {
		span = Normalize(start - end)
	}
	return Arc{Start: start, End: end, Direction: dir, Span: span}
}

// TargetSet is the discrete pool random targets are drawn from.
type TargetSet struct {
	Name      string
	StartStep float64   // Start angles are k*StartStep covering [0, 360)
	Spans     []float64 // Allowed span magnitudes in degrees
}

// FineTargets: 15 degree start grid, 45-90 degree spans.
var FineTargets = TargetSet{
	Name:      "fine",
	StartStep: 15,
	Spans:     []float64{45, 60, 75, 90},
}

// CoarseTargets: 30 degree start grid, spans up to a full turn.
var CoarseTargets = TargetSet{
	Name:      "coarse",
	StartStep: 30,
	Spans:     []float64{30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330, 360},
}

// TargetSetByName returns FineTargets or CoarseTargets.
func TargetSetByName(name string) (TargetSet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fine", "":
		return FineTargets, nil
	case "coarse":
		return CoarseTargets, nil
	}
	return TargetSet{}, fmt.Errorf("arc: unknown target set %q", name)
}

// Validate checks that the set can produce targets.
func (ts TargetSet) Validate() error {
	if !(ts.StartStep > 0) || ts.StartStep > 360 {
		return fmt.Errorf("arc: target set %q: start step %v out of range (0, 360]", ts.Name, ts.StartStep)
	}
	if len(ts.Spans) == 0 {
		return errors.New("arc: target set " + ts.Name + ": no spans")
	}
	for _, s := range ts.Spans {
		if !(s > 0) || s > 360 {
			return fmt.Errorf("arc: target set %q: span %v out of range (0, 360]", ts.Name, s)
		}
	}
	return nil
}

// StartAngles lists the evenly spaced start angles.
func (ts TargetSet) StartAngles() []float64 {
	n := int(math.Ceil(360/ts.StartStep - 1e-9))
	angles := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		angles = append(angles, float64(i)*ts.StartStep)
	}
	return angles
}

// Draw picks a start angle, a direction and a span independently and uniformly.
func (ts TargetSet) Draw(rng *rand.Rand) Arc {
	starts := ts.StartAngles()
	start := starts[rng.Intn(len(starts))]
	dir := Clockwise
	if rng.Intn(2) == 1 {
		dir = CounterClockwise
	}
	span := ts.Spans[rng.Intn(len(ts.Spans))]
	return NewArc(start, span, dir)
}
