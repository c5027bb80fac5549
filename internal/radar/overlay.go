package radar

import (
	"arc-sound.klederson.com/internal/arc"
)

// cellTolerance widens arc membership so the path stays continuous on coarse grids.
const cellTolerance = 4.0

// Overlay describes the planned arc and how far the source has travelled along it.
type Overlay struct {
	Arc     arc.Arc
	Current float64 // Source angle in degrees
	Moving  bool
}

// NewOverlay builds an overlay for a target arc and the current source angle.
func NewOverlay(a arc.Arc, current float64, moving bool) *Overlay {
	return &Overlay{Arc: a, Current: current, Moving: moving}
}

// offset returns how far deg lies from the arc start in the direction of travel, in [0, 360).
func (o *Overlay) offset(deg float64) float64 {
	return arc.Normalize(o.Arc.Direction.Sign() * (deg - o.Arc.Start))
}

// Contains reports whether deg lies on the arc path.
func (o *Overlay) Contains(deg float64) bool {
	if o.Arc.Span >= 360 {
		return true
	}
	off := o.offset(deg)
	if off <= o.Arc.Span+cellTolerance/2 {
		return true
	}
	// Just behind the start.
	return off >= 360-cellTolerance/2
}

// Traversed reports whether deg lies on the part of the arc already covered.
func (o *Overlay) Traversed(deg float64) bool {
	if !o.Contains(deg) {
		return false
	}
	done := o.offset(o.Current)
	if o.Arc.Span >= 360 && done == 0 && !o.Moving {
		return false
	}
	off := o.offset(deg)
	if off >= 360-cellTolerance/2 {
		return false
	}
	return off <= done
}

// Intensity returns the highlight level [0, 1] for deg: 1 for covered path,
// 0.5 for path still ahead, 0 off the arc.
func (o *Overlay) Intensity(deg float64) float64 {
	switch {
	case o.Traversed(deg):
		return 1
	case o.Contains(deg):
		return 0.5
	default:
		return 0
	}
}
