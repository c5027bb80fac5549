// Package pose receives arm keypoints from an external tracking process.
package pose

import (
	"encoding/json"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"arc-sound.klederson.com/internal/config"
)

// Keypoint is one landmark as sent by the tracker: named numeric coordinates.
type Keypoint map[string]float64

// Vec returns the x, y, z coordinates and whether all three were present.
func (k Keypoint) Vec() (r3.Vec, bool) {
	x, okX := k["x"]
	y, okY := k["y"]
	z, okZ := k["z"]
	return r3.Vec{X: x, Y: y, Z: z}, okX && okY && okZ
}

// Arm is the right arm taken from one keypoint frame.
type Arm struct {
	Shoulder r3.Vec
	Elbow    r3.Vec
	Wrist    r3.Vec
	Received time.Time
}

// ElbowAngle returns the angle at the elbow between upper arm and forearm, in degrees.
// A straight arm reads 180. Degenerate segments read 0.
func (a Arm) ElbowAngle() float64 {
	upper := r3.Sub(a.Shoulder, a.Elbow)
	fore := r3.Sub(a.Wrist, a.Elbow)
	nu, nf := r3.Norm(upper), r3.Norm(fore)
	if nu == 0 || nf == 0 {
		return 0
	}
	c := r3.Dot(upper, fore) / (nu * nf)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// Reach returns the shoulder to wrist distance.
func (a Arm) Reach() float64 {
	return r3.Norm(r3.Sub(a.Wrist, a.Shoulder))
}

// Decode parses a JSON array of keypoint objects.
func Decode(data []byte) ([]Keypoint, error) {
	var kps []Keypoint
	if err := json.Unmarshal(data, &kps); err != nil {
		return nil, &DecodeError{Reason: "invalid keypoint json", Index: -1, Cause: err}
	}
	if len(kps) == 0 {
		return nil, &DecodeError{Reason: "no keypoints", Index: -1, Cause: ErrEmptyFrame}
	}
	return kps, nil
}

// ArmFromKeypoints picks the shoulder, elbow and wrist landmarks.
func ArmFromKeypoints(kps []Keypoint) (Arm, error) {
	var arm Arm
	targets := []struct {
		index int
		dst   *r3.Vec
	}{
		{config.ShoulderIndex, &arm.Shoulder},
		{config.ElbowIndex, &arm.Elbow},
		{config.WristIndex, &arm.Wrist},
	}
	for _, t := range targets {
		if t.index >= len(kps) {
			return Arm{}, &DecodeError{Reason: "keypoint array too short", Index: t.index, Cause: ErrShortFrame}
		}
		v, ok := kps[t.index].Vec()
		if !ok {
			return Arm{}, &DecodeError{Reason: "keypoint missing x/y/z", Index: t.index, Cause: ErrMissingCoordinate}
		}
		*t.dst = v
	}
	return arm, nil
}

// ParseArm decodes one message and extracts the arm.
func ParseArm(data []byte) (Arm, error) {
	kps, err := Decode(data)
	if err != nil {
		return Arm{}, err
	}
	return ArmFromKeypoints(kps)
}
