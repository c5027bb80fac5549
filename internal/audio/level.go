package audio

import "math"

// DistanceVolume maps listener-source distance to a linear gain in [0, 1].
// Gain falls off linearly and reaches silence at falloff units.
func DistanceVolume(distance, falloff float64) float64 {
	if !(falloff > 0) {
		return 0
	}
	return clamp(1-distance/falloff, 0, 1)
}

// PanForAzimuth converts an azimuth (90 = right, 270 = left) to a stereo pan in [-1, 1].
func PanForAzimuth(azimuth float64) float64 {
	return clamp(math.Sin(azimuth*math.Pi/180), -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
