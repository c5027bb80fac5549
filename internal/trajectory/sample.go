// Package trajectory records and exports the angle trajectory of a run.
package trajectory

// Sample is one recorded point: seconds since the run started and the angle in degrees.
type Sample struct {
	Time  float64 `json:"time"`
	Angle float64 `json:"angle"`
}

// Duration returns the elapsed time of the last sample, or 0 for an empty trajectory.
func Duration(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Time
}

// Clone returns an independent copy of samples.
func Clone(samples []Sample) []Sample {
	if samples == nil {
		return nil
	}
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}
