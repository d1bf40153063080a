package tone

import "math"

// WrapPhase wraps a phase angle into (-pi, pi].
func WrapPhase(phi float64) float64 {
	return math.Atan2(math.Sin(phi), math.Cos(phi))
}

// Estimate is a snapshot of the tracked parameters of both tones.
// It seeds warm starts (the EKF to PLL handoff) and reports per-tone
// results.
type Estimate struct {
	Freq1  float64 // Hz
	Freq2  float64 // Hz
	Phase1 float64 // radians, wrapped to (-pi, pi]
	Phase2 float64 // radians, wrapped to (-pi, pi]
	Amp1   float64
	Amp2   float64
}

// Beat returns the frequency difference between the two tones in Hz.
func (e Estimate) Beat() float64 {
	return e.Freq2 - e.Freq1
}
