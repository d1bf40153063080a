package tone

import (
	"github.com/cwbudde/algo-vecmath"
)

// History is the append-only per-sample log of a single tracking run.
//
// State-like series (frequencies, phases, amplitudes, separation,
// uncertainties) carry one seed entry for the initial conditions followed
// by one entry per processed sample. Residual series (Err, InnovRe/InnovIm,
// PhaseErr1/PhaseErr2) carry exactly one entry per sample.
//
// InnovRe, InnovIm, StdFreq1 and StdFreq2 are populated by the EKF only;
// PhaseErr1 and PhaseErr2 by the PLL only. A combined hybrid history keeps
// the EKF-only series at their acquisition-segment length.
type History struct {
	Freq1      []float64 // Hz
	Freq2      []float64 // Hz
	Phase1     []float64 // rad, wrapped to (-pi, pi]
	Phase2     []float64 // rad, wrapped to (-pi, pi]
	Amp1       []float64
	Amp2       []float64
	Separation []float64 // |Freq2 - Freq1|, Hz

	Err      []float64 // residual magnitude per sample
	InnovRe  []float64 // innovation real part (EKF)
	InnovIm  []float64 // innovation imaginary part (EKF)
	StdFreq1 []float64 // frequency uncertainty, mHz (EKF)
	StdFreq2 []float64 // frequency uncertainty, mHz (EKF)

	PhaseErr1 []float64 // phase detector output (PLL)
	PhaseErr2 []float64 // phase detector output (PLL)

	// Safeguard activity, for filter tuning diagnostics.
	Regularized      int // separation regularizer firings
	AmplitudeFloored int // amplitude floor clamps
}

// NewHistory returns a History with capacity for n samples plus the seed
// entry.
func NewHistory(n int) *History {
	return &History{
		Freq1:      make([]float64, 0, n+1),
		Freq2:      make([]float64, 0, n+1),
		Phase1:     make([]float64, 0, n+1),
		Phase2:     make([]float64, 0, n+1),
		Amp1:       make([]float64, 0, n+1),
		Amp2:       make([]float64, 0, n+1),
		Separation: make([]float64, 0, n+1),
		Err:        make([]float64, 0, n),
	}
}

// Len returns the number of state entries (processed samples plus seed).
func (h *History) Len() int {
	return len(h.Freq1)
}

// Final returns the most recent state entry as an Estimate.
func (h *History) Final() Estimate {
	i := len(h.Freq1) - 1
	if i < 0 {
		return Estimate{}
	}

	return Estimate{
		Freq1:  h.Freq1[i],
		Freq2:  h.Freq2[i],
		Phase1: h.Phase1[i],
		Phase2: h.Phase2[i],
		Amp1:   h.Amp1[i],
		Amp2:   h.Amp2[i],
	}
}

// AppendState records one state entry.
func (h *History) AppendState(e Estimate) {
	h.Freq1 = append(h.Freq1, e.Freq1)
	h.Freq2 = append(h.Freq2, e.Freq2)
	h.Phase1 = append(h.Phase1, e.Phase1)
	h.Phase2 = append(h.Phase2, e.Phase2)
	h.Amp1 = append(h.Amp1, e.Amp1)
	h.Amp2 = append(h.Amp2, e.Amp2)

	sep := e.Freq2 - e.Freq1
	if sep < 0 {
		sep = -sep
	}

	h.Separation = append(h.Separation, sep)
}

// InnovationMagnitudes computes |innovation| for the last tail recorded
// innovations. A tail of zero or more than the recorded count means all of
// them. Returns nil when no innovations have been recorded.
func (h *History) InnovationMagnitudes(tail int) []float64 {
	n := len(h.InnovRe)
	if tail <= 0 || tail > n {
		tail = n
	}

	if tail == 0 {
		return nil
	}

	out := make([]float64, tail)
	vecmath.Magnitude(out, h.InnovRe[n-tail:], h.InnovIm[n-tail:])

	return out
}
