// Package separation implements the soft minimum-separation constraint
// shared by the dual-tone trackers.
//
// Dual-tone estimators have a natural failure mode: the two frequency
// estimates collapse onto each other, after which the observation model
// can no longer tell the tones apart. The Regularizer discourages that
// collapse with a force proportional to how far below the configured
// minimum the current separation sits. It is a soft barrier, never a hard
// clamp: it does not enforce an exact minimum gap.
package separation

import "math"

// Regularizer pushes two frequency-like quantities apart whenever their
// separation falls below a configured minimum.
//
// The unit of the minimum separation is the caller's: the EKF applies the
// regularizer to angular frequencies in rad/s, the PLL to its phase
// detector outputs with a minimum separation in Hz.
type Regularizer struct {
	minSeparation float64
	weight        float64
	tieSign       float64
	activations   int
}

// New creates a Regularizer. initial1 and initial2 are the initial
// frequency guesses; their ordering breaks the tie when the two tracked
// values are exactly equal, keeping the push direction stable at the
// singular point.
func New(minSeparation, weight, initial1, initial2 float64) *Regularizer {
	return &Regularizer{
		minSeparation: minSeparation,
		weight:        weight,
		tieSign:       sign(initial2 - initial1),
	}
}

// MinSeparation returns the configured minimum separation.
func (r *Regularizer) MinSeparation() float64 {
	return r.minSeparation
}

// Force returns the regularization force and push direction for the
// current pair. The force is zero when the separation is at least the
// configured minimum and grows linearly to the configured weight as the
// separation shrinks to zero. The direction is the sign of f2-f1, falling
// back to the initial ordering when the two are exactly equal.
func (r *Regularizer) Force(f1, f2 float64) (force, dir float64) {
	if r.minSeparation <= 0 {
		return 0, 0
	}

	sep := math.Abs(f2 - f1)
	if sep >= r.minSeparation {
		return 0, 0
	}

	s := sign(f2 - f1)
	if s == 0 {
		s = r.tieSign
	}

	r.activations++

	return r.weight * (r.minSeparation - sep) / r.minSeparation, s
}

// Separate applies the symmetric push to the pair, preserving their
// midpoint, and reports the force that was applied. A pair that is already
// separated is returned unchanged with zero force.
func (r *Regularizer) Separate(f1, f2 float64) (out1, out2, force float64) {
	force, dir := r.Force(f1, f2)
	if force == 0 {
		return f1, f2, 0
	}

	push := force * r.minSeparation * dir / 2

	return f1 - push, f2 + push, force
}

// Activations returns how often the constraint has fired since creation.
func (r *Regularizer) Activations() int {
	return r.activations
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}

	return 0
}
