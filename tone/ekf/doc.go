// Package ekf implements a dual-tone Extended Kalman Filter tracker.
//
// The filter jointly estimates phase, angular frequency and (optionally)
// amplitude of two closely-spaced tones from a complex baseband
// observation
//
//	y = A1*exp(i*phi1) + A2*exp(i*phi2)
//
// over the six-element state [phi1, w1, phi2, w2, A1, A2]. The state
// transition is linear (phase advances by w*dt, frequency and amplitude
// are random walks); the observation is nonlinear and is relinearized at
// every step. The partial derivatives with respect to angular frequency
// are exactly zero: frequency affects the observation only through the
// next phase prediction.
//
// A soft minimum-separation constraint keeps the two frequency estimates
// from collapsing onto each other; when it fires, the frequency variance
// entries of the covariance are inflated to signal reduced confidence.
//
// The covariance update uses the simplified (I-KH)P form rather than the
// numerically more robust Joseph form. Drift toward asymmetry is an
// accepted precision trade-off for this filter's conditioning.
package ekf
