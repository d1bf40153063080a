// Package pll implements a dual second-order phase-locked loop tracker.
//
// Two numerically-controlled oscillators follow the two tones; the complex
// error between the observed sample and the reconstructed two-tone
// estimate drives a derivative-of-cost phase detector per tone, and each
// detector output is integrated through a proportional-plus-integral loop
// filter whose gains are derived once from loop bandwidth and damping.
// Uncertainty is not modeled; the loop-filtered phase error takes the
// place of the EKF's covariance machinery, which makes the PLL noisier to
// acquire with but quieter in steady state.
//
// The same soft minimum-separation policy used by the EKF is applied here
// directly to the phase detector outputs, pushing them apart whenever the
// two frequency estimates drift too close.
//
// Amplitudes, when tracked, follow one gradient step per sample on the
// squared-error cost with a regularizing pull toward their nominal
// targets, floored at 0.1.
package pll
