// Package hybrid coordinates EKF acquisition with PLL tracking.
//
// The EKF converges quickly from a poor initial guess but is noisier in
// steady state; the PLL is the opposite. The coordinator runs the EKF with
// elevated process noise over a leading fraction of the input, then tests
// convergence from the filter's own uncertainty estimate (per-tone
// frequency standard deviation in mHz) and the magnitude of its recent
// innovations. On convergence the EKF's final phase, frequency and
// amplitude estimates seed a tighter-bandwidth PLL for the remaining
// samples; otherwise the EKF is re-run from scratch over the entire
// sequence and reported as EKF-only.
//
// Non-convergence is a first-class result, not an error. The combined
// history of a converged run stitches the EKF and PLL segments together
// and always holds exactly one seed entry plus one entry per input sample.
package hybrid
