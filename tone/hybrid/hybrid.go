package hybrid

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-track/tone"
	"github.com/cwbudde/algo-track/tone/ekf"
	"github.com/cwbudde/algo-track/tone/pll"
)

// Errors returned by the hybrid coordinator.
var (
	ErrInvalidSampleRate           = errors.New("hybrid: sample rate must be positive")
	ErrInvalidAcquisitionFraction  = errors.New("hybrid: acquisition fraction must be in (0, 1)")
	ErrInvalidConvergenceThreshold = errors.New("hybrid: convergence threshold must be positive")
	ErrEmptyInput                  = errors.New("hybrid: sample sequence is empty")
)

// Method identifies which estimator produced the final result.
type Method string

// Tracking methods.
const (
	MethodHybrid  Method = "hybrid-ekf-pll"
	MethodEKFOnly Method = "ekf-only"
)

// Handoff records the outcome of the acquisition-phase convergence test.
type Handoff struct {
	Sample          int  // index of the first PLL sample; -1 when not converged
	Converged       bool
	StdFreq1MilliHz float64 // frequency uncertainty at the end of acquisition
	StdFreq2MilliHz float64
	MeanInnovation  float64 // mean |innovation| over the checked window
}

// Result extends the tracking result with coordination diagnostics.
type Result struct {
	tone.Result
	Method  Method
	Handoff Handoff
}

// Tracker orchestrates EKF acquisition followed by PLL tracking.
// A Tracker is immutable after construction; concurrent Track calls are
// safe.
type Tracker struct {
	cfg Config
}

// NewTracker creates a Tracker, rejecting degenerate configuration before
// any processing begins.
func NewTracker(opts ...Option) (*Tracker, error) {
	cfg := ApplyOptions(opts...)

	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if cfg.AcquisitionFraction <= 0 || cfg.AcquisitionFraction >= 1 {
		return nil, ErrInvalidAcquisitionFraction
	}

	if cfg.ConvergenceThresholdMilliHz <= 0 {
		return nil, ErrInvalidConvergenceThreshold
	}

	return &Tracker{cfg: cfg}, nil
}

// Config returns the coordinator configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Track runs the acquisition-to-tracking state machine over the whole
// sample sequence.
func (t *Tracker) Track(samples []complex128, freq1InitHz, freq2InitHz float64) (*Result, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(samples)
	cfg := t.cfg

	acquirer, err := ekf.NewTracker(
		ekf.WithSampleRate(cfg.SampleRate),
		ekf.WithProcessNoise(cfg.AcquisitionNoise),
		ekf.WithMeasurementNoise(cfg.MeasurementNoise),
		ekf.WithAmplitudeTracking(cfg.TrackAmplitude),
		ekf.WithMinSeparation(cfg.MinSeparationHz),
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid: acquisition filter: %w", err)
	}

	handoff := Handoff{Sample: -1}
	acqSamples := int(cfg.AcquisitionFraction * float64(n))

	var acquired *tone.Result

	if acqSamples >= 1 {
		acquired, err = acquirer.Track(samples[:acqSamples], freq1InitHz, freq2InitHz)
		if err != nil {
			return nil, err
		}

		hist := acquired.History
		handoff.StdFreq1MilliHz = hist.StdFreq1[len(hist.StdFreq1)-1]
		handoff.StdFreq2MilliHz = hist.StdFreq2[len(hist.StdFreq2)-1]
		handoff.MeanInnovation = mean(hist.InnovationMagnitudes(cfg.InnovationWindow))

		handoff.Converged = handoff.StdFreq1MilliHz < cfg.ConvergenceThresholdMilliHz &&
			handoff.StdFreq2MilliHz < cfg.ConvergenceThresholdMilliHz &&
			handoff.MeanInnovation < cfg.InnovationThreshold
	}

	if handoff.Converged && acqSamples < n {
		tracker, err := pll.NewTracker(
			pll.WithSampleRate(cfg.SampleRate),
			pll.WithLoopBandwidth(cfg.TrackingLoopBandwidthHz),
			pll.WithAmplitudeTracking(cfg.TrackAmplitude),
			pll.WithMinSeparation(cfg.MinSeparationHz),
		)
		if err != nil {
			return nil, fmt.Errorf("hybrid: tracking loop: %w", err)
		}

		tracked, err := tracker.TrackFrom(samples[acqSamples:], acquired.History.Final())
		if err != nil {
			return nil, err
		}

		handoff.Sample = acqSamples

		combined := *tracked
		combined.History = combineHistories(acquired.History, tracked.History)

		return &Result{Result: combined, Method: MethodHybrid, Handoff: handoff}, nil
	}

	// No convergence (or nothing left to track): re-run the EKF over the
	// entire sequence from the same initial guesses rather than continuing
	// the partial run.
	handoff.Sample = -1
	handoff.Converged = false

	full, err := acquirer.Track(samples, freq1InitHz, freq2InitHz)
	if err != nil {
		return nil, err
	}

	return &Result{Result: *full, Method: MethodEKFOnly, Handoff: handoff}, nil
}

// combineHistories stitches the acquisition and tracking segments into one
// history of exactly n+1 state entries. The PLL seed entry duplicates the
// handoff state and is dropped; EKF-only series (innovations,
// uncertainties) keep their acquisition-segment length, PLL-only series
// their tracking-segment length.
func combineHistories(acq, trk *tone.History) *tone.History {
	return &tone.History{
		Freq1:      concat(acq.Freq1, trk.Freq1[1:]),
		Freq2:      concat(acq.Freq2, trk.Freq2[1:]),
		Phase1:     concat(acq.Phase1, trk.Phase1[1:]),
		Phase2:     concat(acq.Phase2, trk.Phase2[1:]),
		Amp1:       concat(acq.Amp1, trk.Amp1[1:]),
		Amp2:       concat(acq.Amp2, trk.Amp2[1:]),
		Separation: concat(acq.Separation, trk.Separation[1:]),
		Err:        concat(acq.Err, trk.Err),
		InnovRe:    acq.InnovRe,
		InnovIm:    acq.InnovIm,
		StdFreq1:   acq.StdFreq1,
		StdFreq2:   acq.StdFreq2,
		PhaseErr1:  trk.PhaseErr1,
		PhaseErr2:  trk.PhaseErr2,

		Regularized:      acq.Regularized + trk.Regularized,
		AmplitudeFloored: acq.AmplitudeFloored + trk.AmplitudeFloored,
	}
}

func concat(a, b []float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range xs {
		sum += v
	}

	return sum / float64(len(xs))
}
