package pll

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-track/tone"
	"github.com/cwbudde/algo-track/tone/separation"
)

// Errors returned by the PLL tracker.
var (
	ErrInvalidSampleRate    = errors.New("pll: sample rate must be positive")
	ErrInvalidLoopBandwidth = errors.New("pll: loop bandwidth must be positive")
	ErrInvalidDamping       = errors.New("pll: damping factor must be positive")
	ErrEmptyInput           = errors.New("pll: sample sequence is empty")
)

const (
	amplitudeFloor = 0.1
	twoPi          = 2 * math.Pi
)

// Tracker runs the dual PLL over complex baseband sample sequences.
// A Tracker is immutable after construction; each run owns its own state
// and history, so concurrent calls are safe.
type Tracker struct {
	cfg    Config
	g1, g2 float64 // loop filter gains, derived once from bandwidth and damping
}

// NewTracker creates a Tracker, rejecting degenerate configuration before
// any processing begins.
func NewTracker(opts ...Option) (*Tracker, error) {
	cfg := ApplyOptions(opts...)

	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if cfg.LoopBandwidthHz <= 0 {
		return nil, ErrInvalidLoopBandwidth
	}

	if cfg.DampingFactor <= 0 {
		return nil, ErrInvalidDamping
	}

	theta := twoPi * cfg.LoopBandwidthHz / cfg.SampleRate
	d := 1 + 2*cfg.DampingFactor*theta + theta*theta

	return &Tracker{
		cfg: cfg,
		g1:  4 * cfg.DampingFactor * theta / d,
		g2:  4 * theta * theta / d,
	}, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// LoopGains returns the derived proportional and integral loop gains.
func (t *Tracker) LoopGains() (g1, g2 float64) {
	return t.g1, t.g2
}

// Track runs a cold start from two initial frequency guesses: zero initial
// phases and the configured nominal amplitudes.
func (t *Tracker) Track(samples []complex128, freq1InitHz, freq2InitHz float64) (*tone.Result, error) {
	return t.TrackFrom(samples, tone.Estimate{
		Freq1: freq1InitHz,
		Freq2: freq2InitHz,
		Amp1:  t.cfg.NominalAmp1,
		Amp2:  t.cfg.NominalAmp2,
	})
}

// TrackFrom runs the loop from a full warm-start estimate, typically the
// final state of an EKF acquisition run. The initial frequencies double as
// the static bias of each loop filter; the loop corrects around them.
//
//nolint:funlen
func (t *Tracker) TrackFrom(samples []complex128, init tone.Estimate) (*tone.Result, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(samples)
	cfg := t.cfg

	phase1 := init.Phase1
	phase2 := init.Phase2
	freq1 := init.Freq1
	freq2 := init.Freq2
	amp1 := init.Amp1
	amp2 := init.Amp2

	reg := separation.New(cfg.MinSeparationHz, cfg.SeparationWeight, init.Freq1, init.Freq2)

	hist := tone.NewHistory(n)
	hist.PhaseErr1 = make([]float64, 0, n)
	hist.PhaseErr2 = make([]float64, 0, n)
	hist.AppendState(tone.Estimate{
		Freq1: freq1, Freq2: freq2,
		Phase1: phase1, Phase2: phase2,
		Amp1: amp1, Amp2: amp2,
	})

	integral1 := 0.0
	integral2 := 0.0

	for _, sample := range samples {
		sin1, cos1 := math.Sincos(phase1)
		sin2, cos2 := math.Sincos(phase2)
		nco1 := complex(cos1, sin1)
		nco2 := complex(cos2, sin2)

		estimate := complex(amp1, 0)*nco1 + complex(amp2, 0)*nco2
		errC := sample - estimate

		hist.Err = append(hist.Err, cmplx.Abs(errC))

		// Derivative-of-cost phase detector per tone.
		phaseErr1 := real(cmplx.Conj(errC) * complex(0, amp1) * nco1)
		phaseErr2 := real(cmplx.Conj(errC) * complex(0, amp2) * nco2)

		hist.PhaseErr1 = append(hist.PhaseErr1, phaseErr1)
		hist.PhaseErr2 = append(hist.PhaseErr2, phaseErr2)

		// Separation constraint acts on the detector outputs here, not on
		// the frequencies themselves.
		force, dir := reg.Force(freq1, freq2)
		if force > 0 {
			phaseErr1 -= force * dir
			phaseErr2 += force * dir
			hist.Regularized++
		}

		// Second-order loop filter: static initial-frequency bias plus
		// proportional and integral corrections.
		integral1 += phaseErr1
		integral2 += phaseErr2
		freq1 = init.Freq1 + t.g1*phaseErr1 + t.g2*integral1
		freq2 = init.Freq2 + t.g1*phaseErr2 + t.g2*integral2

		phase1 = tone.WrapPhase(phase1 + twoPi*freq1/cfg.SampleRate)
		phase2 = tone.WrapPhase(phase2 + twoPi*freq2/cfg.SampleRate)

		if cfg.TrackAmplitude {
			// One gradient step on the squared-error cost with a pull
			// toward the nominal amplitudes.
			grad1 := -2*real(cmplx.Conj(errC)*nco1) + cfg.AmplitudeWeight*(amp1-cfg.NominalAmp1)
			grad2 := -2*real(cmplx.Conj(errC)*nco2) + cfg.AmplitudeWeight*(amp2-cfg.NominalAmp2)

			amp1 -= cfg.AmplitudeRate * grad1
			amp2 -= cfg.AmplitudeRate * grad2

			if amp1 < amplitudeFloor {
				amp1 = amplitudeFloor
				hist.AmplitudeFloored++
			}

			if amp2 < amplitudeFloor {
				amp2 = amplitudeFloor
				hist.AmplitudeFloored++
			}
		}

		hist.AppendState(tone.Estimate{
			Freq1: freq1, Freq2: freq2,
			Phase1: phase1, Phase2: phase2,
			Amp1: amp1, Amp2: amp2,
		})
	}

	return tone.Summarize(hist, n), nil
}
