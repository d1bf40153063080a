package ekf

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-track/tone"
	"github.com/cwbudde/algo-track/tone/separation"
)

// Errors returned by the EKF tracker.
var (
	ErrInvalidSampleRate       = errors.New("ekf: sample rate must be positive")
	ErrInvalidMeasurementNoise = errors.New("ekf: measurement noise must be positive")
	ErrEmptyInput              = errors.New("ekf: sample sequence is empty")
)

const (
	stateDim       = 6
	amplitudeFloor = 0.1
	twoPi          = 2 * math.Pi
)

// State vector layout: [phi1, w1, phi2, w2, A1, A2].
const (
	idxPhase1 = 0
	idxFreq1  = 1
	idxPhase2 = 2
	idxFreq2  = 3
	idxAmp1   = 4
	idxAmp2   = 5
)

// Tracker runs the dual-tone EKF over complex baseband sample sequences.
// A Tracker is immutable after construction; each Track call owns its own
// state, covariance and history, so concurrent calls are safe.
type Tracker struct {
	cfg Config
	dt  float64
}

// NewTracker creates a Tracker, rejecting degenerate configuration before
// any filtering begins.
func NewTracker(opts ...Option) (*Tracker, error) {
	cfg := ApplyOptions(opts...)

	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if cfg.MeasurementNoise <= 0 {
		return nil, ErrInvalidMeasurementNoise
	}

	return &Tracker{cfg: cfg, dt: 1 / cfg.SampleRate}, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Track consumes the whole sample sequence and returns the converged
// estimates together with the per-sample history. freq1InitHz and
// freq2InitHz are the rough initial frequency guesses; initial phases are
// zero.
//
//nolint:funlen
func (t *Tracker) Track(samples []complex128, freq1InitHz, freq2InitHz float64) (*tone.Result, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(samples)
	cfg := t.cfg

	// Linear, block-diagonal transition: phase advances by w*dt,
	// frequency and amplitude are constant plus process noise.
	F := mat.NewDense(stateDim, stateDim, nil)
	for i := range stateDim {
		F.Set(i, i, 1)
	}

	F.Set(idxPhase1, idxFreq1, t.dt)
	F.Set(idxPhase2, idxFreq2, t.dt)

	pn := cfg.ProcessNoise
	Q := diagonal([stateDim]float64{
		pn.SigmaPhase * pn.SigmaPhase,
		pn.SigmaFreq * pn.SigmaFreq,
		pn.SigmaPhase * pn.SigmaPhase,
		pn.SigmaFreq * pn.SigmaFreq,
		pn.SigmaAmp * pn.SigmaAmp,
		pn.SigmaAmp * pn.SigmaAmp,
	})
	P := diagonal(cfg.InitialCovariance)

	x := mat.NewVecDense(stateDim, []float64{
		0, twoPi * freq1InitHz,
		0, twoPi * freq2InitHz,
		cfg.InitialAmp1, cfg.InitialAmp2,
	})

	// The constraint operates on angular frequencies.
	reg := separation.New(twoPi*cfg.MinSeparationHz, cfg.SeparationWeight,
		twoPi*freq1InitHz, twoPi*freq2InitHz)

	hist := tone.NewHistory(n)
	hist.InnovRe = make([]float64, 0, n)
	hist.InnovIm = make([]float64, 0, n)
	hist.StdFreq1 = make([]float64, 0, n+1)
	hist.StdFreq2 = make([]float64, 0, n+1)
	appendState(hist, x, P)

	eye := diagonal([stateDim]float64{1, 1, 1, 1, 1, 1})
	H := mat.NewDense(2, stateDim, nil)
	innov := mat.NewVecDense(2, nil)

	var (
		xPred, corr                      mat.VecDense
		fp, pTmp, hp, s, pht, k, kh, ikh mat.Dense
	)

	for _, y := range samples {
		// Predict.
		xPred.MulVec(F, x)
		x.CopyVec(&xPred)
		fp.Mul(F, P)
		pTmp.Mul(&fp, F.T())
		pTmp.Add(&pTmp, Q)
		P.Copy(&pTmp)

		x.SetVec(idxPhase1, tone.WrapPhase(x.AtVec(idxPhase1)))
		x.SetVec(idxPhase2, tone.WrapPhase(x.AtVec(idxPhase2)))

		phi1 := x.AtVec(idxPhase1)
		phi2 := x.AtVec(idxPhase2)
		amp1 := x.AtVec(idxAmp1)
		amp2 := x.AtVec(idxAmp2)

		sin1, cos1 := math.Sincos(phi1)
		sin2, cos2 := math.Sincos(phi2)

		// Predicted observation y = A1*e^{i*phi1} + A2*e^{i*phi2}.
		predRe := amp1*cos1 + amp2*cos2
		predIm := amp1*sin1 + amp2*sin2

		// Jacobian of (Re y, Im y) at the predicted state. The angular
		// frequency partials are exactly zero: frequency reaches the
		// observation only through the next phase prediction.
		H.Set(0, idxPhase1, -amp1*sin1)
		H.Set(1, idxPhase1, amp1*cos1)
		H.Set(0, idxPhase2, -amp2*sin2)
		H.Set(1, idxPhase2, amp2*cos2)

		if cfg.TrackAmplitude {
			H.Set(0, idxAmp1, cos1)
			H.Set(1, idxAmp1, sin1)
			H.Set(0, idxAmp2, cos2)
			H.Set(1, idxAmp2, sin2)
		}

		innovRe := real(y) - predRe
		innovIm := imag(y) - predIm
		innov.SetVec(0, innovRe)
		innov.SetVec(1, innovIm)

		// S = H P Hᵀ + R I₂, inverted explicitly.
		hp.Mul(H, P)
		s.Mul(&hp, H.T())

		s00 := s.At(0, 0) + cfg.MeasurementNoise
		s01 := s.At(0, 1)
		s10 := s.At(1, 0)
		s11 := s.At(1, 1) + cfg.MeasurementNoise

		det := s00*s11 - s01*s10
		if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
			return nil, fmt.Errorf("ekf: singular innovation covariance (det=%v)", det)
		}

		sInv := mat.NewDense(2, 2, []float64{s11 / det, -s01 / det, -s10 / det, s00 / det})

		// K = P Hᵀ S⁻¹.
		pht.Mul(P, H.T())
		k.Mul(&pht, sInv)

		corr.MulVec(&k, innov)
		x.AddVec(x, &corr)

		x.SetVec(idxPhase1, tone.WrapPhase(x.AtVec(idxPhase1)))
		x.SetVec(idxPhase2, tone.WrapPhase(x.AtVec(idxPhase2)))

		// Soft separation constraint on the updated angular frequencies,
		// before the covariance update. Inflated frequency variances
		// record the reduced confidence while the constraint is active.
		w1, w2, force := reg.Separate(x.AtVec(idxFreq1), x.AtVec(idxFreq2))
		if force > 0 {
			x.SetVec(idxFreq1, w1)
			x.SetVec(idxFreq2, w2)
			P.Set(idxFreq1, idxFreq1, P.At(idxFreq1, idxFreq1)*(1+force))
			P.Set(idxFreq2, idxFreq2, P.At(idxFreq2, idxFreq2)*(1+force))
			hist.Regularized++
		}

		// Simplified covariance update, not Joseph form.
		kh.Mul(&k, H)
		ikh.Sub(eye, &kh)
		pTmp.Mul(&ikh, P)
		P.Copy(&pTmp)

		if cfg.TrackAmplitude {
			if x.AtVec(idxAmp1) < amplitudeFloor {
				x.SetVec(idxAmp1, amplitudeFloor)
				hist.AmplitudeFloored++
			}

			if x.AtVec(idxAmp2) < amplitudeFloor {
				x.SetVec(idxAmp2, amplitudeFloor)
				hist.AmplitudeFloored++
			}
		}

		hist.Err = append(hist.Err, math.Hypot(innovRe, innovIm))
		hist.InnovRe = append(hist.InnovRe, innovRe)
		hist.InnovIm = append(hist.InnovIm, innovIm)
		appendState(hist, x, P)
	}

	return tone.Summarize(hist, n), nil
}

func appendState(hist *tone.History, x *mat.VecDense, p *mat.Dense) {
	hist.AppendState(tone.Estimate{
		Freq1:  x.AtVec(idxFreq1) / twoPi,
		Freq2:  x.AtVec(idxFreq2) / twoPi,
		Phase1: x.AtVec(idxPhase1),
		Phase2: x.AtVec(idxPhase2),
		Amp1:   x.AtVec(idxAmp1),
		Amp2:   x.AtVec(idxAmp2),
	})

	hist.StdFreq1 = append(hist.StdFreq1, stdMilliHz(p.At(idxFreq1, idxFreq1)))
	hist.StdFreq2 = append(hist.StdFreq2, stdMilliHz(p.At(idxFreq2, idxFreq2)))
}

// stdMilliHz converts an angular-frequency variance in rad²/s² to a
// standard deviation in mHz.
func stdMilliHz(variance float64) float64 {
	if variance <= 0 {
		return 0
	}

	return math.Sqrt(variance) / twoPi * 1000
}

func diagonal(values [stateDim]float64) *mat.Dense {
	m := mat.NewDense(stateDim, stateDim, nil)
	for i, v := range values {
		m.Set(i, i, v)
	}

	return m
}
