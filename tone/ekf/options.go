package ekf

import "github.com/cwbudde/algo-track/dsp/core"

// ProcessNoise holds per-group process noise standard deviations for the
// random-walk state model.
type ProcessNoise struct {
	SigmaPhase float64 // rad
	SigmaFreq  float64 // rad/s
	SigmaAmp   float64
}

// Config defines EKF tracker settings.
type Config struct {
	core.ProcessorConfig
	ProcessNoise      ProcessNoise
	MeasurementNoise  float64    // variance of each observation component, must be > 0
	InitialCovariance [6]float64 // P0 diagonal in state order [phi1, w1, phi2, w2, A1, A2]
	InitialAmp1       float64
	InitialAmp2       float64
	TrackAmplitude    bool
	MinSeparationHz   float64
	SeparationWeight  float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the reference tuning for millihertz-scale beat
// tracking at 960 Hz baseband.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig:   core.DefaultProcessorConfig(),
		ProcessNoise:      ProcessNoise{SigmaPhase: 1e-6, SigmaFreq: 1e-3, SigmaAmp: 1e-4},
		MeasurementNoise:  1e-4,
		InitialCovariance: [6]float64{0.1, 0.1, 0.1, 0.1, 0.01, 0.01},
		InitialAmp1:       1.0,
		InitialAmp2:       0.7,
		TrackAmplitude:    true,
		MinSeparationHz:   0.003,
		SeparationWeight:  0.01,
	}
}

// WithSampleRate sets the baseband sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		cfg.SampleRate = sampleRate
	}
}

// WithProcessNoise sets the process noise standard deviations.
func WithProcessNoise(pn ProcessNoise) Option {
	return func(cfg *Config) {
		cfg.ProcessNoise = pn
	}
}

// WithMeasurementNoise sets the per-component measurement noise variance.
func WithMeasurementNoise(variance float64) Option {
	return func(cfg *Config) {
		cfg.MeasurementNoise = variance
	}
}

// WithInitialCovariance sets the initial covariance diagonal.
func WithInitialCovariance(diag [6]float64) Option {
	return func(cfg *Config) {
		cfg.InitialCovariance = diag
	}
}

// WithInitialAmplitudes sets the initial amplitude estimates.
func WithInitialAmplitudes(amp1, amp2 float64) Option {
	return func(cfg *Config) {
		cfg.InitialAmp1 = amp1
		cfg.InitialAmp2 = amp2
	}
}

// WithAmplitudeTracking enables or disables amplitude estimation. When
// disabled the amplitude columns of the Jacobian are zeroed, freezing both
// amplitude states at their initial values.
func WithAmplitudeTracking(enabled bool) Option {
	return func(cfg *Config) {
		cfg.TrackAmplitude = enabled
	}
}

// WithMinSeparation sets the minimum frequency separation in Hz below
// which the separation constraint engages.
func WithMinSeparation(hz float64) Option {
	return func(cfg *Config) {
		cfg.MinSeparationHz = hz
	}
}

// WithSeparationWeight sets the separation constraint weight.
func WithSeparationWeight(weight float64) Option {
	return func(cfg *Config) {
		cfg.SeparationWeight = weight
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
