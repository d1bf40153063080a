package hybrid

import (
	"github.com/cwbudde/algo-track/dsp/core"
	"github.com/cwbudde/algo-track/tone/ekf"
)

// Config defines hybrid coordinator settings.
type Config struct {
	core.ProcessorConfig
	AcquisitionFraction         float64 // leading fraction of samples given to the EKF, in (0,1)
	ConvergenceThresholdMilliHz float64 // per-tone frequency uncertainty bound
	InnovationThreshold         float64 // mean |innovation| bound over the checked window
	InnovationWindow            int     // samples checked at the end of acquisition
	TrackAmplitude              bool
	MinSeparationHz             float64
	MeasurementNoise            float64          // EKF measurement noise variance
	AcquisitionNoise            ekf.ProcessNoise // elevated process noise for fast acquisition
	TrackingLoopBandwidthHz     float64          // PLL bandwidth after handoff
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the reference coordination tuning: 20% EKF
// acquisition with elevated frequency/amplitude process noise, 1 mHz
// convergence threshold, and a 0.2 Hz tracking loop.
func DefaultConfig() Config {
	return Config{
		ProcessorConfig:             core.DefaultProcessorConfig(),
		AcquisitionFraction:         0.2,
		ConvergenceThresholdMilliHz: 1.0,
		InnovationThreshold:         0.05,
		InnovationWindow:            50,
		TrackAmplitude:              true,
		MinSeparationHz:             0.003,
		MeasurementNoise:            1e-4,
		AcquisitionNoise:            ekf.ProcessNoise{SigmaPhase: 1e-6, SigmaFreq: 5e-3, SigmaAmp: 1e-3},
		TrackingLoopBandwidthHz:     0.2,
	}
}

// WithSampleRate sets the baseband sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		cfg.SampleRate = sampleRate
	}
}

// WithAcquisitionFraction sets the leading fraction of samples processed
// by the EKF before the convergence test.
func WithAcquisitionFraction(fraction float64) Option {
	return func(cfg *Config) {
		cfg.AcquisitionFraction = fraction
	}
}

// WithConvergenceThreshold sets the per-tone frequency uncertainty bound
// in mHz that both tones must satisfy at handoff.
func WithConvergenceThreshold(milliHz float64) Option {
	return func(cfg *Config) {
		cfg.ConvergenceThresholdMilliHz = milliHz
	}
}

// WithAmplitudeTracking enables or disables amplitude estimation in both
// phases.
func WithAmplitudeTracking(enabled bool) Option {
	return func(cfg *Config) {
		cfg.TrackAmplitude = enabled
	}
}

// WithMinSeparation sets the minimum frequency separation in Hz used by
// both phases.
func WithMinSeparation(hz float64) Option {
	return func(cfg *Config) {
		cfg.MinSeparationHz = hz
	}
}

// WithTrackingLoopBandwidth sets the PLL loop bandwidth used after a
// converged handoff.
func WithTrackingLoopBandwidth(hz float64) Option {
	return func(cfg *Config) {
		cfg.TrackingLoopBandwidthHz = hz
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
