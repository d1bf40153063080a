package pll

import "github.com/cwbudde/algo-track/dsp/core"

// Config defines PLL tracker settings.
type Config struct {
	core.ProcessorConfig
	LoopBandwidthHz  float64 // loop filter bandwidth, must be > 0
	DampingFactor    float64 // loop damping, must be > 0
	TrackAmplitude   bool
	MinSeparationHz  float64
	SeparationWeight float64
	AmplitudeRate    float64 // gradient step size for amplitude updates
	AmplitudeWeight  float64 // regularizing pull toward the nominal amplitudes
	NominalAmp1      float64
	NominalAmp2      float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the cold-start tuning. A tracker seeded from an
// already-converged estimate should use a tighter loop bandwidth (see
// WithLoopBandwidth).
func DefaultConfig() Config {
	return Config{
		ProcessorConfig:  core.DefaultProcessorConfig(),
		LoopBandwidthHz:  0.5,
		DampingFactor:    1.0,
		TrackAmplitude:   true,
		MinSeparationHz:  0.003,
		SeparationWeight: 0.1,
		AmplitudeRate:    0.01,
		AmplitudeWeight:  0.1,
		NominalAmp1:      1.0,
		NominalAmp2:      0.7,
	}
}

// WithSampleRate sets the baseband sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		cfg.SampleRate = sampleRate
	}
}

// WithLoopBandwidth sets the loop filter bandwidth in Hz.
func WithLoopBandwidth(hz float64) Option {
	return func(cfg *Config) {
		cfg.LoopBandwidthHz = hz
	}
}

// WithDampingFactor sets the loop damping factor.
func WithDampingFactor(damping float64) Option {
	return func(cfg *Config) {
		cfg.DampingFactor = damping
	}
}

// WithAmplitudeTracking enables or disables amplitude estimation.
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

// WithNominalAmplitudes sets the amplitude regularization targets.
func WithNominalAmplitudes(amp1, amp2 float64) Option {
	return func(cfg *Config) {
		cfg.NominalAmp1 = amp1
		cfg.NominalAmp2 = amp2
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
