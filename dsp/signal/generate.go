// Package signal generates deterministic complex baseband test signals.
package signal

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/cwbudde/algo-track/dsp/core"
)

// Generator creates deterministic complex baseband signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with
// signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Tone generates a complex exponential amplitude*exp(i*(2*pi*freqHz*t + phase)).
func (g *Generator) Tone(freqHz, amplitude, phase float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("tone samples must be > 0: %d", samples)
	}

	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("tone sample rate must be > 0: %f", g.cfg.SampleRate)
	}

	out := make([]complex128, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate

	for i := range out {
		out[i] = cmplx.Rect(amplitude, step*float64(i)+phase)
	}

	return out, nil
}

// TwoTone generates the sum of two complex exponentials starting at zero
// phase, the canonical two-tone beat signal.
func (g *Generator) TwoTone(freq1Hz, amp1, freq2Hz, amp2 float64, samples int) ([]complex128, error) {
	s1, err := g.Tone(freq1Hz, amp1, 0, samples)
	if err != nil {
		return nil, err
	}

	s2, err := g.Tone(freq2Hz, amp2, 0, samples)
	if err != nil {
		return nil, err
	}

	for i := range s1 {
		s1[i] += s2[i]
	}

	return s1, nil
}

// ComplexNoise generates deterministic circular complex white noise with
// the given standard deviation per complex sample.
func (g *Generator) ComplexNoise(sigma float64, samples int) ([]complex128, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if sigma < 0 {
		return nil, fmt.Errorf("noise sigma must be >= 0: %f", sigma)
	}

	rng := rand.New(rand.NewSource(g.seed))
	scale := sigma / math.Sqrt2
	out := make([]complex128, samples)

	for i := range out {
		out[i] = complex(rng.NormFloat64()*scale, rng.NormFloat64()*scale)
	}

	return out, nil
}

// Add sums two equal-length signals into a new slice.
func Add(a, b []complex128) ([]complex128, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("add length mismatch: %d vs %d", len(a), len(b))
	}

	out := make([]complex128, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}

	return out, nil
}
