// Package spectrum provides magnitude-spectrum analysis of complex
// baseband blocks.
//
// Unlike a real-input analyzer, a complex baseband block carries distinct
// positive and negative frequencies, so the full FFT is kept and bin
// frequencies are mapped into [-sampleRate/2, sampleRate/2).
package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Magnitude computes the magnitude spectrum of a complex baseband block.
// The input is zero-padded to the next power of two; the output has one
// entry per FFT bin in natural (unshifted) order.
func Magnitude(input []complex128) ([]float64, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("spectrum: input must not be empty")
	}

	n := nextPowerOf2(len(input))

	padded := make([]complex128, n)
	copy(padded, input)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	out := make([]complex128, n)

	err = plan.Forward(out, padded)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft forward: %w", err)
	}

	re := make([]float64, n)
	im := make([]float64, n)

	for i, c := range out {
		re[i] = real(c)
		im[i] = imag(c)
	}

	mag := make([]float64, n)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// BinFrequency returns the frequency in Hz of bin i of an n-point complex
// FFT, mapped into [-sampleRate/2, sampleRate/2).
func BinFrequency(i, n int, sampleRate float64) float64 {
	if n <= 0 {
		return 0
	}

	if i >= n/2+n%2 {
		i -= n
	}

	return float64(i) * sampleRate / float64(n)
}

// PeakFrequency returns the frequency of the largest-magnitude bin.
func PeakFrequency(input []complex128, sampleRate float64) (float64, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	mag, err := Magnitude(input)
	if err != nil {
		return 0, err
	}

	peakBin := 0
	peakVal := mag[0]

	for i, v := range mag {
		if v > peakVal {
			peakVal = v
			peakBin = i
		}
	}

	return BinFrequency(peakBin, len(mag), sampleRate), nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
