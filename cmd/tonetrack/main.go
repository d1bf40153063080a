// Command tonetrack runs a two-tone frequency tracker over a synthetic
// complex baseband signal and prints the estimated tones and beat.
//
// Usage:
//
//	tonetrack [flags]
//
// Examples:
//
//	tonetrack
//	tonetrack -method ekf -samples 9600
//	tonetrack -noise 0.05 -seed 7
//	tonetrack -method pll -offset 2
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-track/dsp/core"
	"github.com/cwbudde/algo-track/dsp/signal"
	"github.com/cwbudde/algo-track/dsp/spectrum"
	"github.com/cwbudde/algo-track/tone"
	"github.com/cwbudde/algo-track/tone/ekf"
	"github.com/cwbudde/algo-track/tone/hybrid"
	"github.com/cwbudde/algo-track/tone/pll"
)

func main() {
	rate := flag.Float64("rate", 960, "baseband sample rate in Hz")
	samples := flag.Int("samples", 3840, "number of samples to generate")
	f1 := flag.Float64("f1", 5.625480, "true frequency of tone 1 in Hz")
	f2 := flag.Float64("f2", 5.631480, "true frequency of tone 2 in Hz")
	a1 := flag.Float64("a1", 1.0, "amplitude of tone 1")
	a2 := flag.Float64("a2", 0.7, "amplitude of tone 2")
	noise := flag.Float64("noise", 0, "complex white noise standard deviation")
	seed := flag.Int64("seed", 1, "noise generator seed")
	method := flag.String("method", "hybrid", "tracker to run: hybrid, ekf or pll")
	offset := flag.Float64("offset", 0, "initial frequency guess error in mHz, applied to both tones")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tonetrack [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Generates a synthetic two-tone baseband signal and tracks both tones.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tonetrack -method ekf -samples 9600\n")
		fmt.Fprintf(os.Stderr, "  tonetrack -noise 0.05 -seed 7\n")
	}
	flag.Parse()

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(*rate)},
		signal.WithSeed(*seed),
	)

	data, err := gen.TwoTone(*f1, *a1, *f2, *a2, *samples)
	if err != nil {
		fatalf("generate signal: %v", err)
	}

	if *noise > 0 {
		n, err := gen.ComplexNoise(*noise, *samples)
		if err != nil {
			fatalf("generate noise: %v", err)
		}

		data, err = signal.Add(data, n)
		if err != nil {
			fatalf("mix noise: %v", err)
		}
	}

	peak, err := spectrum.PeakFrequency(data, *rate)
	if err != nil {
		fatalf("spectrum peak: %v", err)
	}

	init1 := *f1 + *offset/1000
	init2 := *f2 + *offset/1000

	res, label, err := runTracker(*method, *rate, data, init1, init2)
	if err != nil {
		fatalf("%v", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Method\t%s\n", label)
	fmt.Fprintf(tw, "Samples\t%d @ %g Hz\n", *samples, *rate)
	fmt.Fprintf(tw, "FFT peak\t%.4f Hz\n", peak)
	fmt.Fprintf(tw, "Tone 1\t%.9f Hz (true %.9f, err %+.4f mHz)\n", res.Freq1, *f1, (res.Freq1-*f1)*1000)
	fmt.Fprintf(tw, "Tone 2\t%.9f Hz (true %.9f, err %+.4f mHz)\n", res.Freq2, *f2, (res.Freq2-*f2)*1000)
	fmt.Fprintf(tw, "Beat\t%.4f mHz (true %.4f)\n", res.Beat*1000, math.Abs(*f2-*f1)*1000)
	fmt.Fprintf(tw, "Amplitudes\t%.4f / %.4f (true %.4f / %.4f)\n", res.Amp1, res.Amp2, *a1, *a2)
	fmt.Fprintf(tw, "Regularized\t%d samples\n", res.History.Regularized)

	if err := tw.Flush(); err != nil {
		fatalf("flush output: %v", err)
	}
}

func runTracker(method string, rate float64, data []complex128, init1, init2 float64) (tone.Result, string, error) {
	switch method {
	case "hybrid":
		trk, err := hybrid.NewTracker(hybrid.WithSampleRate(rate))
		if err != nil {
			return tone.Result{}, "", err
		}

		res, err := trk.Track(data, init1, init2)
		if err != nil {
			return tone.Result{}, "", err
		}

		label := string(res.Method)
		if res.Handoff.Converged {
			label = fmt.Sprintf("%s (handoff at sample %d)", res.Method, res.Handoff.Sample)
		}

		return res.Result, label, nil

	case "ekf":
		trk, err := ekf.NewTracker(ekf.WithSampleRate(rate))
		if err != nil {
			return tone.Result{}, "", err
		}

		res, err := trk.Track(data, init1, init2)
		if err != nil {
			return tone.Result{}, "", err
		}

		return *res, "ekf", nil

	case "pll":
		trk, err := pll.NewTracker(pll.WithSampleRate(rate))
		if err != nil {
			return tone.Result{}, "", err
		}

		res, err := trk.Track(data, init1, init2)
		if err != nil {
			return tone.Result{}, "", err
		}

		return *res, "pll", nil

	default:
		return tone.Result{}, "", fmt.Errorf("unknown method %q (use hybrid, ekf or pll)", method)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
