package tone

// Result is the immutable outcome of one tracking run: converged per-tone
// estimates, their beat, and the full per-sample history.
type Result struct {
	Freq1 float64 // Hz
	Freq2 float64 // Hz
	Beat  float64 // Freq2 - Freq1, Hz
	Amp1  float64
	Amp2  float64

	History *History
}

// TailMean returns the arithmetic mean of the last w entries of xs.
// A window larger than the slice is truncated to the slice.
func TailMean(xs []float64, w int) float64 {
	if len(xs) == 0 || w <= 0 {
		return 0
	}

	if w > len(xs) {
		w = len(xs)
	}

	sum := 0.0
	for _, v := range xs[len(xs)-w:] {
		sum += v
	}

	return sum / float64(w)
}

// Summarize computes the converged estimate from a completed history.
//
// The convention is an arithmetic mean over the final quarter of the n
// processed samples, with a minimum window of one entry so a single-sample
// run degenerates to that sample's state. This is a steady-state smoothing
// convention, not a formal estimator.
func Summarize(h *History, n int) *Result {
	w := n / 4
	if w < 1 {
		w = 1
	}

	f1 := TailMean(h.Freq1, w)
	f2 := TailMean(h.Freq2, w)

	return &Result{
		Freq1:   f1,
		Freq2:   f2,
		Beat:    f2 - f1,
		Amp1:    TailMean(h.Amp1, w),
		Amp2:    TailMean(h.Amp2, w),
		History: h,
	}
}
