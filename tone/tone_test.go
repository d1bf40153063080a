package tone

import (
	"math"
	"testing"
)

func TestWrapPhase(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"identity positive", 1.5, 1.5},
		{"identity negative", -1.5, -1.5},
		{"pi", math.Pi, math.Pi},
		{"two pi", 2 * math.Pi, 0},
		{"three pi", 3 * math.Pi, math.Pi},
		{"negative three halves pi", -1.5 * math.Pi, 0.5 * math.Pi},
		{"large", 100 * math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapPhase(tt.in)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WrapPhase(%v) = %v, want %v", tt.in, got, tt.want)
			}

			if got <= -math.Pi || got > math.Pi {
				t.Errorf("WrapPhase(%v) = %v outside (-pi, pi]", tt.in, got)
			}
		})
	}
}

func TestTailMean(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	tests := []struct {
		name string
		w    int
		want float64
	}{
		{"last one", 1, 4},
		{"last two", 2, 3.5},
		{"all", 4, 2.5},
		{"window larger than slice", 10, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TailMean(xs, tt.w)
			if got != tt.want {
				t.Errorf("TailMean(%v, %d) = %v, want %v", xs, tt.w, got, tt.want)
			}
		})
	}

	if got := TailMean(nil, 3); got != 0 {
		t.Errorf("TailMean(nil, 3) = %v, want 0", got)
	}

	if got := TailMean(xs, 0); got != 0 {
		t.Errorf("TailMean(xs, 0) = %v, want 0", got)
	}
}

func TestSummarizeWindow(t *testing.T) {
	h := NewHistory(8)
	for i := range 9 {
		h.AppendState(Estimate{Freq1: float64(i), Freq2: float64(i) + 1})
	}

	// n=8 -> window 2 -> mean of the last two entries (7 and 8).
	res := Summarize(h, 8)
	if res.Freq1 != 7.5 {
		t.Errorf("Freq1 = %v, want 7.5", res.Freq1)
	}

	if res.Beat != 1 {
		t.Errorf("Beat = %v, want 1", res.Beat)
	}
}

func TestSummarizeSingleSample(t *testing.T) {
	h := NewHistory(1)
	h.AppendState(Estimate{Freq1: 1, Freq2: 2})
	h.AppendState(Estimate{Freq1: 3, Freq2: 5})

	// n=1 rounds the quarter window down to the minimum of one entry.
	res := Summarize(h, 1)
	if res.Freq1 != 3 || res.Freq2 != 5 {
		t.Errorf("got f1=%v f2=%v, want 3 and 5", res.Freq1, res.Freq2)
	}

	if res.Beat != 2 {
		t.Errorf("Beat = %v, want 2", res.Beat)
	}
}
