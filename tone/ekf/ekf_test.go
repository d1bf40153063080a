package ekf_test

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-track/dsp/core"
	"github.com/cwbudde/algo-track/dsp/signal"
	"github.com/cwbudde/algo-track/internal/testutil"
	"github.com/cwbudde/algo-track/tone/ekf"
)

const (
	fsBaseband = 960.0
	freq1True  = 5.625480
	freq2True  = 5.631480 // 6 mHz beat
	amp1True   = 1.0
	amp2True   = 0.7
)

func twoToneSignal(t *testing.T, samples int) []complex128 {
	t.Helper()

	gen := signal.NewGenerator(core.WithSampleRate(fsBaseband))

	data, err := gen.TwoTone(freq1True, amp1True, freq2True, amp2True, samples)
	if err != nil {
		t.Fatal(err)
	}

	return data
}

func TestNewTrackerValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ekf.Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"zero sample rate", []ekf.Option{ekf.WithSampleRate(0)}, ekf.ErrInvalidSampleRate},
		{"negative sample rate", []ekf.Option{ekf.WithSampleRate(-960)}, ekf.ErrInvalidSampleRate},
		{"zero measurement noise", []ekf.Option{ekf.WithMeasurementNoise(0)}, ekf.ErrInvalidMeasurementNoise},
		{"negative measurement noise", []ekf.Option{ekf.WithMeasurementNoise(-1e-4)}, ekf.ErrInvalidMeasurementNoise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ekf.NewTracker(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewTracker() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrackEmptyInput(t *testing.T) {
	tracker, err := ekf.NewTracker()
	if err != nil {
		t.Fatal(err)
	}

	_, err = tracker.Track(nil, freq1True, freq2True)
	if !errors.Is(err, ekf.ErrEmptyInput) {
		t.Errorf("Track(nil) error = %v, want %v", err, ekf.ErrEmptyInput)
	}
}

func TestTrackNoiselessTruthInit(t *testing.T) {
	const n = 3840

	data := twoToneSignal(t, n)

	tracker, err := ekf.NewTracker()
	if err != nil {
		t.Fatal(err)
	}

	res, err := tracker.Track(data, freq1True, freq2True)
	if err != nil {
		t.Fatal(err)
	}

	beatMilliHz := res.Beat * 1000
	testutil.RequireNearlyEqual(t, beatMilliHz, 6.0, 0.1)

	testutil.RequireNearlyEqual(t, res.Amp1, amp1True, 0.05)
	testutil.RequireNearlyEqual(t, res.Amp2, amp2True, 0.05)

	hist := res.History
	if hist.Len() != n+1 {
		t.Errorf("history length = %d, want %d", hist.Len(), n+1)
	}

	if len(hist.Err) != n {
		t.Errorf("residual series length = %d, want %d", len(hist.Err), n)
	}

	testutil.RequirePhasesWrapped(t, hist.Phase1)
	testutil.RequirePhasesWrapped(t, hist.Phase2)
	testutil.RequireAtLeast(t, hist.Amp1, 0.1)
	testutil.RequireAtLeast(t, hist.Amp2, 0.1)
	testutil.RequireFinite(t, hist.Freq1)
	testutil.RequireFinite(t, hist.Freq2)
	testutil.RequireFinite(t, hist.StdFreq1)
	testutil.RequireFinite(t, hist.StdFreq2)
}

func TestTrackSwappedInit(t *testing.T) {
	const n = 3840

	data := twoToneSignal(t, n)

	tracker, err := ekf.NewTracker()
	if err != nil {
		t.Fatal(err)
	}

	// Initialize with the tone labels swapped. The filter must not
	// collapse the pair onto a zero beat or diverge.
	res, err := tracker.Track(data, freq2True, freq1True)
	if err != nil {
		t.Fatal(err)
	}

	if math.IsNaN(res.Beat) {
		t.Fatal("beat is NaN")
	}

	beatMilliHz := math.Abs(res.Beat) * 1000
	testutil.RequireNearlyEqual(t, beatMilliHz, 6.0, 0.1)
}

func TestTrackDeterministic(t *testing.T) {
	const n = 512

	data := twoToneSignal(t, n)

	tracker, err := ekf.NewTracker()
	if err != nil {
		t.Fatal(err)
	}

	first, err := tracker.Track(data, freq1True, freq2True)
	if err != nil {
		t.Fatal(err)
	}

	second, err := tracker.Track(data, freq1True, freq2True)
	if err != nil {
		t.Fatal(err)
	}

	// There is no randomness inside the filter; repeated runs must be
	// bit-identical.
	series := []struct {
		name string
		a, b []float64
	}{
		{"Freq1", first.History.Freq1, second.History.Freq1},
		{"Freq2", first.History.Freq2, second.History.Freq2},
		{"Phase1", first.History.Phase1, second.History.Phase1},
		{"Phase2", first.History.Phase2, second.History.Phase2},
		{"Amp1", first.History.Amp1, second.History.Amp1},
		{"Amp2", first.History.Amp2, second.History.Amp2},
		{"Err", first.History.Err, second.History.Err},
		{"StdFreq1", first.History.StdFreq1, second.History.StdFreq1},
		{"StdFreq2", first.History.StdFreq2, second.History.StdFreq2},
	}

	for _, s := range series {
		if len(s.a) != len(s.b) {
			t.Fatalf("%s: length mismatch %d vs %d", s.name, len(s.a), len(s.b))
		}

		for i := range s.a {
			if s.a[i] != s.b[i] {
				t.Fatalf("%s[%d]: %v != %v", s.name, i, s.a[i], s.b[i])
			}
		}
	}
}

func TestTrackSingleSample(t *testing.T) {
	data := twoToneSignal(t, 1)

	tracker, err := ekf.NewTracker()
	if err != nil {
		t.Fatal(err)
	}

	res, err := tracker.Track(data, freq1True, freq2True)
	if err != nil {
		t.Fatal(err)
	}

	if res.History.Len() != 2 {
		t.Errorf("history length = %d, want 2", res.History.Len())
	}

	// The converged estimate degenerates to the single updated state.
	if res.Freq1 != res.History.Freq1[1] {
		t.Errorf("Freq1 = %v, want last state %v", res.Freq1, res.History.Freq1[1])
	}

	testutil.RequireFinite(t, []float64{res.Freq1, res.Freq2, res.Beat, res.Amp1, res.Amp2})
}

func TestTrackFrozenAmplitudes(t *testing.T) {
	const n = 256

	data := twoToneSignal(t, n)

	tracker, err := ekf.NewTracker(ekf.WithAmplitudeTracking(false))
	if err != nil {
		t.Fatal(err)
	}

	res, err := tracker.Track(data, freq1True, freq2True)
	if err != nil {
		t.Fatal(err)
	}

	// Zeroed amplitude columns in the Jacobian freeze both amplitudes at
	// their initial values.
	for i, v := range res.History.Amp1 {
		if v != 1.0 {
			t.Fatalf("Amp1[%d] = %v, want 1.0", i, v)
		}
	}

	for i, v := range res.History.Amp2 {
		if v != 0.7 {
			t.Fatalf("Amp2[%d] = %v, want 0.7", i, v)
		}
	}
}

func TestTrackCloseInitRegularizes(t *testing.T) {
	const n = 512

	data := twoToneSignal(t, n)

	tracker, err := ekf.NewTracker()
	if err != nil {
		t.Fatal(err)
	}

	// Initial guesses 1 mHz apart sit well inside the 3 mHz minimum
	// separation, so the constraint must fire at least once.
	res, err := tracker.Track(data, freq1True, freq1True+0.001)
	if err != nil {
		t.Fatal(err)
	}

	if res.History.Regularized == 0 {
		t.Error("separation regularizer never fired for sub-minimum initial separation")
	}

	testutil.RequireFinite(t, res.History.Freq1)
	testutil.RequireFinite(t, res.History.Freq2)
}
