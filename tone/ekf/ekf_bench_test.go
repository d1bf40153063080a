package ekf_test

import (
	"testing"

	"github.com/cwbudde/algo-track/dsp/core"
	"github.com/cwbudde/algo-track/dsp/signal"
	"github.com/cwbudde/algo-track/tone/ekf"
)

func BenchmarkTrack(b *testing.B) {
	gen := signal.NewGenerator(core.WithSampleRate(fsBaseband))

	data, err := gen.TwoTone(freq1True, amp1True, freq2True, amp2True, 960)
	if err != nil {
		b.Fatal(err)
	}

	tracker, err := ekf.NewTracker()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tracker.Track(data, freq1True, freq2True); err != nil {
			b.Fatal(err)
		}
	}
}
