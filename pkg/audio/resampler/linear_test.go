package resampler

import (
	"math"
	"testing"
)

func TestLinearSameRatePassthrough(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3, -0.4}
	for _, rate := range []float64{8000, 16000, 44100, 48000} {
		out := Linear(in, rate, rate)
		if len(out) != len(in) {
			t.Fatalf("rate %v: len = %d, want %d", rate, len(out), len(in))
		}
		for i := range in {
			if out[i] != in[i] {
				t.Errorf("rate %v: sample %d = %v, want %v", rate, i, out[i], in[i])
			}
		}
	}
}

func TestLinearOutputLength(t *testing.T) {
	tests := []struct {
		inLen    int
		from, to float64
	}{
		{480, 48000, 16000},
		{441, 44100, 16000},
		{160, 16000, 24000},
		{1024, 48000, 24000},
		{333, 22050, 16000},
	}
	for _, tt := range tests {
		out := Linear(make([]float32, tt.inLen), tt.from, tt.to)
		want := int(math.Round(float64(tt.inLen) / (tt.from / tt.to)))
		diff := len(out) - want
		if diff < -1 || diff > 1 {
			t.Errorf("Linear(%d, %v, %v): len = %d, want %d±1", tt.inLen, tt.from, tt.to, len(out), want)
		}
	}
}

func TestLinearInterpolates(t *testing.T) {
	// Downsampling a linear ramp by 2 should keep it a ramp with step 2.
	in := []float32{0, 1, 2, 3, 4, 5, 6, 7}
	out := Linear(in, 32000, 16000)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	for i, want := range []float32{0, 2, 4, 6} {
		if math.Abs(float64(out[i]-want)) > 1e-5 {
			t.Errorf("sample %d = %v, want %v", i, out[i], want)
		}
	}
}

func TestLinearUpsampleMidpoints(t *testing.T) {
	in := []float32{0, 1}
	out := Linear(in, 16000, 32000)
	if len(out) != 4 {
		t.Fatalf("len = %d, want 4", len(out))
	}
	for i, want := range []float32{0, 0.5, 1, 1} {
		if math.Abs(float64(out[i]-want)) > 1e-5 {
			t.Errorf("sample %d = %v, want %v", i, out[i], want)
		}
	}
}

func TestLinearClampsAtEnd(t *testing.T) {
	in := []float32{0.5, -0.5, 0.25}
	out := Linear(in, 16000, 48000)
	// The tail must repeat the final sample instead of reading past the end.
	if got := out[len(out)-1]; got != 0.25 {
		t.Errorf("tail sample = %v, want 0.25", got)
	}
}

func TestLinearEmpty(t *testing.T) {
	if out := Linear(nil, 48000, 16000); len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}
