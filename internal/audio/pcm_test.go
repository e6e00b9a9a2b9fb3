package audio

import (
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 0.5, -0.5, 0.9999, -1.0}
	out := DecodePCM16(EncodePCM16(in))

	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		diff := math.Abs(float64(out[i] - in[i]))
		if diff > 1.0/32768.0 {
			t.Errorf("sample %d: got %f, want %f (diff %f)", i, out[i], in[i], diff)
		}
	}
}

func TestEncodeClamps(t *testing.T) {
	out := EncodePCM16([]float32{2.0, -2.0})
	decoded := DecodePCM16(out)

	if decoded[0] < 0.999 {
		t.Errorf("positive overflow should clamp near 1.0, got %f", decoded[0])
	}
	if decoded[1] > -0.999 {
		t.Errorf("negative overflow should clamp near -1.0, got %f", decoded[1])
	}
}

func TestDecodeIgnoresTrailingByte(t *testing.T) {
	out := DecodePCM16([]byte{0x00, 0x40, 0xFF})
	if len(out) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(out))
	}
}

func TestRMSLevel(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		min     float64
		max     float64
	}{
		{"empty", nil, 0, 0},
		{"silence", make([]float32, 1024), 0, 0},
		{"quiet", constant(0.01, 1024), 3, 5},
		{"loud", constant(0.5, 1024), 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := RMSLevel(EncodePCM16(tt.samples))
			if level < tt.min || level > tt.max {
				t.Errorf("level = %f, want in [%f, %f]", level, tt.min, tt.max)
			}
		})
	}
}

func constant(v float32, n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return s
}
