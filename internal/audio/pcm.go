package audio

import (
	"encoding/binary"
	"math"
)

// DecodePCM16 converts 16-bit signed little-endian PCM bytes to float samples
// normalized to [-1.0, 1.0] by dividing by 32768. A trailing odd byte is
// ignored.
func DecodePCM16(data []byte) []float32 {
	n := len(data) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(s) / 32768.0
	}
	return samples
}

// EncodePCM16 converts normalized float samples to 16-bit signed
// little-endian PCM. Samples outside [-1.0, 1.0] are clamped.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		n := int(math.Round(float64(v) * 32768.0))
		if n > math.MaxInt16 {
			n = math.MaxInt16
		}
		if n < math.MinInt16 {
			n = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(n)))
	}
	return out
}

// RMSLevel computes the root-mean-square amplitude of PCM16 data scaled for
// display, clamped to [0, 100]. Conversational speech typically lands in the
// 10-80 range.
func RMSLevel(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		v := float64(s) / 32768.0
		sum += v * v
	}

	level := math.Sqrt(sum/float64(n)) * 400
	if level > 100 {
		level = 100
	}
	return level
}
