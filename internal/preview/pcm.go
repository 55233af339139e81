package preview

import (
	"math"

	"parasite/internal/audio"
)

// Float32Samples converts decoded integer samples to the [-1, 1] floats a
// sound card stream expects.
func Float32Samples(f audio.Format, samples []int) []float32 {
	out := make([]float32, len(samples))
	if f.AudioFormat == audio.FormatFloat {
		for i, v := range samples {
			out[i] = math.Float32frombits(uint32(int32(v)))
		}
		return out
	}
	if f.BitDepth == 8 {
		// 8-bit WAV is unsigned around 128.
		for i, v := range samples {
			out[i] = float32(int(uint8(v))-128) / 128
		}
		return out
	}
	scale := float32(int64(1) << (f.BitDepth - 1))
	for i, v := range samples {
		out[i] = float32(v) / scale
	}
	return out
}
