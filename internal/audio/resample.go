package audio

// TargetRate is the sample rate the realtime transcription protocol expects.
const TargetRate = 16000

// Resample converts a block of samples from srcRate to dstRate using linear
// interpolation. Samples are expected in [-1, 1]. When the rates match the
// input is returned as-is.
//
// Each block is resampled independently; no interpolation state is carried
// across calls, so a small discontinuity at block edges is accepted.
func Resample(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(srcRate) / float64(dstRate)
	outLen := len(samples) * dstRate / srcRate
	out := make([]float32, outLen)

	for i := 0; i < outLen; i++ {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))

		s0 := sampleAt(samples, idx)
		s1 := sampleAt(samples, idx+1)
		out[i] = s0 + frac*(s1-s0)
	}

	return out
}

// sampleAt clamps out-of-range reads to the last sample; a missing left
// neighbor reads as silence.
func sampleAt(samples []float32, idx int) float32 {
	if idx < 0 {
		return 0
	}
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	if idx < 0 {
		return 0
	}
	return samples[idx]
}
