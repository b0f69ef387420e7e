package audio

import "math"

// RMS computes the root-mean-square amplitude of one callback block, used as
// a volume proxy for status feedback. Returns 0 for an empty block.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
