package audio

// ChunkSize is the fixed number of target-rate samples per outgoing chunk,
// about 128ms at 16 kHz. Chosen to balance message rate against latency.
const ChunkSize = 2048

// Accumulator buffers resampled audio until a full chunk is available.
// The residual between emissions is always shorter than ChunkSize.
// Not safe for concurrent use; the session run loop is its only caller.
type Accumulator struct {
	residual []float32
	size     int
}

// NewAccumulator returns an Accumulator emitting chunks of size samples.
// A size of 0 means ChunkSize.
func NewAccumulator(size int) *Accumulator {
	if size <= 0 {
		size = ChunkSize
	}
	return &Accumulator{size: size}
}

// Add appends a resampled block and returns any completed fixed-size chunks
// in FIFO order. The returned slices are owned by the caller.
func (a *Accumulator) Add(block []float32) [][]float32 {
	a.residual = append(a.residual, block...)

	var chunks [][]float32
	for len(a.residual) >= a.size {
		chunk := make([]float32, a.size)
		copy(chunk, a.residual[:a.size])
		chunks = append(chunks, chunk)
		a.residual = a.residual[a.size:]
	}
	return chunks
}

// Pending reports how many samples are buffered below the chunk threshold.
func (a *Accumulator) Pending() int {
	return len(a.residual)
}

// Reset discards the residual. Called on teardown: a trailing partial chunk
// is intentionally dropped, never flushed.
func (a *Accumulator) Reset() {
	a.residual = nil
}
