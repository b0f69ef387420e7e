package audio

import "testing"

func TestAccumulator_ExactThreshold(t *testing.T) {
	acc := NewAccumulator(2048)

	chunks := acc.Add(make([]float32, 2048))
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if len(chunks[0]) != 2048 {
		t.Errorf("chunk size = %d, want 2048", len(chunks[0]))
	}
	if acc.Pending() != 0 {
		t.Errorf("residual = %d, want 0", acc.Pending())
	}
}

func TestAccumulator_BelowThreshold(t *testing.T) {
	acc := NewAccumulator(2048)

	chunks := acc.Add(make([]float32, 2047))
	if len(chunks) != 0 {
		t.Fatalf("got %d chunks, want 0", len(chunks))
	}
	if acc.Pending() != 2047 {
		t.Errorf("residual = %d, want 2047", acc.Pending())
	}

	// teardown discards the residual without emitting
	acc.Reset()
	if acc.Pending() != 0 {
		t.Errorf("residual after Reset = %d, want 0", acc.Pending())
	}
}

func TestAccumulator_AccumulatesAcrossBlocks(t *testing.T) {
	acc := NewAccumulator(2048)

	total := 0
	for i := 0; i < 3; i++ {
		chunks := acc.Add(make([]float32, 1000))
		total += len(chunks)
	}
	if total != 1 {
		t.Errorf("got %d chunks from 3000 samples, want 1", total)
	}
	if acc.Pending() != 952 {
		t.Errorf("residual = %d, want 952", acc.Pending())
	}
}

func TestAccumulator_MultipleChunksPerBlock(t *testing.T) {
	acc := NewAccumulator(2048)

	chunks := acc.Add(make([]float32, 5000))
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if acc.Pending() != 904 {
		t.Errorf("residual = %d, want 904", acc.Pending())
	}
}

func TestAccumulator_FIFO(t *testing.T) {
	acc := NewAccumulator(4)

	block := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	chunks := acc.Add(block)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	for i, want := range []float32{1, 2, 3, 4} {
		if chunks[0][i] != want {
			t.Errorf("chunk 0 sample %d = %v, want %v", i, chunks[0][i], want)
		}
	}
	for i, want := range []float32{5, 6, 7, 8} {
		if chunks[1][i] != want {
			t.Errorf("chunk 1 sample %d = %v, want %v", i, chunks[1][i], want)
		}
	}
	if acc.Pending() != 1 {
		t.Errorf("residual = %d, want 1", acc.Pending())
	}
}

func TestAccumulator_DefaultSize(t *testing.T) {
	acc := NewAccumulator(0)
	chunks := acc.Add(make([]float32, ChunkSize))
	if len(chunks) != 1 {
		t.Errorf("got %d chunks, want 1", len(chunks))
	}
}
