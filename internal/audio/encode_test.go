package audio

import (
	"encoding/base64"
	"encoding/binary"
	"testing"
)

func decodePCM(t *testing.T, b Blob) []int16 {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(b.Data)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	if len(raw)%2 != 0 {
		t.Fatalf("odd PCM byte count: %d", len(raw))
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples
}

func TestEncodeFrame_Extremes(t *testing.T) {
	blob := EncodeFrame([]float32{1.0, -1.0, 0})

	samples := decodePCM(t, blob)
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
	if samples[0] != 32767 {
		t.Errorf("1.0 encoded as %d, want 32767", samples[0])
	}
	if samples[1] != -32768 {
		t.Errorf("-1.0 encoded as %d, want -32768", samples[1])
	}
	if samples[2] != 0 {
		t.Errorf("0 encoded as %d, want 0", samples[2])
	}
}

func TestEncodeFrame_Clamps(t *testing.T) {
	blob := EncodeFrame([]float32{2.5, -3.0})

	samples := decodePCM(t, blob)
	if samples[0] != 32767 {
		t.Errorf("2.5 encoded as %d, want clamped 32767", samples[0])
	}
	if samples[1] != -32768 {
		t.Errorf("-3.0 encoded as %d, want clamped -32768", samples[1])
	}
}

func TestEncodeFrame_MIMEType(t *testing.T) {
	blob := EncodeFrame([]float32{0.5})
	want := "audio/pcm;rate=16000"
	if blob.MIMEType != want {
		t.Errorf("MIMEType = %q, want %q", blob.MIMEType, want)
	}
}

func TestEncodeFrame_Empty(t *testing.T) {
	blob := EncodeFrame(nil)
	if blob.Data != "" {
		t.Errorf("empty frame encoded as %q, want empty", blob.Data)
	}
}
