package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Blob is a transport-ready audio frame: base64 PCM16 bytes tagged with the
// wire format descriptor.
type Blob struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// EncodeFrame converts float samples to 16-bit little-endian PCM and wraps
// them in a base64 blob tagged for 16 kHz. Encoding is total: samples are
// clamped to [-1, 1] first.
func EncodeFrame(samples []float32) Blob {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(pcm16(s)))
	}
	return Blob{
		Data:     base64.StdEncoding.EncodeToString(pcm),
		MIMEType: fmt.Sprintf("audio/pcm;rate=%d", TargetRate),
	}
}

// pcm16 maps a float sample to a signed 16-bit value. Negative values scale
// by 32768 and non-negative by 32767 so that -1.0 hits the exact minimum and
// 1.0 hits 32767 without overflow.
func pcm16(s float32) int16 {
	if s < -1 {
		s = -1
	}
	if s > 1 {
		s = 1
	}
	if s < 0 {
		return int16(s * 32768)
	}
	return int16(s * 32767)
}
