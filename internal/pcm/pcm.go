// Package pcm converts decoded samples to the interleaved signed 16-bit
// little-endian byte layout handed to audio outputs.
package pcm

import (
	"encoding/binary"
	"slices"
)

// BytesPerSample is the size of one s16le sample.
const BytesPerSample = 2

// AppendS16LE appends samples to dst as s16le bytes and returns the
// extended slice.
func AppendS16LE(dst []byte, samples []int16) []byte {
	dst = slices.Grow(dst, Size(len(samples)))
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}
	return dst
}

// Size returns the byte size of n samples.
func Size(n int) int {
	return n * BytesPerSample
}

// Samples converts s16le bytes back into samples. A trailing odd byte is
// ignored.
func Samples(b []byte) []int16 {
	out := make([]int16, len(b)/BytesPerSample)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*BytesPerSample:]))
	}
	return out
}
