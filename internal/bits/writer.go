package bits

import (
	"bytes"
	"errors"

	"github.com/icza/bitio"
)

// ErrWriterFull is reported when a Writer would grow past its byte budget.
var ErrWriterFull = errors.New("bits: writer capacity exceeded")

// Writer accumulates bits MSB-first, matching Reader's bit order.
// It has a fixed byte budget; writes past it set a sticky error and are
// dropped.
type Writer struct {
	buf      bytes.Buffer
	w        *bitio.Writer
	count    uint
	maxBytes int
	err      error
	done     bool
}

// NewWriter creates a Writer that holds at most maxBytes bytes.
func NewWriter(maxBytes int) *Writer {
	wr := &Writer{maxBytes: maxBytes}
	wr.w = bitio.NewWriter(&wr.buf)
	return wr
}

// PutBits writes the low n bits of v. n must be 0-32.
func (w *Writer) PutBits(v uint32, n uint) {
	if n == 0 || w.err != nil || w.done {
		return
	}
	if int((w.count+n+7)/8) > w.maxBytes {
		w.err = ErrWriterFull
		return
	}
	if err := w.w.WriteBits(uint64(v), uint8(n)); err != nil {
		w.err = err
		return
	}
	w.count += n
}

// Align writes zero bits up to the next byte boundary.
func (w *Writer) Align() {
	if rem := w.count % 8; rem != 0 {
		w.PutBits(0, 8-rem)
	}
}

// Count returns the number of bits written so far.
func (w *Writer) Count() uint {
	return w.count
}

// Err returns the first error met while writing.
func (w *Writer) Err() error {
	return w.err
}

// Bytes pads the last partial byte with zero bits and returns the written
// data. No more bits can be written afterwards.
func (w *Writer) Bytes() []byte {
	if !w.done {
		w.done = true
		if err := w.w.Close(); err != nil && w.err == nil {
			w.err = err
		}
	}
	return w.buf.Bytes()
}
