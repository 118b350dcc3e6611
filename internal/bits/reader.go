// Package bits provides MSB-first bit reading and writing over byte buffers.
package bits

import "errors"

// ErrTruncated is reported when a read goes past the reader's bit limit.
var ErrTruncated = errors.New("bits: read past end of data")

// Reader reads bits from a byte buffer, most significant bit first.
//
// The reader has an explicit bit limit. A read that would cross it sets a
// sticky error, returns 0, and every following read returns 0 as well, so a
// whole syntax structure can be parsed and checked once with Err.
//
// Modeled on the bitfile reader in ~/dev/faad2/libfaad/bits.h:48-60, with
// the two-word cache replaced by direct byte addressing.
type Reader struct {
	buffer []byte
	pos    uint // bits consumed
	limit  uint // total readable bits
	err    error
}

// NewReader creates a Reader over all bits of data.
func NewReader(data []byte) *Reader {
	return &Reader{buffer: data, limit: uint(len(data)) * 8}
}

// NewReaderBits creates a Reader over the first nbits bits of data.
// nbits is clamped to the size of data.
func NewReaderBits(data []byte, nbits uint) *Reader {
	if total := uint(len(data)) * 8; nbits > total {
		nbits = total
	}
	return &Reader{buffer: data, limit: nbits}
}

// Err returns ErrTruncated once any read ran past the limit, nil otherwise.
func (r *Reader) Err() error {
	return r.err
}

// BitsLeft returns the number of unread bits before the limit.
func (r *Reader) BitsLeft() uint {
	if r.err != nil {
		return 0
	}
	return r.limit - r.pos
}

// BytesAvailable returns the number of whole unread bytes before the limit.
func (r *Reader) BytesAvailable() int {
	return int(r.BitsLeft() / 8)
}

// GetProcessedBits returns the number of bits consumed so far.
func (r *Reader) GetProcessedBits() uint {
	return r.pos
}

// ShowBits returns the next n bits without consuming them.
// n must be 0-32. Peeking past the limit returns 0 but does not set the
// error flag.
//
// Ported from: faad_showbits() in ~/dev/faad2/libfaad/bits.h:102-113
func (r *Reader) ShowBits(n uint) uint32 {
	if n == 0 || r.err != nil || r.pos+n > r.limit {
		return 0
	}
	return r.peek(r.pos, n)
}

// peek assembles n bits starting at bit position pos. Bounds are checked by
// the caller.
func (r *Reader) peek(pos, n uint) uint32 {
	var v uint64
	first := pos / 8
	last := (pos + n - 1) / 8
	for i := first; i <= last; i++ {
		v = v<<8 | uint64(r.buffer[i])
	}
	// drop bits after the field, then mask off bits before it
	tail := (last+1)*8 - (pos + n)
	v >>= tail
	return uint32(v & (1<<n - 1))
}

// FlushBits discards n bits. n may exceed 32, which is how fill and
// other-data runs are skipped.
//
// Ported from: faad_flushbits() in ~/dev/faad2/libfaad/bits.h:115-127
func (r *Reader) FlushBits(n uint) {
	if r.err != nil {
		return
	}
	if r.pos+n > r.limit {
		r.fail()
		return
	}
	r.pos += n
}

// GetBits reads and returns n bits. n must be 0-32.
//
// Ported from: faad_getbits() in ~/dev/faad2/libfaad/bits.h:130-146
func (r *Reader) GetBits(n uint) uint32 {
	if n == 0 || r.err != nil {
		return 0
	}
	if r.pos+n > r.limit {
		r.fail()
		return 0
	}
	v := r.peek(r.pos, n)
	r.pos += n
	return v
}

// Get1Bit reads a single bit.
//
// Ported from: faad_get1bit() in ~/dev/faad2/libfaad/bits.h:148-167
func (r *Reader) Get1Bit() uint8 {
	return uint8(r.GetBits(1))
}

// GetBool reads a single bit as a flag.
func (r *Reader) GetBool() bool {
	return r.GetBits(1) == 1
}

// ByteAlign skips to the next byte boundary and returns the number of
// bits skipped.
//
// Ported from: faad_byte_align() in ~/dev/faad2/libfaad/bits.c:146-156
func (r *Reader) ByteAlign() uint {
	rem := r.pos % 8
	if rem == 0 {
		return 0
	}
	r.FlushBits(8 - rem)
	return 8 - rem
}

func (r *Reader) fail() {
	r.err = ErrTruncated
	r.pos = r.limit
}
