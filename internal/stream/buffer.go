// Package stream provides the accumulation buffer that sits between the
// caller's arbitrarily sized input chunks and the LATM framer.
package stream

// Buffer is a fixed-capacity byte store with a consumption offset.
//
// Bytes in [0, Offset()) have been consumed and are reclaimed on the next
// write that needs room. The invariant 0 <= offset <= count <= capacity
// holds after every call.
type Buffer struct {
	data   []byte
	count  int
	offset int
}

// NewBuffer creates a buffer holding at most capacity bytes.
// capacity must be positive.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic("stream: buffer capacity must be positive")
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Write appends p and returns the number of unconsumed bytes that had to be
// dropped to make it fit.
//
// Consumed bytes are reclaimed first. If that is not enough, the oldest
// unconsumed bytes are dropped. When p alone is larger than the capacity,
// only its newest Cap() bytes are kept.
func (b *Buffer) Write(p []byte) int {
	capacity := len(b.data)

	if len(p) >= capacity {
		dropped := b.Len() + len(p) - capacity
		copy(b.data, p[len(p)-capacity:])
		b.offset = 0
		b.count = capacity
		return dropped
	}

	dropped := 0
	if b.count+len(p) > capacity {
		b.compact()
		if excess := b.count + len(p) - capacity; excess > 0 {
			copy(b.data, b.data[excess:b.count])
			b.count -= excess
			dropped = excess
		}
	}

	b.count += copy(b.data[b.count:], p)
	return dropped
}

// compact slides the unconsumed bytes to the start of the buffer.
func (b *Buffer) compact() {
	if b.offset == 0 {
		return
	}
	n := copy(b.data, b.data[b.offset:b.count])
	b.count = n
	b.offset = 0
}

// Unread returns the unconsumed bytes. The slice is only valid until the
// next Write or Flush.
func (b *Buffer) Unread() []byte {
	return b.data[b.offset:b.count]
}

// Consume marks n more bytes as consumed. n is clamped to Len().
func (b *Buffer) Consume(n int) {
	if n < 0 {
		return
	}
	b.offset += min(n, b.Len())
}

// Flush discards all buffered bytes.
func (b *Buffer) Flush() {
	b.count = 0
	b.offset = 0
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int { return b.count - b.offset }

// Offset returns the consumption offset.
func (b *Buffer) Offset() int { return b.offset }

// Count returns the write cursor.
func (b *Buffer) Count() int { return b.count }

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int { return len(b.data) }
