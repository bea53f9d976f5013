// File: pool/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer is a fixed-capacity byte arena with an explicit fill cursor and
// consumed cursor. It replaces raw offset arithmetic with safe slice views:
// writers append through Writable/Advance, parsers drain through
// Unconsumed/Consume.

package pool

// Buffer is a fixed-capacity accumulation buffer.
//
// Layout: data[:read] is consumed, data[read:fill] is buffered but not yet
// consumed, data[fill:] is writable space. Invariant: 0 <= read <= fill <= cap.
type Buffer struct {
	data []byte
	fill int
	read int
}

// NewBuffer allocates a buffer of the given fixed capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic("pool: buffer capacity must be positive")
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Writable returns the free region at the tail of the buffer. The caller
// fills some prefix of it and reports the amount via Advance.
func (b *Buffer) Writable() []byte {
	return b.data[b.fill:]
}

// Advance marks n bytes of the writable region as filled.
func (b *Buffer) Advance(n int) {
	if n < 0 || b.fill+n > len(b.data) {
		panic("pool: advance past buffer capacity")
	}
	b.fill += n
}

// Unconsumed returns the filled-but-unparsed region.
func (b *Buffer) Unconsumed() []byte {
	return b.data[b.read:b.fill]
}

// Consume marks n bytes of the unconsumed region as parsed.
func (b *Buffer) Consume(n int) {
	if n < 0 || b.read+n > b.fill {
		panic("pool: consume past fill cursor")
	}
	b.read += n
}

// Len reports the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return b.fill - b.read
}

// Cap reports the fixed capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Compact moves the unconsumed region to the front, reclaiming consumed
// space for future writes.
func (b *Buffer) Compact() {
	if b.read == 0 {
		return
	}
	n := copy(b.data, b.data[b.read:b.fill])
	b.read = 0
	b.fill = n
}

// Reset discards all buffered data.
func (b *Buffer) Reset() {
	b.read = 0
	b.fill = 0
}
