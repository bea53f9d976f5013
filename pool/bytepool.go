// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "sync"

// BytePool recycles fixed-capacity Buffers across connection lifetimes.
type BytePool struct {
	p    sync.Pool
	size int
}

// NewBytePool creates a pool handing out Buffers of the given capacity.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.p.New = func() any {
		return NewBuffer(size)
	}
	return bp
}

// GetBuffer returns an empty buffer from the pool.
func (b *BytePool) GetBuffer() *Buffer {
	buf := b.p.Get().(*Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool. The buffer must not be used
// afterwards.
func (b *BytePool) PutBuffer(buf *Buffer) {
	if buf == nil || buf.Cap() != b.size {
		return
	}
	b.p.Put(buf)
}

// Size reports the capacity of pooled buffers.
func (b *BytePool) Size() int {
	return b.size
}
