// File: pool/buffer_test.go
// Author: momentics <momentics@gmail.com>

package pool_test

import (
	"bytes"
	"testing"

	"github.com/momentics/hioload-frame/pool"
)

func TestBufferCursors(t *testing.T) {
	b := pool.NewBuffer(16)
	if b.Cap() != 16 || b.Len() != 0 {
		t.Fatalf("fresh buffer: cap=%d len=%d", b.Cap(), b.Len())
	}

	n := copy(b.Writable(), []byte("hello world"))
	b.Advance(n)
	if b.Len() != 11 {
		t.Fatalf("len = %d after fill, want 11", b.Len())
	}
	if !bytes.Equal(b.Unconsumed(), []byte("hello world")) {
		t.Fatalf("unconsumed = %q", b.Unconsumed())
	}

	b.Consume(6)
	if !bytes.Equal(b.Unconsumed(), []byte("world")) {
		t.Fatalf("unconsumed after consume = %q", b.Unconsumed())
	}
	if len(b.Writable()) != 5 {
		t.Fatalf("writable = %d before compact, want 5", len(b.Writable()))
	}

	b.Compact()
	if !bytes.Equal(b.Unconsumed(), []byte("world")) {
		t.Fatalf("unconsumed after compact = %q", b.Unconsumed())
	}
	if len(b.Writable()) != 11 {
		t.Fatalf("writable = %d after compact, want 11", len(b.Writable()))
	}

	b.Reset()
	if b.Len() != 0 || len(b.Writable()) != 16 {
		t.Fatalf("reset buffer: len=%d writable=%d", b.Len(), len(b.Writable()))
	}
}

func TestBufferAdvancePastCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on advance past capacity")
		}
	}()
	b := pool.NewBuffer(4)
	b.Advance(5)
}

func TestBufferConsumePastFillPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on consume past fill")
		}
	}()
	b := pool.NewBuffer(4)
	b.Advance(2)
	b.Consume(3)
}

func TestBytePoolRecycles(t *testing.T) {
	bp := pool.NewBytePool(32)
	buf := bp.GetBuffer()
	if buf.Cap() != 32 {
		t.Fatalf("cap = %d, want 32", buf.Cap())
	}
	copy(buf.Writable(), []byte("junk"))
	buf.Advance(4)
	bp.PutBuffer(buf)

	again := bp.GetBuffer()
	if again.Len() != 0 {
		t.Fatalf("recycled buffer not reset: len=%d", again.Len())
	}
}

func TestBytePoolRejectsForeignSize(t *testing.T) {
	bp := pool.NewBytePool(32)
	bp.PutBuffer(pool.NewBuffer(8)) // silently dropped
	if got := bp.GetBuffer().Cap(); got != 32 {
		t.Fatalf("cap = %d, want 32", got)
	}
}
