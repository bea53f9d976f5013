// File: server/registry_test.go
// Author: momentics <momentics@gmail.com>

package server_test

import (
	"testing"

	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/fake"
	"github.com/momentics/hioload-frame/protocol"
	"github.com/momentics/hioload-frame/server"
)

var nopHandler = api.HandlerFunc(func(req []byte) ([]byte, error) { return req, nil })

func newTestConn(fd int) *protocol.Conn {
	return protocol.NewConn(fake.NewSocket(fd), nopHandler)
}

func TestRegistryInsertGetRemove(t *testing.T) {
	r := server.NewRegistry(4)
	c := newTestConn(3)

	if err := r.Insert(3, c); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if r.Get(3) != c {
		t.Fatal("Get returned a different connection")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}

	r.Remove(3)
	if r.Get(3) != nil {
		t.Fatal("Get after Remove returned a connection")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d after remove, want 0", r.Len())
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := server.NewRegistry(4)
	r.Remove(2)    // absent id is a no-op
	r.Remove(9999) // beyond table bounds too
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

func TestRegistryRejectsDoubleInsert(t *testing.T) {
	r := server.NewRegistry(4)
	if err := r.Insert(1, newTestConn(1)); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := r.Insert(1, newTestConn(1)); err == nil {
		t.Fatal("second Insert on occupied slot succeeded")
	}
}

func TestRegistryGrowsForLargeDescriptor(t *testing.T) {
	r := server.NewRegistry(4)
	small := newTestConn(2)
	if err := r.Insert(2, small); err != nil {
		t.Fatalf("Insert small fd: %v", err)
	}

	big := newTestConn(1021)
	if err := r.Insert(1021, big); err != nil {
		t.Fatalf("Insert large fd: %v", err)
	}
	// Growth preserves existing entries.
	if r.Get(2) != small || r.Get(1021) != big {
		t.Fatal("entries lost across growth")
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
}

func TestRegistrySlotReuseNeverReturnsStaleConn(t *testing.T) {
	r := server.NewRegistry(4)
	old := newTestConn(5)
	if err := r.Insert(5, old); err != nil {
		t.Fatalf("Insert old: %v", err)
	}
	r.Remove(5)

	fresh := newTestConn(5) // kernel reissued the descriptor
	if err := r.Insert(5, fresh); err != nil {
		t.Fatalf("Insert fresh: %v", err)
	}
	if got := r.Get(5); got != fresh {
		t.Fatal("Get returned the stale connection for a reused descriptor")
	}
}

func TestRegistryForEachLiveOrderAndSkipsEmpty(t *testing.T) {
	r := server.NewRegistry(8)
	for _, fd := range []int{6, 1, 4} {
		if err := r.Insert(fd, newTestConn(fd)); err != nil {
			t.Fatalf("Insert fd %d: %v", fd, err)
		}
	}
	r.Remove(4)

	var seen []int
	r.ForEachLive(func(fd int, _ *protocol.Conn) {
		seen = append(seen, fd)
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 6 {
		t.Fatalf("ForEachLive visited %v, want [1 6]", seen)
	}
}
