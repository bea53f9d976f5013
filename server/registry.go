// File: server/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Registry is the owning table of live connections, keyed by raw
// descriptor. Descriptors are small dense integers reissued by the kernel,
// so a growable slice with explicit empty slots replaces a hash map: no
// hashing on the hot path and O(1) everything.

package server

import (
	"fmt"

	"github.com/momentics/hioload-frame/protocol"
)

// Registry maps socket descriptors to their connections. It is accessed
// only from the loop goroutine; no locking is required.
type Registry struct {
	slots []*protocol.Conn
	live  int
}

// NewRegistry creates a registry sized for hint descriptors. It grows on
// demand when the kernel issues larger descriptor numbers.
func NewRegistry(hint int) *Registry {
	if hint < 16 {
		hint = 16
	}
	return &Registry{slots: make([]*protocol.Conn, hint)}
}

// Insert stores conn under fd. A descriptor maps to at most one live
// connection; inserting over an occupied slot is refused.
func (r *Registry) Insert(fd int, conn *protocol.Conn) error {
	if fd < 0 || conn == nil {
		return fmt.Errorf("server: registry insert: invalid fd %d", fd)
	}
	if fd >= len(r.slots) {
		grown := make([]*protocol.Conn, growTo(len(r.slots), fd))
		copy(grown, r.slots)
		r.slots = grown
	}
	if r.slots[fd] != nil {
		return fmt.Errorf("server: registry insert: fd %d already occupied", fd)
	}
	r.slots[fd] = conn
	r.live++
	return nil
}

// Get returns the connection for fd, or nil when the slot is empty.
func (r *Registry) Get(fd int) *protocol.Conn {
	if fd < 0 || fd >= len(r.slots) {
		return nil
	}
	return r.slots[fd]
}

// Remove empties the slot for fd. Removing an absent descriptor is a
// no-op.
func (r *Registry) Remove(fd int) {
	if fd < 0 || fd >= len(r.slots) || r.slots[fd] == nil {
		return
	}
	r.slots[fd] = nil
	r.live--
}

// ForEachLive visits every live connection in ascending descriptor order.
// The visited set is the stable enumeration order the loop dispatches in.
func (r *Registry) ForEachLive(fn func(fd int, conn *protocol.Conn)) {
	for fd, conn := range r.slots {
		if conn != nil {
			fn(fd, conn)
		}
	}
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	return r.live
}

func growTo(cur, fd int) int {
	n := cur * 2
	if n == 0 {
		n = 16
	}
	for n <= fd {
		n *= 2
	}
	return n
}
