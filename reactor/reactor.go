// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Backend-neutral poller contract. The caller rebuilds its interest set
// every iteration; the poller blocks with a bounded wait and marks ready
// descriptors in place, poll(2)-style.

package reactor

import (
	"fmt"
	"time"
)

// EventBits is a bit set of readiness conditions.
type EventBits uint32

const (
	// EventRead: descriptor has data available (or a pending accept / EOF).
	EventRead EventBits = 1 << iota
	// EventWrite: descriptor can take bytes without blocking.
	EventWrite
	// EventError: error or hangup condition. Always reported regardless of
	// the requested interest.
	EventError
)

// PollItem pairs one descriptor with its requested interest and, after
// Wait returns, the readiness observed for it.
type PollItem struct {
	Fd       int
	Interest EventBits
	Ready    EventBits
}

// Poller is a level-triggered readiness primitive.
type Poller interface {
	// Wait blocks until at least one item is ready or the timeout elapses.
	// It clears and refills every item's Ready field and returns the number
	// of items with non-zero readiness. A negative timeout blocks
	// indefinitely. A signal interruption is not an error and reports zero
	// ready items.
	Wait(items []PollItem, timeout time.Duration) (int, error)

	// Close releases the backend.
	Close() error
}

// Backend names accepted by NewPoller.
const (
	BackendPoll  = "poll"
	BackendEpoll = "epoll"
)

// NewPoller constructs the named backend. An empty name selects the
// platform default.
func NewPoller(backend string) (Poller, error) {
	return newPoller(backend)
}

// timeoutMillis converts a wait bound into the millisecond form the OS
// primitives take; negative means block indefinitely.
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := int(d / time.Millisecond)
	if ms == 0 && d > 0 {
		ms = 1
	}
	return ms
}

func unknownBackend(name string) error {
	return fmt.Errorf("reactor: unknown poller backend %q", name)
}
