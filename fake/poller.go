// File: fake/poller.go
// Author: momentics <momentics@gmail.com>
//
// Scripted reactor.Poller for event-loop tests.

package fake

import (
	"sync"
	"time"

	"github.com/momentics/hioload-frame/reactor"
)

// WaitFunc scripts one Wait invocation against the presented interest set.
type WaitFunc func(items []reactor.PollItem) (int, error)

// Poller is a fake implementation of reactor.Poller. Each Wait call pops
// the next scripted step; when the script is exhausted Wait reports an
// idle timeout.
type Poller struct {
	mu     sync.Mutex
	script []WaitFunc
	calls  int
	closed bool
}

// NewPoller creates an empty fake poller.
func NewPoller() *Poller {
	return &Poller{}
}

// Enqueue appends a scripted Wait step.
func (p *Poller) Enqueue(fn WaitFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = append(p.script, fn)
}

// Wait implements reactor.Poller.
func (p *Poller) Wait(items []reactor.PollItem, _ time.Duration) (int, error) {
	p.mu.Lock()
	p.calls++
	var fn WaitFunc
	if len(p.script) > 0 {
		fn = p.script[0]
		p.script = p.script[1:]
	}
	p.mu.Unlock()

	for i := range items {
		items[i].Ready = 0
	}
	if fn == nil {
		return 0, nil
	}
	return fn(items)
}

// Close implements reactor.Poller.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Calls reports how many times Wait ran.
func (p *Poller) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Closed reports whether Close was called.
func (p *Poller) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
