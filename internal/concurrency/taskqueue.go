// File: internal/concurrency/taskqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TaskQueue is the message-passing channel back to the loop thread. The
// loop thread remains the sole owner of sockets, buffers, and the registry;
// other goroutines post closures here instead of touching shared state.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// TaskQueue is a mutex-guarded FIFO of loop-thread tasks.
type TaskQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{q: queue.New()}
}

// Post enqueues fn for execution on the loop thread. Safe to call from any
// goroutine.
func (t *TaskQueue) Post(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.q.Add(fn)
	t.mu.Unlock()
}

// Drain runs up to max queued tasks (all of them when max <= 0) on the
// calling goroutine and reports how many ran. Only the loop thread calls
// Drain.
func (t *TaskQueue) Drain(max int) int {
	ran := 0
	for max <= 0 || ran < max {
		t.mu.Lock()
		if t.q.Length() == 0 {
			t.mu.Unlock()
			break
		}
		fn := t.q.Remove().(func())
		t.mu.Unlock()

		fn()
		ran++
	}
	return ran
}

// Len reports the number of pending tasks.
func (t *TaskQueue) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.q.Length()
}
