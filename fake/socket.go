// File: fake/socket.go
// Author: momentics <momentics@gmail.com>
//
// Scripted api.Socket for state-machine tests. Reads are served from a
// queue of steps (data, would-block, error, EOF); writes are captured and
// can be throttled or failed per step.

package fake

import (
	"sync"

	"github.com/momentics/hioload-frame/api"
)

type readStep struct {
	data []byte
	err  error
	eof  bool
}

type writeStep struct {
	limit int
	err   error
}

// Socket is a fake implementation of api.Socket.
type Socket struct {
	mu     sync.Mutex
	fd     int
	reads  []readStep
	writes []writeStep
	sent   []byte
	closed bool
	atEOF  bool
}

// NewSocket creates a fake socket with the given descriptor number.
func NewSocket(fd int) *Socket {
	return &Socket{fd: fd}
}

// QueueRead schedules data to be returned by upcoming TryRead calls.
func (s *Socket) QueueRead(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.reads = append(s.reads, readStep{data: cp})
}

// QueueWouldBlock makes the next TryRead report api.ErrWouldBlock.
func (s *Socket) QueueWouldBlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, readStep{err: api.ErrWouldBlock})
}

// QueueReadError makes the next TryRead fail with err.
func (s *Socket) QueueReadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, readStep{err: err})
}

// QueueEOF makes TryRead report a clean peer close from that point on.
func (s *Socket) QueueEOF() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads = append(s.reads, readStep{eof: true})
}

// QueueWriteLimit caps the next TryWrite at limit bytes (0 means
// would-block).
func (s *Socket) QueueWriteLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, writeStep{limit: limit})
}

// QueueWriteError makes the next TryWrite fail with err.
func (s *Socket) QueueWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, writeStep{err: err})
}

// TryRead implements api.Socket.
func (s *Socket) TryRead(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, api.ErrSocketClosed
	}
	if len(s.reads) == 0 {
		if s.atEOF {
			return 0, nil
		}
		return 0, api.ErrWouldBlock
	}
	step := s.reads[0]
	switch {
	case step.err != nil:
		s.reads = s.reads[1:]
		return 0, step.err
	case step.eof:
		// EOF is sticky.
		s.atEOF = true
		s.reads = s.reads[1:]
		return 0, nil
	}
	n := copy(p, step.data)
	if n < len(step.data) {
		s.reads[0].data = step.data[n:]
	} else {
		s.reads = s.reads[1:]
	}
	return n, nil
}

// TryWrite implements api.Socket.
func (s *Socket) TryWrite(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, api.ErrSocketClosed
	}
	if len(s.writes) > 0 {
		step := s.writes[0]
		s.writes = s.writes[1:]
		if step.err != nil {
			return 0, step.err
		}
		if step.limit <= 0 {
			return 0, api.ErrWouldBlock
		}
		if step.limit < len(p) {
			p = p[:step.limit]
		}
	}
	s.sent = append(s.sent, p...)
	return len(p), nil
}

// Close implements api.Socket.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Fd implements api.Socket.
func (s *Socket) Fd() int { return s.fd }

// Written returns everything accepted by TryWrite so far.
func (s *Socket) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.sent))
	copy(out, s.sent)
	return out
}

// Closed reports whether Close was called.
func (s *Socket) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
