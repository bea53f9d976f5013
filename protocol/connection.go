// File: protocol/connection.go
// Package protocol implements the per-socket connection state machine.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Conn drives one client session through an explicit read/process/write
// cycle over the non-blocking socket. All methods run on the event-loop
// thread; no internal locking is needed and no call ever blocks.

package protocol

import (
	"errors"

	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/pool"
)

// State is the lifecycle state of a connection. Exactly one is active at a
// time.
type State int

const (
	// StateReading accumulates and parses request bytes.
	StateReading State = iota
	// StateWriting flushes a prepared response.
	StateWriting
	// StateClosing is terminal; the loop reaps the connection on its next
	// sweep and no further I/O is attempted.
	StateClosing
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateReading:
		return "reading"
	case StateWriting:
		return "writing"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// CloseReason classifies why a connection reached StateClosing.
type CloseReason int

const (
	// CloseNone: connection is still live.
	CloseNone CloseReason = iota
	// ClosePeer: clean EOF with no partial frame pending.
	ClosePeer
	// CloseTruncated: EOF arrived while a partial header or body was
	// buffered.
	CloseTruncated
	// CloseProtocol: the peer violated the framing protocol.
	CloseProtocol
	// CloseIO: the underlying transport failed.
	CloseIO
	// CloseHandler: the request handler failed or produced an oversized
	// response.
	CloseHandler
)

// String returns a stable label used in logs and metrics.
func (r CloseReason) String() string {
	switch r {
	case ClosePeer:
		return "peer_closed"
	case CloseTruncated:
		return "truncated"
	case CloseProtocol:
		return "protocol_violation"
	case CloseIO:
		return "io_error"
	case CloseHandler:
		return "handler_error"
	default:
		return "none"
	}
}

var (
	errTruncatedFrame = errors.New("protocol: peer closed mid-frame")
	errSocketFailure  = errors.New("protocol: socket error or hangup")
)

// ConnOption customizes connection construction.
type ConnOption func(*Conn)

// WithDrainPipelined controls the per-dispatch draining policy. When true
// (the default) every fully-buffered pipelined request is processed before
// yielding and the responses are flushed in a single write cycle. When
// false each buffered request gets its own response write cycle.
func WithDrainPipelined(drain bool) ConnOption {
	return func(c *Conn) { c.drainPipelined = drain }
}

// WithBufferPool sources the read buffer from bp instead of allocating.
// Pooled buffers must be at least HeaderSize+MaxMessageSize in capacity.
func WithBufferPool(bp *pool.BytePool) ConnOption {
	return func(c *Conn) { c.bufPool = bp }
}

// Conn is one client socket's protocol session.
type Conn struct {
	sock    api.Socket
	handler api.Handler
	bufPool *pool.BytePool

	state  State
	reason CloseReason
	err    error
	closed bool

	// rbuf accumulates request bytes; capacity bounds one header plus one
	// maximum-size body, so a full buffer always starts with a complete
	// (or over-long, hence rejected) frame.
	rbuf *pool.Buffer

	// wbuf holds framed response bytes; sent tracks partial flushes.
	// Invariant: sent <= len(wbuf).
	wbuf []byte
	sent int

	drainPipelined bool

	bytesIn     int64
	bytesOut    int64
	messagesIn  int64
	messagesOut int64
}

// NewConn wraps an accepted non-blocking socket in a Reading-state session.
func NewConn(sock api.Socket, handler api.Handler, opts ...ConnOption) *Conn {
	c := &Conn{
		sock:           sock,
		handler:        handler,
		state:          StateReading,
		drainPipelined: true,
	}
	for _, o := range opts {
		o(c)
	}
	if c.bufPool != nil {
		c.rbuf = c.bufPool.GetBuffer()
	} else {
		c.rbuf = pool.NewBuffer(HeaderSize + MaxMessageSize)
	}
	return c
}

// Fd returns the raw descriptor of the underlying socket.
func (c *Conn) Fd() int { return c.sock.Fd() }

// State returns the current lifecycle state.
func (c *Conn) State() State { return c.state }

// CloseReason reports why the connection is closing; CloseNone while live.
func (c *Conn) CloseReason() CloseReason { return c.reason }

// Err returns the error recorded at failure, nil for clean termination.
func (c *Conn) Err() error { return c.err }

// Dispatch advances the state machine once for a readiness notification.
// Per-connection failures never escape: they are recorded as a transition
// to StateClosing.
func (c *Conn) Dispatch(readable, writable, failed bool) {
	switch c.state {
	case StateReading:
		if readable {
			c.handleReadable()
		} else if failed {
			c.fail(CloseIO, errSocketFailure)
		}
	case StateWriting:
		if writable {
			c.pump()
		} else if failed {
			c.fail(CloseIO, errSocketFailure)
		}
	case StateClosing:
	}
}

// handleReadable performs one non-blocking read, then processes whatever is
// buffered.
func (c *Conn) handleReadable() {
	if w := c.rbuf.Writable(); len(w) > 0 {
		n, err := c.sock.TryRead(w)
		switch {
		case errors.Is(err, api.ErrWouldBlock):
			return
		case err != nil:
			c.fail(CloseIO, err)
			return
		case n == 0:
			// Clean EOF only if no partial frame was pending.
			if c.rbuf.Len() > 0 {
				c.fail(CloseTruncated, errTruncatedFrame)
			} else {
				c.state = StateClosing
				c.reason = ClosePeer
			}
			return
		}
		c.rbuf.Advance(n)
		c.bytesIn += int64(n)
	}
	c.pump()
}

// pump alternates parse and flush until the connection must yield to the
// loop: no complete request buffered, a write would block, or the
// connection is closing.
func (c *Conn) pump() {
	for {
		if c.state == StateReading && !c.produce() {
			return
		}
		if c.state == StateWriting && !c.flush() {
			return
		}
		if c.state == StateClosing {
			return
		}
	}
}

// produce extracts buffered requests per the draining policy, invokes the
// handler, and stages framed responses. Returns true when a response cycle
// was started.
func (c *Conn) produce() bool {
	produced := false
	for {
		msg, consumed, err := ExtractMessage(c.rbuf.Unconsumed())
		if err != nil {
			c.fail(CloseProtocol, err)
			return false
		}
		if consumed == 0 {
			break
		}
		c.rbuf.Consume(consumed)
		c.messagesIn++

		resp, err := c.handler.Handle(msg)
		if err != nil {
			c.fail(CloseHandler, err)
			return false
		}
		c.wbuf, err = EncodeMessage(c.wbuf, resp)
		if err != nil {
			c.fail(CloseHandler, err)
			return false
		}
		c.messagesOut++
		produced = true
		if !c.drainPipelined {
			break
		}
	}
	c.rbuf.Compact()
	if !produced {
		return false
	}
	c.sent = 0
	c.state = StateWriting
	return true
}

// flush writes pending response bytes. Returns true once the buffer is
// fully drained and the connection is back in StateReading.
func (c *Conn) flush() bool {
	for c.sent < len(c.wbuf) {
		n, err := c.sock.TryWrite(c.wbuf[c.sent:])
		if errors.Is(err, api.ErrWouldBlock) {
			return false
		}
		if err != nil {
			c.fail(CloseIO, err)
			return false
		}
		if n == 0 {
			return false
		}
		c.sent += n
		c.bytesOut += int64(n)
	}
	c.wbuf = c.wbuf[:0]
	c.sent = 0
	c.state = StateReading
	return true
}

func (c *Conn) fail(reason CloseReason, err error) {
	c.state = StateClosing
	c.reason = reason
	c.err = err
}

// Close releases the socket and returns the read buffer to its pool.
// Idempotent. Called by the loop during the reap sweep.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.state = StateClosing
	if c.reason == CloseNone {
		c.reason = ClosePeer
	}
	if c.bufPool != nil {
		c.bufPool.PutBuffer(c.rbuf)
		c.rbuf = nil
	}
	return c.sock.Close()
}

// Stats returns a snapshot of connection counters.
func (c *Conn) Stats() map[string]int64 {
	return map[string]int64{
		"bytes_in":     c.bytesIn,
		"bytes_out":    c.bytesOut,
		"messages_in":  c.messagesIn,
		"messages_out": c.messagesOut,
	}
}
