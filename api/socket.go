// File: api/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking stream socket abstraction consumed by the connection
// state machine. Implementations must never block the calling thread.

package api

// Socket is a non-blocking byte stream. TryRead and TryWrite return
// ErrWouldBlock instead of suspending when the operation cannot make
// progress immediately.
type Socket interface {
	// TryRead reads available bytes into p. A return of (0, nil) means the
	// peer closed its end of the stream.
	TryRead(p []byte) (int, error)

	// TryWrite writes as many bytes of p as the transport accepts without
	// blocking and reports how many were taken.
	TryWrite(p []byte) (int, error)

	// Close releases the underlying descriptor. Idempotent.
	Close() error

	// Fd returns the raw descriptor, used as the registry key and for
	// readiness registration.
	Fd() int
}

// Listener accepts new non-blocking sockets. Accept returns ErrWouldBlock
// when no pending connection is immediately available.
type Listener interface {
	Accept() (Socket, error)
	Close() error
	Fd() int
}
