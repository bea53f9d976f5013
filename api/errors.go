// File: api/errors.go
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the framing core.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrWouldBlock signals that a non-blocking operation found no data or
	// buffer space available. It is an expected control-flow result, not a
	// failure: the caller yields back to the event loop.
	ErrWouldBlock = fmt.Errorf("operation would block")

	// ErrSocketClosed is returned when operating on a closed socket.
	ErrSocketClosed = fmt.Errorf("socket is closed")

	// ErrPollerClosed is returned when waiting on a closed poller.
	ErrPollerClosed = fmt.Errorf("poller is closed")

	// ErrListenerClosed is returned by Accept on a closed listener.
	ErrListenerClosed = fmt.Errorf("listener is closed")
)
