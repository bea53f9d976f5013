//go:build unix
// +build unix

// File: internal/transport/socket_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw-descriptor implementation of api.Socket for Unix-like systems.

package transport

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-frame/api"
)

// Socket is a non-blocking stream socket over a raw descriptor.
type Socket struct {
	fd     int
	closed bool
}

// NewSocket wraps an already non-blocking descriptor.
func NewSocket(fd int) *Socket {
	return &Socket{fd: fd}
}

// TryRead implements api.Socket.
func (s *Socket) TryRead(p []byte) (int, error) {
	if s.closed {
		return 0, api.ErrSocketClosed
	}
	n, err := unix.Read(s.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		if err == unix.EINTR {
			return 0, api.ErrWouldBlock
		}
		return 0, fmt.Errorf("transport: read fd=%d: %w", s.fd, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// TryWrite implements api.Socket.
func (s *Socket) TryWrite(p []byte) (int, error) {
	if s.closed {
		return 0, api.ErrSocketClosed
	}
	n, err := unix.Write(s.fd, p)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, api.ErrWouldBlock
		}
		if err == unix.EINTR {
			return 0, api.ErrWouldBlock
		}
		return 0, fmt.Errorf("transport: write fd=%d: %w", s.fd, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// Close implements api.Socket. Idempotent.
func (s *Socket) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return unix.Close(s.fd)
}

// Fd implements api.Socket.
func (s *Socket) Fd() int { return s.fd }
