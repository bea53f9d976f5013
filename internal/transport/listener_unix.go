//go:build unix
// +build unix

// File: internal/transport/listener_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-blocking TCP listener. Accepted sockets come back already
// non-blocking (accept4 with SOCK_NONBLOCK) with TCP_NODELAY set.

package transport

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-frame/api"
)

// Listener is a non-blocking TCP listening socket.
type Listener struct {
	fd     int
	addr   *net.TCPAddr
	closed bool
}

// Listen binds a non-blocking listening socket to addr ("host:port";
// port 0 picks an ephemeral port).
func Listen(addr string) (*Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", addr, err)
	}

	family := unix.AF_INET
	ip := tcpAddr.IP
	if ip == nil {
		ip = net.IPv4zero
	}
	if ip.To4() == nil {
		family = unix.AF_INET6
	}

	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("transport: socket create: %w", err)
	}
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)

	var sa unix.Sockaddr
	if family == unix.AF_INET {
		sa4 := &unix.SockaddrInet4{Port: tcpAddr.Port}
		copy(sa4.Addr[:], ip.To4())
		sa = sa4
	} else {
		sa6 := &unix.SockaddrInet6{Port: tcpAddr.Port}
		copy(sa6.Addr[:], ip.To16())
		sa = sa6
	}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: bind %q: %w", addr, err)
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("transport: listen %q: %w", addr, err)
	}

	bound, err := localAddr(fd)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &Listener{fd: fd, addr: bound}, nil
}

// Accept takes one pending connection. Returns api.ErrWouldBlock when none
// is immediately available.
func (l *Listener) Accept() (api.Socket, error) {
	if l.closed {
		return nil, api.ErrListenerClosed
	}
	nfd, _, err := unix.Accept4(l.fd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, api.ErrWouldBlock
		}
		if err == unix.EINTR {
			return nil, api.ErrWouldBlock
		}
		return nil, fmt.Errorf("transport: accept: %w", err)
	}
	_ = unix.SetsockoptInt(nfd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	return NewSocket(nfd), nil
}

// Addr returns the bound address, with the ephemeral port resolved.
func (l *Listener) Addr() *net.TCPAddr { return l.addr }

// Fd implements api.Listener.
func (l *Listener) Fd() int { return l.fd }

// Close implements api.Listener. Idempotent.
func (l *Listener) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return unix.Close(l.fd)
}

func localAddr(fd int) (*net.TCPAddr, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return nil, fmt.Errorf("transport: getsockname: %w", err)
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}, nil
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}, nil
	default:
		return nil, fmt.Errorf("transport: unexpected sockaddr type %T", sa)
	}
}
