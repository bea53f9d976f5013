//go:build unix
// +build unix

// File: reactor/poll_unix.go
// Author: momentics <momentics@gmail.com>
//
// Portable poll(2)-based backend. The per-call interest set maps directly
// onto the pollfd array, so no registration state is kept between calls.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type pollPoller struct {
	fds    []unix.PollFd
	closed bool
}

func newPollPoller() (Poller, error) {
	return &pollPoller{}, nil
}

// Wait implements Poller using unix.Poll.
func (p *pollPoller) Wait(items []PollItem, timeout time.Duration) (int, error) {
	if p.closed {
		return 0, fmt.Errorf("reactor: poller is closed")
	}
	if cap(p.fds) < len(items) {
		p.fds = make([]unix.PollFd, len(items))
	}
	fds := p.fds[:len(items)]
	for i := range items {
		items[i].Ready = 0
		var ev int16
		if items[i].Interest&EventRead != 0 {
			ev |= unix.POLLIN
		}
		if items[i].Interest&EventWrite != 0 {
			ev |= unix.POLLOUT
		}
		fds[i] = unix.PollFd{Fd: int32(items[i].Fd), Events: ev}
	}

	n, err := unix.Poll(fds, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("reactor: poll wait: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	ready := 0
	for i := range fds {
		re := fds[i].Revents
		if re == 0 {
			continue
		}
		var bits EventBits
		if re&unix.POLLIN != 0 {
			bits |= EventRead
		}
		if re&unix.POLLOUT != 0 {
			bits |= EventWrite
		}
		if re&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			bits |= EventError
		}
		if bits != 0 {
			items[i].Ready = bits
			ready++
		}
	}
	return ready, nil
}

// Close implements Poller.
func (p *pollPoller) Close() error {
	p.closed = true
	p.fds = nil
	return nil
}
