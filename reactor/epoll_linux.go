//go:build linux
// +build linux

// File: reactor/epoll_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) backend. epoll keeps registrations inside the kernel, so
// this backend reconciles the caller's per-call interest set against the
// installed one with ADD/MOD/DEL operations before waiting. Registration
// runs level-triggered to match the poll(2) backend exactly.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type epollPoller struct {
	epfd       int
	registered map[int]EventBits // interest currently installed in the kernel
	index      map[int]int       // fd -> position in the current items slice
	events     []unix.EpollEvent
}

func newEpollPoller() (Poller, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll create: %w", err)
	}
	return &epollPoller{
		epfd:       epfd,
		registered: make(map[int]EventBits),
		index:      make(map[int]int),
	}, nil
}

func epollMask(bits EventBits) uint32 {
	var ev uint32
	if bits&EventRead != 0 {
		ev |= unix.EPOLLIN
	}
	if bits&EventWrite != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

// reconcile applies the difference between the requested interest set and
// the installed registrations.
func (p *epollPoller) reconcile(items []PollItem) error {
	clear(p.index)
	for i := range items {
		fd := items[i].Fd
		want := items[i].Interest
		p.index[fd] = i

		have, ok := p.registered[fd]
		if ok && have == want {
			continue
		}
		ev := &unix.EpollEvent{Events: epollMask(want), Fd: int32(fd)}
		op := unix.EPOLL_CTL_ADD
		if ok {
			op = unix.EPOLL_CTL_MOD
		}
		err := unix.EpollCtl(p.epfd, op, fd, ev)
		// Closing a descriptor removes it from the kernel set behind our
		// back, and the number can come back on a fresh accept. Retry with
		// the opposite operation when the cached registration is stale.
		if err == unix.ENOENT {
			err = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev)
		} else if err == unix.EEXIST {
			err = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, ev)
		}
		if err != nil {
			return fmt.Errorf("reactor: epoll ctl fd=%d: %w", fd, err)
		}
		p.registered[fd] = want
	}
	for fd := range p.registered {
		if _, ok := p.index[fd]; ok {
			continue
		}
		// The descriptor may already be closed; deregistration then happened
		// implicitly in the kernel.
		_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
		delete(p.registered, fd)
	}
	return nil
}

// Wait implements Poller.
func (p *epollPoller) Wait(items []PollItem, timeout time.Duration) (int, error) {
	if err := p.reconcile(items); err != nil {
		return 0, err
	}
	for i := range items {
		items[i].Ready = 0
	}

	if cap(p.events) < len(items) || len(p.events) == 0 {
		p.events = make([]unix.EpollEvent, len(items)+1)
	}
	evs := p.events[:cap(p.events)]

	n, err := unix.EpollWait(p.epfd, evs, timeoutMillis(timeout))
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("reactor: epoll wait: %w", err)
	}

	ready := 0
	for i := 0; i < n; i++ {
		idx, ok := p.index[int(evs[i].Fd)]
		if !ok {
			continue
		}
		var bits EventBits
		if evs[i].Events&unix.EPOLLIN != 0 {
			bits |= EventRead
		}
		if evs[i].Events&unix.EPOLLOUT != 0 {
			bits |= EventWrite
		}
		if evs[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			bits |= EventError
		}
		if bits != 0 && items[idx].Ready == 0 {
			ready++
		}
		items[idx].Ready |= bits
	}
	return ready, nil
}

// Close releases the epoll descriptor.
func (p *epollPoller) Close() error {
	p.registered = nil
	p.index = nil
	return unix.Close(p.epfd)
}

// newPoller selects the Linux backend: epoll by default, poll(2) on
// request.
func newPoller(backend string) (Poller, error) {
	switch backend {
	case "", BackendEpoll:
		return newEpollPoller()
	case BackendPoll:
		return newPollPoller()
	default:
		return nil, unknownBackend(backend)
	}
}
