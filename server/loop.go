// File: server/loop.go
// Package server implements the readiness-polling event loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One iteration: drain posted tasks, rebuild the interest set, block on
// the poller with a bounded wait, admit pending connections, dispatch
// ready sockets into their state machines, then reap everything that
// reached the terminal state. Per-connection failures never abort the
// loop; a poller failure does.

package server

import (
	"errors"
	"fmt"

	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/protocol"
	"github.com/momentics/hioload-frame/reactor"
)

// Run executes the event loop on the calling goroutine until Shutdown is
// observed or the readiness primitive fails. It returns nil on clean
// shutdown.
func (s *Server) Run() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.cleanup()

	s.log.Info("event loop started",
		"addr", s.listener.Addr().String(),
		"backend", s.cfg.Backend,
		"drain_pipelined", s.cfg.DrainPipelined)

	for {
		s.tasks.Drain(0)
		if s.quit {
			return nil
		}

		items := s.buildInterest()
		n, err := s.poller.Wait(items, s.cfg.PollInterval)
		if err != nil {
			s.log.Error("readiness wait failed", "error", err)
			return fmt.Errorf("%w: %v", ErrFatalLoop, err)
		}
		s.metrics.Iterations.Inc()

		if n > 0 {
			s.dispatch(items)
		}
		s.sweep()
	}
}

// buildInterest assembles the iteration's interest set: the listener is
// always read-interested; each live connection is read- or
// write-interested depending on its state, never both. Error and hangup
// conditions are always reported by the poller regardless of interest.
func (s *Server) buildInterest() []reactor.PollItem {
	items := s.items[:0]
	items = append(items, reactor.PollItem{Fd: s.listener.Fd(), Interest: reactor.EventRead})
	s.conns.ForEachLive(func(fd int, conn *protocol.Conn) {
		switch conn.State() {
		case protocol.StateReading:
			items = append(items, reactor.PollItem{Fd: fd, Interest: reactor.EventRead})
		case protocol.StateWriting:
			items = append(items, reactor.PollItem{Fd: fd, Interest: reactor.EventWrite})
		case protocol.StateClosing:
			// Scheduled for the sweep; not polled.
		}
	})
	s.items = items
	return items
}

// dispatch routes readiness to the listener or the owning connection.
func (s *Server) dispatch(items []reactor.PollItem) {
	for i := range items {
		it := &items[i]
		if it.Ready == 0 {
			continue
		}
		if it.Fd == s.listener.Fd() {
			if it.Ready&reactor.EventRead != 0 {
				s.acceptPending()
			}
			continue
		}
		conn := s.conns.Get(it.Fd)
		if conn == nil {
			continue
		}
		conn.Dispatch(
			it.Ready&reactor.EventRead != 0,
			it.Ready&reactor.EventWrite != 0,
			it.Ready&reactor.EventError != 0,
		)
	}
}

// acceptPending admits connections until the burst cap, the connection
// limit, or the backlog is exhausted. Individual accept failures are
// logged and ignored; they never terminate the loop.
func (s *Server) acceptPending() {
	for admitted := 0; s.cfg.AcceptBurst == 0 || admitted < s.cfg.AcceptBurst; admitted++ {
		sock, err := s.listener.Accept()
		if errors.Is(err, api.ErrWouldBlock) {
			return
		}
		if err != nil {
			s.metrics.AcceptErrors.Inc()
			s.log.Warn("accept failed", "error", err)
			return
		}
		if s.conns.Len() >= s.cfg.MaxConns {
			s.log.Warn("connection limit reached, dropping",
				"fd", sock.Fd(), "limit", s.cfg.MaxConns)
			sock.Close()
			continue
		}

		conn := protocol.NewConn(sock, s.handler,
			protocol.WithDrainPipelined(s.cfg.DrainPipelined),
			protocol.WithBufferPool(s.bufPool))
		if err := s.conns.Insert(sock.Fd(), conn); err != nil {
			s.log.Error("registry insert failed", "fd", sock.Fd(), "error", err)
			conn.Close()
			continue
		}
		s.metrics.Accepted.Inc()
		s.metrics.Live.Set(float64(s.conns.Len()))
		s.log.Debug("connection accepted", "fd", sock.Fd())
	}
}

// sweep removes and closes every connection that reached StateClosing
// during this iteration.
func (s *Server) sweep() {
	s.dead = s.dead[:0]
	s.conns.ForEachLive(func(fd int, conn *protocol.Conn) {
		if conn.State() == protocol.StateClosing {
			s.dead = append(s.dead, fd)
		}
	})
	if len(s.dead) == 0 {
		return
	}

	for _, fd := range s.dead {
		conn := s.conns.Get(fd)
		s.conns.Remove(fd)
		s.reap(fd, conn)
	}
	s.metrics.Live.Set(float64(s.conns.Len()))
}

// reap folds a finished connection's counters into the loop metrics and
// releases its socket.
func (s *Server) reap(fd int, conn *protocol.Conn) {
	reason := conn.CloseReason()
	stats := conn.Stats()
	conn.Close()

	s.metrics.BytesIn.Add(float64(stats["bytes_in"]))
	s.metrics.BytesOut.Add(float64(stats["bytes_out"]))
	s.metrics.MessagesIn.Add(float64(stats["messages_in"]))
	s.metrics.MessagesOut.Add(float64(stats["messages_out"]))
	s.metrics.Closed.WithLabelValues(reason.String()).Inc()

	if err := conn.Err(); err != nil {
		s.log.Warn("connection terminated", "fd", fd, "reason", reason.String(), "error", err)
	} else {
		s.log.Debug("connection closed", "fd", fd, "reason", reason.String())
	}
}

// cleanup tears down every loop-owned resource after Run exits.
func (s *Server) cleanup() {
	s.conns.ForEachLive(func(fd int, conn *protocol.Conn) {
		conn.Close()
	})
	s.conns = NewRegistry(16)
	s.listener.Close()
	s.poller.Close()
	s.log.Info("event loop stopped")
	close(s.done)
}
