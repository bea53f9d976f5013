// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"net"

	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/control"
	"github.com/momentics/hioload-frame/internal/concurrency"
	"github.com/momentics/hioload-frame/internal/transport"
	"github.com/momentics/hioload-frame/pool"
	"github.com/momentics/hioload-frame/protocol"
	"github.com/momentics/hioload-frame/reactor"
)

var (
	// ErrAlreadyRunning is returned by Run when the loop is live.
	ErrAlreadyRunning = errors.New("server: already running")

	// ErrFatalLoop wraps readiness-primitive failures. Everything else the
	// loop encounters is contained per connection; only this terminates
	// the server.
	ErrFatalLoop = errors.New("server: readiness primitive failure")
)

// New binds the listening socket and assembles an event loop around
// handler. The loop does not run until Run is called.
func New(cfg *Config, handler api.Handler, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("server: config: %w", err)
	}
	if handler == nil {
		return nil, errors.New("server: nil handler")
	}

	s := &Server{
		cfg:     cfg,
		log:     api.DefaultLogger(),
		handler: handler,
		conns:   NewRegistry(64),
		tasks:   concurrency.NewTaskQueue(),
		bufPool: pool.NewBytePool(protocol.HeaderSize + protocol.MaxMessageSize),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = control.NewMetrics()
	}
	if s.poller == nil {
		p, err := reactor.NewPoller(cfg.Backend)
		if err != nil {
			return nil, err
		}
		s.poller = p
	}

	ln, err := transport.Listen(cfg.ListenAddr)
	if err != nil {
		s.poller.Close()
		return nil, err
	}
	s.listener = ln
	return s, nil
}

// Addr returns the bound listen address, with any ephemeral port
// resolved.
func (s *Server) Addr() *net.TCPAddr {
	return s.listener.Addr()
}

// Metrics exposes the loop's collector set, e.g. for serving a scrape
// endpoint.
func (s *Server) Metrics() *control.Metrics {
	return s.metrics
}

// Post schedules fn for execution on the loop thread before the next
// readiness wait. This is the only sanctioned way for other goroutines to
// touch loop-owned state.
func (s *Server) Post(fn func()) {
	s.tasks.Post(fn)
}

// Shutdown asks the loop to exit. It returns immediately; Done is closed
// once the loop has torn everything down. Safe to call repeatedly and
// from any goroutine.
func (s *Server) Shutdown() {
	s.tasks.Post(func() { s.quit = true })
}

// Done is closed when Run has returned and all resources are released.
func (s *Server) Done() <-chan struct{} {
	return s.done
}
