// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/control"
	"github.com/momentics/hioload-frame/reactor"
)

// Option customizes server initialization.
type Option func(*Server)

// WithLogger replaces the default slog logger.
func WithLogger(log api.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics injects a shared metrics collector.
func WithMetrics(m *control.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithPoller injects a readiness poller, overriding the configured
// backend. Used by tests to script loop behavior.
func WithPoller(p reactor.Poller) Option {
	return func(s *Server) {
		if p != nil {
			s.poller = p
		}
	}
}
