// File: server/types.go
// Author: momentics <momentics@gmail.com>

package server

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-frame/api"
	"github.com/momentics/hioload-frame/control"
	"github.com/momentics/hioload-frame/internal/concurrency"
	"github.com/momentics/hioload-frame/internal/transport"
	"github.com/momentics/hioload-frame/pool"
	"github.com/momentics/hioload-frame/reactor"
)

// Config holds all server-side configuration parameters.
type Config struct {
	// ListenAddr is the TCP bind address, e.g. ":1234". Port 0 picks an
	// ephemeral port, resolvable through Server.Addr.
	ListenAddr string `yaml:"listen_addr"`

	// Backend selects the readiness primitive: "epoll" or "poll". Empty
	// picks the platform default. The choice does not affect behavior,
	// only scalability.
	Backend string `yaml:"backend"`

	// PollInterval bounds every readiness wait so the loop can run
	// periodic maintenance (posted tasks, shutdown checks) even with no
	// socket activity. It does not affect correctness, only
	// responsiveness to non-socket events.
	PollInterval time.Duration `yaml:"-"`

	// MaxConns caps the number of live connections; further accepts are
	// closed immediately.
	MaxConns int `yaml:"max_conns"`

	// AcceptBurst caps connections admitted per readiness notification.
	// Zero drains everything immediately available.
	AcceptBurst int `yaml:"accept_burst"`

	// DrainPipelined selects the per-dispatch draining policy: process
	// every fully-buffered pipelined request before yielding (true) or
	// one request per write cycle (false).
	DrainPipelined bool `yaml:"drain_pipelined"`

	// MetricsAddr, when non-empty, is where the command serves the
	// Prometheus scrape endpoint.
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:     ":1234",
		Backend:        "",
		PollInterval:   time.Second,
		MaxConns:       4096,
		AcceptBurst:    0,
		DrainPipelined: true,
	}
}

// Server owns the event loop and every resource it multiplexes. All socket
// and registry access happens on the loop goroutine; other goroutines
// communicate with it exclusively through Post.
type Server struct {
	cfg     *Config
	log     api.Logger
	handler api.Handler
	metrics *control.Metrics

	poller   reactor.Poller
	listener *transport.Listener
	conns    *Registry
	tasks    *concurrency.TaskQueue
	bufPool  *pool.BytePool

	// items and dead are reused across iterations to keep the hot loop
	// allocation-free.
	items []reactor.PollItem
	dead  []int

	running atomic.Bool
	quit    bool
	done    chan struct{}
}
