// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Loop metrics collector. Each server owns its own registry so multiple
// instances in one process never collide on collector registration.

package control

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hioload_frame"

// Metrics aggregates event-loop counters.
type Metrics struct {
	registry *prometheus.Registry

	Accepted     prometheus.Counter
	AcceptErrors prometheus.Counter
	Live         prometheus.Gauge
	MessagesIn   prometheus.Counter
	MessagesOut  prometheus.Counter
	BytesIn      prometheus.Counter
	BytesOut     prometheus.Counter
	Closed       *prometheus.CounterVec
	Iterations   prometheus.Counter
}

// NewMetrics creates a collector set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Accepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_accepted_total",
			Help:      "Connections accepted by the event loop.",
		}),
		AcceptErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accept_errors_total",
			Help:      "Accept attempts that failed and were ignored.",
		}),
		Live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_live",
			Help:      "Connections currently held in the registry.",
		}),
		MessagesIn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_in_total",
			Help:      "Complete request messages extracted from client streams.",
		}),
		MessagesOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_out_total",
			Help:      "Response messages framed for transmission.",
		}),
		BytesIn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_in_total",
			Help:      "Bytes read from client sockets.",
		}),
		BytesOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_out_total",
			Help:      "Bytes written to client sockets.",
		}),
		Closed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_closed_total",
			Help:      "Connections reaped, labeled by close reason.",
		}, []string{"reason"}),
		Iterations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_iterations_total",
			Help:      "Event loop iterations completed.",
		}),
	}
}

// Registry exposes the backing registry for custom collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
