// File: control/metrics_test.go
// Author: momentics <momentics@gmail.com>

package control_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/momentics/hioload-frame/control"
)

func TestMetricsCounters(t *testing.T) {
	m := control.NewMetrics()
	m.Accepted.Inc()
	m.Accepted.Inc()
	m.Live.Set(7)
	m.Closed.WithLabelValues("peer_closed").Inc()

	if got := testutil.ToFloat64(m.Accepted); got != 2 {
		t.Fatalf("accepted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Live); got != 7 {
		t.Fatalf("live = %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.Closed.WithLabelValues("peer_closed")); got != 1 {
		t.Fatalf("closed{peer_closed} = %v, want 1", got)
	}
}

func TestMetricsIndependentRegistries(t *testing.T) {
	// Two collector sets must not collide on registration.
	a := control.NewMetrics()
	b := control.NewMetrics()
	a.Accepted.Inc()
	if got := testutil.ToFloat64(b.Accepted); got != 0 {
		t.Fatalf("second registry saw %v accepted", got)
	}
}

func TestMetricsHandlerServesScrape(t *testing.T) {
	m := control.NewMetrics()
	m.MessagesIn.Add(3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if rec.Code != 200 || !strings.Contains(body, "hioload_frame_messages_in_total 3") {
		t.Fatalf("scrape output missing counter; code=%d body=%q", rec.Code, body)
	}
}
