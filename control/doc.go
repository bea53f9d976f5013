// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package control exposes runtime observability for the event loop:
// Prometheus counters and gauges maintained by the loop thread.
package control
