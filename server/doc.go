// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package server implements the single-threaded event loop: listener
// admission, interest-set construction, readiness dispatch into connection
// state machines, and reaping of terminated connections.
package server
