// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the interfaces and shared types that connect the
// framing core to its collaborators: non-blocking stream sockets, the
// readiness poller, request handlers, and logging.
package api
