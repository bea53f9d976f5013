// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package protocol implements the length-prefixed wire framing and the
// per-socket connection state machine that drives one client session
// through its read/process/write cycle without ever blocking.
package protocol
