// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package transport implements the non-blocking socket and listener
// collaborators over raw descriptors, mapping EAGAIN onto the would-block
// sentinel the state machine suspends on.
package transport
