// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package pool provides the arena-style IO buffer used by connections and
// a recycling pool that keeps per-connection buffers off the allocator
// fast path.
package pool
