// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package concurrency carries the cross-thread handoff primitive for the
// single-threaded event loop: work posted from other goroutines is queued
// and executed only on the loop thread.
package concurrency
