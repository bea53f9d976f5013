// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the level-triggered readiness-polling primitive
// behind the event loop, with poll(2) and epoll(7) backends selected at
// construction. The interest-set contract is identical across backends.
package reactor
