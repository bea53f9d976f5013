//go:build unix && !linux
// +build unix,!linux

// File: reactor/reactor_other.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux Unix platforms only carry the portable poll(2) backend.

package reactor

func newPoller(backend string) (Poller, error) {
	switch backend {
	case "", BackendPoll:
		return newPollPoller()
	default:
		return nil, unknownBackend(backend)
	}
}
