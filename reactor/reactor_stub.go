//go:build !unix
// +build !unix

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import "errors"

func newPoller(string) (Poller, error) {
	return nil, errors.New("reactor: this platform is not supported")
}
