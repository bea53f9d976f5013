// File: api/handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler processes one fully-parsed request and produces the response
// payload. It is invoked synchronously on the event-loop thread once per
// extracted message and must not block. Request and response payloads are
// bounded by the protocol message size limit.
//
// A non-nil error terminates the connection.
type Handler interface {
	Handle(req []byte) ([]byte, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(req []byte) ([]byte, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(req []byte) ([]byte, error) {
	return f(req)
}
