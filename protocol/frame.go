// File: protocol/frame.go
// Package protocol implements the length-prefixed message codec.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wire format: [4-byte little-endian length L][L bytes payload], 0 <= L <=
// MaxMessageSize. No padding, no checksum. Multiple messages may be
// pipelined back-to-back in one buffer; ExtractMessage pulls exactly one
// per call and reports how many bytes it consumed so the caller can advance
// its cursor and retry.

package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed length prefix in bytes.
	HeaderSize = 4

	// MaxMessageSize is the maximum allowed payload length for a single
	// message. A header declaring more is a protocol violation and must
	// terminate the connection.
	MaxMessageSize = 4096
)

// ErrMessageTooLong reports a header declaring a payload beyond
// MaxMessageSize. This is a protocol violation, not a partial read.
var ErrMessageTooLong = errors.New("protocol: declared message length exceeds limit")

// DecodeHeader inspects the length prefix at the start of b.
// Returns ok=false when fewer than HeaderSize bytes are present.
// ErrMessageTooLong is reported as soon as the header is visible, without
// waiting for any body bytes.
func DecodeHeader(b []byte) (length int, ok bool, err error) {
	if len(b) < HeaderSize {
		return 0, false, nil
	}
	n := binary.LittleEndian.Uint32(b)
	if n > MaxMessageSize {
		return 0, false, fmt.Errorf("%w: %d > %d", ErrMessageTooLong, n, MaxMessageSize)
	}
	return int(n), true, nil
}

// ExtractMessage pulls one complete message from the front of buf.
// Returns the payload (aliasing buf) and the total bytes consumed,
// including the header. If the frame is incomplete, returns (nil, 0, nil).
func ExtractMessage(buf []byte) (msg []byte, consumed int, err error) {
	length, ok, err := DecodeHeader(buf)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, nil
	}
	total := HeaderSize + length
	if len(buf) < total {
		return nil, 0, nil
	}
	return buf[HeaderSize:total], total, nil
}

// EncodeMessage appends the framed representation of payload to dst and
// returns the extended slice. Caller owns the result.
func EncodeMessage(dst []byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxMessageSize {
		return dst, fmt.Errorf("%w: %d > %d", ErrMessageTooLong, len(payload), MaxMessageSize)
	}
	var hdr [HeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	dst = append(dst, hdr[:]...)
	return append(dst, payload...), nil
}
