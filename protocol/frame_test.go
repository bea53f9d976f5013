// File: protocol/frame_test.go
// Author: momentics <momentics@gmail.com>

package protocol_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/momentics/hioload-frame/protocol"
)

func frame(t *testing.T, payload []byte) []byte {
	t.Helper()
	out, err := protocol.EncodeMessage(nil, payload)
	if err != nil {
		t.Fatalf("EncodeMessage(%d bytes) error: %v", len(payload), err)
	}
	return out
}

func TestEncodeExtractRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("x"),
		[]byte("hello, framing"),
		bytes.Repeat([]byte{0xAB}, protocol.MaxMessageSize),
	}
	for _, p := range payloads {
		wire := frame(t, p)
		msg, consumed, err := protocol.ExtractMessage(wire)
		if err != nil {
			t.Fatalf("ExtractMessage error for %d-byte payload: %v", len(p), err)
		}
		if consumed != protocol.HeaderSize+len(p) {
			t.Fatalf("consumed = %d, want %d", consumed, protocol.HeaderSize+len(p))
		}
		if !bytes.Equal(msg, p) {
			t.Fatalf("payload mismatch for %d-byte payload", len(p))
		}
	}
}

func TestEncodeMessageRejectsOversize(t *testing.T) {
	_, err := protocol.EncodeMessage(nil, make([]byte, protocol.MaxMessageSize+1))
	if !errors.Is(err, protocol.ErrMessageTooLong) {
		t.Fatalf("err = %v, want ErrMessageTooLong", err)
	}
}

func TestDecodeHeaderTooLongWithoutBody(t *testing.T) {
	// Only the header is present; the violation must be detected without
	// waiting for any body bytes.
	var hdr [protocol.HeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[:], protocol.MaxMessageSize+1)

	_, _, err := protocol.DecodeHeader(hdr[:])
	if !errors.Is(err, protocol.ErrMessageTooLong) {
		t.Fatalf("DecodeHeader err = %v, want ErrMessageTooLong", err)
	}
	_, _, err = protocol.ExtractMessage(hdr[:])
	if !errors.Is(err, protocol.ErrMessageTooLong) {
		t.Fatalf("ExtractMessage err = %v, want ErrMessageTooLong", err)
	}
}

func TestDecodeHeaderNeedsMoreData(t *testing.T) {
	for n := 0; n < protocol.HeaderSize; n++ {
		_, ok, err := protocol.DecodeHeader(make([]byte, n))
		if err != nil || ok {
			t.Fatalf("DecodeHeader(%d bytes) = ok=%v err=%v, want incomplete", n, ok, err)
		}
	}
}

func TestExtractMessageByteAtATime(t *testing.T) {
	wire := frame(t, []byte("partial delivery"))
	for n := 0; n < len(wire); n++ {
		msg, consumed, err := protocol.ExtractMessage(wire[:n])
		if err != nil {
			t.Fatalf("prefix %d: unexpected error %v", n, err)
		}
		if msg != nil || consumed != 0 {
			t.Fatalf("prefix %d: got (%v, %d), want incomplete", n, msg, consumed)
		}
	}
	msg, consumed, err := protocol.ExtractMessage(wire)
	if err != nil || consumed != len(wire) || !bytes.Equal(msg, []byte("partial delivery")) {
		t.Fatalf("full frame: got (%q, %d, %v)", msg, consumed, err)
	}
}

func TestExtractMessagePipelined(t *testing.T) {
	p1 := []byte("first")
	p2 := []byte("second message")
	wire := append(frame(t, p1), frame(t, p2)...)

	msg, consumed, err := protocol.ExtractMessage(wire)
	if err != nil || !bytes.Equal(msg, p1) {
		t.Fatalf("first extract: (%q, %v)", msg, err)
	}
	wire = wire[consumed:]

	msg, consumed, err = protocol.ExtractMessage(wire)
	if err != nil || !bytes.Equal(msg, p2) {
		t.Fatalf("second extract: (%q, %v)", msg, err)
	}
	wire = wire[consumed:]

	if len(wire) != 0 {
		t.Fatalf("residual bytes after draining: %d", len(wire))
	}
}
