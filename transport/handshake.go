// File: transport/handshake.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"context"

	"github.com/kvbridge/glide-transport/coreerr"
	"github.com/kvbridge/glide-transport/protocol"
)

// Handshake sends a single framed ConnectionRequest and waits for a
// single framed ConnectionResponse, per spec.md §4.1's bootstrap. It
// must be called before ReadLoop starts — the handshake response is
// read synchronously off the same stream, reusing the frame codec's
// carry-over logic in case the response arrives split across reads.
func (t *Transport) Handshake(ctx context.Context, req *protocol.ConnectionRequest) (*protocol.ConnectionResponse, error) {
	if err := t.WriteFrame(ctx, req.EncodeFrame(nil)); err != nil {
		return nil, err
	}

	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(dl)
		defer t.conn.SetReadDeadline(noDeadline)
	}

	var carry []byte
	buf := make([]byte, 4096)
	for {
		n, err := t.conn.Read(buf)
		if err != nil {
			return nil, &coreerr.ConnectionError{Diagnostic: "handshake read failed", Cause: err}
		}

		carry = append(carry, buf[:n]...)
		body, _, truncated, decErr := protocol.ConsumeFrame(carry)
		if decErr != nil {
			return nil, &coreerr.ProtocolViolationError{Diagnostic: "malformed handshake response", Cause: decErr}
		}
		if truncated {
			continue
		}

		resp, err := protocol.UnmarshalConnectionResponse(body)
		if err != nil {
			return nil, &coreerr.ProtocolViolationError{Diagnostic: "malformed handshake response body", Cause: err}
		}
		return resp, nil
	}
}
