// File: fake/peer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/kvbridge/glide-transport/protocol"
)

// HandshakeFunc decides how the fake peer answers the one-shot
// ConnectionRequest.
type HandshakeFunc func(*protocol.ConnectionRequest) *protocol.ConnectionResponse

// RequestFunc decides how the fake peer answers a decoded Request. A
// nil return means "no reply yet" — useful for scenarios where the
// test wants to send a closing_error or out-of-band response later via
// Peer.Send instead.
type RequestFunc func(*protocol.Request) *protocol.Response

// AlwaysOK is a HandshakeFunc that accepts every handshake.
func AlwaysOK(*protocol.ConnectionRequest) *protocol.ConnectionResponse {
	return &protocol.ConnectionResponse{OK: true}
}

// EchoConstantOK is a RequestFunc that answers every request with the
// constant-OK sentinel.
func EchoConstantOK(req *protocol.Request) *protocol.Response {
	return &protocol.Response{CallbackIdx: req.CallbackIdx, Kind: protocol.KindConstantOK}
}

// Peer is one accepted connection from a fake native engine. It speaks
// the real frame codec: one handshake frame, then an unbounded stream
// of Request/Response frames.
type Peer struct {
	conn     net.Conn
	splitter protocol.FrameSplitter
	mu       sync.Mutex

	Requests []*protocol.Request // every request seen so far, in arrival order
}

// Accept performs the handshake on conn using onHandshake and returns a
// Peer ready to Serve. Returns an error if the handshake frame is
// malformed or never arrives, accumulating reads the same way Serve
// does in case the handshake frame itself arrives split across
// multiple socket reads.
func Accept(conn net.Conn, onHandshake HandshakeFunc) (*Peer, error) {
	var splitter protocol.FrameSplitter
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("fake: reading handshake: %w", err)
		}
		bodies, derr := splitter.Feed(buf[:n])
		if derr != nil {
			return nil, fmt.Errorf("fake: malformed handshake frame: %w", derr)
		}
		if len(bodies) == 0 {
			continue
		}
		req, uerr := protocol.UnmarshalConnectionRequest(bodies[0])
		if uerr != nil {
			return nil, fmt.Errorf("fake: malformed handshake body: %w", uerr)
		}
		resp := onHandshake(req)
		if _, werr := conn.Write(resp.EncodeFrame(nil)); werr != nil {
			return nil, fmt.Errorf("fake: writing handshake response: %w", werr)
		}
		return &Peer{conn: conn}, nil
	}
}

// Serve reads Request frames until the connection closes. Every
// decoded request is recorded and handed to onRequest; a non-nil
// returned Response is written back immediately.
func (p *Peer) Serve(onRequest RequestFunc) error {
	buf := make([]byte, 4096)
	for {
		n, err := p.conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		bodies, decErr := p.splitter.Feed(buf[:n])
		for _, body := range bodies {
			req, uerr := protocol.UnmarshalRequest(body)
			if uerr != nil {
				return uerr
			}
			p.mu.Lock()
			p.Requests = append(p.Requests, req)
			p.mu.Unlock()
			if resp := onRequest(req); resp != nil {
				if _, werr := p.conn.Write(resp.EncodeFrame(nil)); werr != nil {
					return werr
				}
			}
		}
		if decErr != nil {
			return decErr
		}
	}
}

// Send writes an arbitrary Response (e.g. an unsolicited closing_error)
// directly to the peer's connection.
func (p *Peer) Send(resp *protocol.Response) error {
	_, err := p.conn.Write(resp.EncodeFrame(nil))
	return err
}

// Close closes the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}
