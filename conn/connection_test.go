// File: conn/connection_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package conn

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kvbridge/glide-transport/config"
	"github.com/kvbridge/glide-transport/fake"
	"github.com/kvbridge/glide-transport/pipeline"
	"github.com/kvbridge/glide-transport/protocol"
)

func testConfig() config.Config {
	return config.Config{Addresses: []config.Address{{Host: "localhost"}}}
}

// acceptOne starts a fake peer listening on a fresh Unix socket,
// accepts exactly one connection with onHandshake, and hands the
// resulting *fake.Peer to onPeer on a background goroutine. It returns
// the socket path to dial; the listener is closed via t.Cleanup.
func acceptOne(t *testing.T, onHandshake fake.HandshakeFunc, onPeer func(*fake.Peer)) string {
	t.Helper()
	l, path, err := fake.ListenUnixSocket()
	if err != nil {
		t.Fatalf("ListenUnixSocket: %v", err)
	}
	t.Cleanup(func() { l.Close() })

	go func() {
		raw, err := l.Accept()
		if err != nil {
			return
		}
		peer, err := fake.Accept(raw, onHandshake)
		if err != nil {
			return
		}
		onPeer(peer)
	}()
	return path
}

func TestConnect_SubmitResolvesConstantOK(t *testing.T) {
	path := acceptOne(t, fake.AlwaysOK, func(p *fake.Peer) {
		_ = p.Serve(fake.EchoConstantOK)
	})

	c, err := Connect(context.Background(), path, testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close(nil)

	var wg sync.WaitGroup
	results := make([]interface{}, 2)
	errs := make([]error, 2)
	reqs := []protocol.RequestDescriptor{
		{RequestType: 1, Args: [][]byte{[]byte("GET"), []byte("k")}},
		{RequestType: 2},
	}
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req protocol.RequestDescriptor) {
			defer wg.Done()
			v, err := c.Submit(context.Background(), req)
			results[i] = v
			errs[i] = err
		}(i, req)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("submit %d: unexpected error: %v", i, errs[i])
		}
		if results[i] != "OK" {
			t.Fatalf("submit %d: expected OK, got %v", i, results[i])
		}
	}
}

func TestConnect_OversizedArgsUsesInterner(t *testing.T) {
	path := acceptOne(t, fake.AlwaysOK, func(p *fake.Peer) {
		_ = p.Serve(fake.EchoConstantOK)
	})

	var internCalls int
	var mu sync.Mutex
	interner := pipeline.ArgInternerFunc(func(ctx context.Context, args [][]byte) (uint64, error) {
		mu.Lock()
		internCalls++
		mu.Unlock()
		return 42, nil
	})

	cfg := testConfig()
	cfg.MaxInlineArgsBytes = 8

	c, err := Connect(context.Background(), path, cfg, nil, interner)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close(nil)

	v, err := c.Submit(context.Background(), protocol.RequestDescriptor{
		RequestType: 1,
		Args:        [][]byte{bytes.Repeat([]byte("x"), 32)},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if v != "OK" {
		t.Fatalf("expected OK, got %v", v)
	}

	mu.Lock()
	defer mu.Unlock()
	if internCalls != 1 {
		t.Fatalf("expected exactly one intern call, got %d", internCalls)
	}
}

func TestConnect_ClosingErrorTearsDownAllOutstanding(t *testing.T) {
	reqCh := make(chan *protocol.Request, 8)
	var peerRef *fake.Peer
	var peerMu sync.Mutex
	peerReady := make(chan struct{})

	path := acceptOne(t, fake.AlwaysOK, func(p *fake.Peer) {
		peerMu.Lock()
		peerRef = p
		peerMu.Unlock()
		close(peerReady)
		_ = p.Serve(func(req *protocol.Request) *protocol.Response {
			reqCh <- req
			return nil
		})
	})

	c, err := Connect(context.Background(), path, testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = c.Submit(context.Background(), protocol.RequestDescriptor{RequestType: 1})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = c.Submit(context.Background(), protocol.RequestDescriptor{RequestType: 2})
	}()

	<-peerReady
	var first *protocol.Request
	select {
	case first = <-reqCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first request")
	}
	select {
	case <-reqCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second request")
	}

	peerMu.Lock()
	p := peerRef
	peerMu.Unlock()
	if err := p.Send(&protocol.Response{CallbackIdx: first.CallbackIdx, Kind: protocol.KindClosingError, ClosingError: "shutdown"}); err != nil {
		t.Fatalf("Send closing_error: %v", err)
	}

	wg.Wait()
	for i, err := range errs {
		if err == nil {
			t.Fatalf("submit %d: expected rejection, got nil", i)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != StateClosed && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.State() != StateClosed {
		t.Fatalf("expected connection to reach Closed, got %s", c.State())
	}

	if _, err := c.Submit(context.Background(), protocol.RequestDescriptor{RequestType: 3}); err == nil {
		t.Fatal("expected submit after teardown to reject synchronously")
	}
}

func TestConnect_ManySubmissionsReplyOutOfOrder(t *testing.T) {
	const n = 200

	path := acceptOne(t, fake.AlwaysOK, func(p *fake.Peer) {
		var mu sync.Mutex
		var reqs []*protocol.Request
		done := make(chan struct{})
		go func() {
			_ = p.Serve(func(req *protocol.Request) *protocol.Response {
				mu.Lock()
				reqs = append(reqs, req)
				ready := len(reqs) == n
				mu.Unlock()
				if ready {
					close(done)
				}
				return nil
			})
		}()
		<-done
		mu.Lock()
		ordered := append([]*protocol.Request(nil), reqs...)
		mu.Unlock()
		for i := len(ordered) - 1; i >= 0; i-- {
			_ = p.Send(&protocol.Response{CallbackIdx: ordered[i].CallbackIdx, Kind: protocol.KindConstantOK})
		}
	})

	c, err := Connect(context.Background(), path, testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close(nil)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Submit(context.Background(), protocol.RequestDescriptor{RequestType: int32(i)})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("submit %d: unexpected error: %v", i, err)
		}
	}
}

func TestConnect_HandshakeRejectionFailsConnect(t *testing.T) {
	l, path, err := fake.ListenUnixSocket()
	if err != nil {
		t.Fatalf("ListenUnixSocket: %v", err)
	}
	defer l.Close()

	go func() {
		raw, err := l.Accept()
		if err != nil {
			return
		}
		_, _ = fake.Accept(raw, func(*protocol.ConnectionRequest) *protocol.ConnectionResponse {
			return &protocol.ConnectionResponse{OK: false, Error: "bad credentials"}
		})
	}()

	_, err = Connect(context.Background(), path, testConfig(), nil, nil)
	if err == nil {
		t.Fatal("expected Connect to fail on handshake rejection")
	}
}

func TestConnect_DialFailureReturnsError(t *testing.T) {
	_, err := Connect(context.Background(), "/nonexistent/path/to.sock", testConfig(), nil, nil)
	if err == nil {
		t.Fatal("expected dial failure")
	}
}
