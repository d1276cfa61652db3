// File: transport/transport.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transport is a thin, pool-backed wrapper around a net.Conn carrying
// this module's length-delimited wire protocol over a Unix-domain
// socket or named pipe.

package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/kvbridge/glide-transport/config"
	"github.com/kvbridge/glide-transport/coreerr"
	"github.com/kvbridge/glide-transport/pool"
)

const defaultReadChunkSize = 64 * 1024

// dialRetryBaseInterval is the starting wait Dial's bootstrap retry
// applies cfg.ConnectionBackoff's factor/exponent/jitter to.
const dialRetryBaseInterval = 50 * time.Millisecond

var noDeadline time.Time

// Transport owns one connected stream to the native peer.
type Transport struct {
	conn    net.Conn
	bufPool *pool.ChunkPool
	log     logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
}

// newTransport wraps an already-connected stream. Unexported: callers
// go through Dial, which picks the platform-specific dial function.
func newTransport(conn net.Conn, log logrus.FieldLogger) *Transport {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Transport{
		conn:    conn,
		bufPool: pool.NewChunkPool(defaultReadChunkSize),
		log:     log,
	}
}

// Dial connects to the native peer's bootstrap endpoint. socketPath is
// whatever the process-level bootstrap entry point yielded: a
// filesystem path to a Unix-domain socket on POSIX, or a named-pipe
// path on Windows. The platform split lives in dialPlatform
// (bootstrap_unix.go / bootstrap_windows.go).
//
// retry bounds the bootstrap dial itself — the one place the core
// still retries, before a native peer is even listening on the socket
// path yet (steady-state reconnection after a successful handshake is
// the native peer's own job). A zero-valued config.Backoff dials once,
// with no retries.
func Dial(ctx context.Context, socketPath string, log logrus.FieldLogger, retry config.Backoff) (*Transport, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	var conn net.Conn
	dial := func() error {
		c, err := dialPlatform(ctx, socketPath)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}

	bo := backoff.WithContext(retry.ToGoBackoff(dialRetryBaseInterval), ctx)
	err := backoff.RetryNotify(dial, bo, func(err error, wait time.Duration) {
		log.WithError(err).Warnf("dialing %s failed, retrying in %s", socketPath, wait)
	})
	if err != nil {
		return nil, &coreerr.ConnectionError{Diagnostic: fmt.Sprintf("dialing %s", socketPath), Cause: err}
	}
	return newTransport(conn, log), nil
}

// WriteFrame writes a complete, already-framed byte sequence to the
// socket. A short write is completed in a loop (net.Conn.Write on a
// stream socket may return less than len(b) without erroring); any I/O
// error here is fatal to the connection.
func (t *Transport) WriteFrame(ctx context.Context, b []byte) error {
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(dl)
		defer t.conn.SetWriteDeadline(noDeadline)
	}
	for len(b) > 0 {
		n, err := t.conn.Write(b)
		if err != nil {
			return &coreerr.ConnectionError{Diagnostic: "socket write failed", Cause: err}
		}
		b = b[n:]
	}
	return nil
}

// ReadLoop reads chunks from the socket and delivers each to onChunk
// until the context is cancelled, the socket errs or is closed
// (reported as io.EOF turned into a ConnectionError), or onChunk itself
// returns a non-nil error (a protocol violation or closing error from
// higher layers) — in which case ReadLoop stops and returns it without
// wrapping.
func (t *Transport) ReadLoop(ctx context.Context, onChunk func([]byte) error) error {
	buf := t.bufPool.Get()
	defer t.bufPool.Put(buf)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := t.conn.Read(buf)
		if err != nil {
			if err == io.EOF {
				return &coreerr.ConnectionError{Diagnostic: "peer closed the connection", Cause: err}
			}
			return &coreerr.ConnectionError{Diagnostic: "socket read failed", Cause: err}
		}
		if cerr := onChunk(buf[:n]); cerr != nil {
			return cerr
		}
	}
}

// Close releases the underlying stream. Safe to call more than once;
// only the first call's error is returned.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
