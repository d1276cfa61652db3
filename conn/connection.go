// File: conn/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection dials once, then runs a single read-goroutine loop over
// the length-delimited Request/Response codec, dispatching each
// decoded response through the callback registry.

package conn

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kvbridge/glide-transport/config"
	"github.com/kvbridge/glide-transport/coreerr"
	"github.com/kvbridge/glide-transport/otelsupport"
	"github.com/kvbridge/glide-transport/pipeline"
	"github.com/kvbridge/glide-transport/protocol"
	"github.com/kvbridge/glide-transport/registry"
	"github.com/kvbridge/glide-transport/transport"
)

// Connection is one logical session with the native engine: a dialed
// transport, a frame decoder, a callback registry, and a write
// pipeline. A single read-loop goroutine decodes and dispatches every
// response; submissions run on the caller's goroutine and socket writes
// on the pipeline's flush goroutine, with the registry and the pipeline
// each guarding their own state with a mutex.
type Connection struct {
	id    string
	state stateBox

	tr       *transport.Transport
	decoder  *protocol.Decoder
	registry *registry.Registry
	pipeline *pipeline.Pipeline

	log logrus.FieldLogger

	closeOnce sync.Once
	closeErr  error
	driver    *errgroup.Group
}

// Connect dials socketPath (the path a process-level bootstrap entry
// point yielded), runs the handshake with cfg encoded into a
// ConnectionRequest, and on success starts the read loop and returns a
// Ready Connection. materializer and interner back the two foreign-call
// entry points the registry and pipeline need; either may be nil in
// tests that never exercise that path.
func Connect(ctx context.Context, socketPath string, cfg config.Config, materializer registry.Materializer, interner pipeline.ArgInterner) (*Connection, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := logrus.WithField("connection_id", id)

	tr, err := transport.Dial(ctx, socketPath, log, cfg.ConnectionBackoff)
	if err != nil {
		return nil, err
	}

	cr, err := cfg.ToConnectionRequest()
	if err != nil {
		tr.Close()
		return nil, err
	}

	resp, err := tr.Handshake(ctx, cr)
	if err != nil {
		tr.Close()
		return nil, err
	}
	if !resp.OK {
		tr.Close()
		return nil, &coreerr.ConfigurationError{Diagnostic: fmt.Sprintf("handshake rejected: %s", resp.Error)}
	}

	if cfg.OTel != nil {
		if err := otelsupport.Init(ctx, cfg.OTel, log); err != nil {
			log.WithError(err).Warn("otel initialization failed, continuing without tracing/metrics")
		}
	}

	c := &Connection{
		id:       id,
		tr:       tr,
		decoder:  protocol.NewDecoder(),
		registry: registry.New(materializer),
		log:      log,
		driver:   &errgroup.Group{},
	}
	c.pipeline = pipeline.New(
		pipeline.WriterFunc(c.writeFrames),
		c.registry,
		interner,
		cfg.EffectiveMaxInlineArgsBytes(),
		log,
		c.onWriteFatal,
	)

	if !c.state.moveToReady() {
		tr.Close()
		return nil, &coreerr.ConnectionError{Diagnostic: "unexpected state transition during connect"}
	}

	c.driver.Go(func() error {
		c.runReadLoop()
		return nil
	})
	return c, nil
}

// ID returns the connection's locally-generated identifier, used to tag
// log lines and OTel spans.
func (c *Connection) ID() string { return c.id }

// State returns the connection's current lifecycle state.
func (c *Connection) State() State { return c.state.load() }

func (c *Connection) writeFrames(ctx context.Context, frames []byte) error {
	return c.tr.WriteFrame(ctx, frames)
}

func (c *Connection) onWriteFatal(err error) {
	c.teardown(err)
}

// runReadLoop drives protocol decode and registry dispatch off the
// transport's raw chunk stream; it is the only goroutine that touches
// the decoder's carry-over, and it tears the connection down when the
// stream ends or a decode/dispatch error is fatal.
func (c *Connection) runReadLoop() {
	err := c.tr.ReadLoop(context.Background(), func(chunk []byte) error {
		responses, decErr := c.decoder.Feed(chunk)
		for _, resp := range responses {
			if dispatchErr := c.registry.Dispatch(context.Background(), resp); dispatchErr != nil {
				return dispatchErr
			}
		}
		return decErr
	})

	c.teardown(err)
}

// Submit sends one framed request and waits for its response.
func (c *Connection) Submit(ctx context.Context, req protocol.RequestDescriptor) (registry.Value, error) {
	if st := c.state.load(); st != StateReady {
		return nil, &coreerr.ConnectionError{Diagnostic: fmt.Sprintf("submit rejected: connection is %s", st)}
	}

	spanCtx, span := otelsupport.StartSubmitSpan(ctx, req.RequestType)
	v, err := c.pipeline.Submit(spanCtx, req)
	otelsupport.EndSubmitSpan(span, err)
	return v, err
}

// Close initiates teardown: all outstanding slots are rejected with
// reason (or coreerr.ErrConnectionClosed if reason is nil), then the
// stream is closed. Safe to call more than once; only the first call's
// aggregated error is returned.
func (c *Connection) Close(reason error) error {
	c.closeOnce.Do(func() {
		c.teardown(reason)
		_ = c.driver.Wait()
	})
	return c.closeErr
}

// teardown performs the Ready -> Closing -> Closed transition exactly
// once, rejecting every outstanding slot and closing the transport. It
// is safe to call from the read loop (on a fatal decode/dispatch error)
// and from Close concurrently; only the first caller's transition wins.
func (c *Connection) teardown(cause error) {
	if !c.state.moveToClosing() {
		return
	}

	agg := &coreerr.Aggregator{}
	agg.Add(cause)
	c.registry.CloseAll(cause)
	agg.Add(c.tr.Close())
	c.state.moveToClosed()
	c.closeErr = agg.ErrorOrNil()
}
