// File: pipeline/pipeline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Submission path mirrors spec.md §4.4 step for step: allocate a
// callback slot, decide inline vs. out-of-band argument encoding,
// encode and append to the pending buffer, then flush if no write is
// already in flight. The flush itself loops rather than recursing
// (Go's stack has no tail-call guarantee and a long burst of traffic
// would otherwise grow it unbounded), but the observable discipline —
// at most one outstanding socket write, FIFO order preserved across
// flushes — is identical.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kvbridge/glide-transport/pool"
	"github.com/kvbridge/glide-transport/protocol"
	"github.com/kvbridge/glide-transport/registry"
)

// DefaultMaxInlineArgsBytes is the build default for MAX_REQUEST_ARGS_LEN:
// argument vectors at or above this combined length bypass inline
// encoding and are interned out-of-band instead.
const DefaultMaxInlineArgsBytes = 4 * 1024 * 1024

// bufWarnThresholdBytes is the size at which a non-empty pending buffer
// logs a warning instead of growing silently; see the Open Question
// resolution in DESIGN.md.
const bufWarnThresholdBytes = 64 * 1024 * 1024

// Pipeline owns the pending write buffer and the single-writer flush
// discipline for one connection.
type Pipeline struct {
	mu              sync.Mutex
	buf             *bytes.Buffer
	writeInProgress bool

	bufPool  *pool.BufferPool
	writer   Writer
	registry *registry.Registry
	interner ArgInterner

	maxInlineArgsBytes int
	log                logrus.FieldLogger

	onFatal func(error)
}

// New creates a Pipeline. onFatal is invoked (at most once per fatal
// write error) from the flush goroutine when a socket write fails; the
// caller is expected to tear down the owning connection from there.
func New(writer Writer, reg *registry.Registry, interner ArgInterner, maxInlineArgsBytes int, log logrus.FieldLogger, onFatal func(error)) *Pipeline {
	if maxInlineArgsBytes <= 0 {
		maxInlineArgsBytes = DefaultMaxInlineArgsBytes
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	bufPool := pool.NewBufferPool(4096)
	return &Pipeline{
		buf:                bufPool.Get(),
		bufPool:            bufPool,
		writer:             writer,
		registry:           reg,
		interner:           interner,
		maxInlineArgsBytes: maxInlineArgsBytes,
		log:                log,
		onFatal:            onFatal,
	}
}

// Submit allocates a callback slot, encodes req as a framed request
// (choosing inline or out-of-band argument encoding), appends it to the
// pending buffer, and blocks until the corresponding response arrives,
// ctx is cancelled, or the connection tears down.
func (p *Pipeline) Submit(ctx context.Context, req protocol.RequestDescriptor) (registry.Value, error) {
	resultCh := make(chan submitResult, 1)
	idx := p.registry.GetIndex(
		func(v registry.Value) { resultCh <- submitResult{value: v} },
		func(err error) { resultCh <- submitResult{err: err} },
	)

	wire := &protocol.Request{
		CallbackIdx: idx,
		RequestType: req.RequestType,

		Routing:          req.Routing,
		ClusterScan:      req.ClusterScan,
		ScriptInvocation: req.ScriptInvocation,
		Batch:            req.Batch,
	}

	if argsTotalLen(req.Args) >= p.maxInlineArgsBytes {
		if p.interner == nil {
			p.registry.Abandon(idx)
			return nil, errNoInterner
		}
		ptr, err := p.interner.Intern(ctx, req.Args)
		if err != nil {
			p.registry.Abandon(idx)
			return nil, err
		}
		wire.HasArgsVecPtr = true
		wire.ArgsVecPointer = ptr
	} else {
		wire.ArgsArray = req.Args
	}

	p.enqueue(wire.EncodeFrame(nil))

	select {
	case res := <-resultCh:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type submitResult struct {
	value registry.Value
	err   error
}

func argsTotalLen(args [][]byte) int {
	n := 0
	for _, a := range args {
		n += len(a)
	}
	return n
}

var errNoInterner = errors.New("pipeline: argument vector exceeds inline threshold but no interner is configured")

// enqueue appends frame to the pending buffer and starts a flush if one
// is not already running.
func (p *Pipeline) enqueue(frame []byte) {
	p.mu.Lock()
	p.buf.Write(frame)
	if p.buf.Len() >= bufWarnThresholdBytes {
		p.log.WithField("pending_bytes", p.buf.Len()).Warn("pipeline: pending write buffer exceeds threshold, flush is falling behind")
	}
	already := p.writeInProgress
	p.writeInProgress = true
	p.mu.Unlock()

	if !already {
		go p.flushLoop()
	}
}

// flushLoop takes the pending buffer, writes it, and repeats for
// whatever accumulated meanwhile, until the buffer drains — the Go
// expression of "on the write callback: if the fresh buffer is
// non-empty, recurse into flush; else clear write_in_progress."
func (p *Pipeline) flushLoop() {
	for {
		p.mu.Lock()
		if p.buf.Len() == 0 {
			p.writeInProgress = false
			p.mu.Unlock()
			return
		}
		taken := p.buf
		p.buf = p.bufPool.Get()
		p.mu.Unlock()

		err := p.writer.Write(context.Background(), taken.Bytes())
		p.bufPool.Put(taken)
		if err != nil {
			p.mu.Lock()
			p.writeInProgress = false
			p.mu.Unlock()
			if p.onFatal != nil {
				p.onFatal(err)
			}
			return
		}
	}
}
