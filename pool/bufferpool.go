// File: pool/bufferpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BufferPool recycles *bytes.Buffer instances across write-pipeline
// flushes so steady-state submission does not allocate. Adapted from
// the NUMA-segmented manager this package used to carry: the segmented
// per-node lookup is gone (there is exactly one local socket per
// connection, not one ring per core), but the get-or-create-then-reset
// shape is the same.

package pool

import (
	"bytes"
	"sync"
)

// BufferPool hands out reset, ready-to-write *bytes.Buffer values.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a BufferPool whose buffers start with the given
// initial capacity.
func NewBufferPool(initialCap int) *BufferPool {
	bp := &BufferPool{}
	bp.pool.New = func() any {
		return bytes.NewBuffer(make([]byte, 0, initialCap))
	}
	return bp
}

func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.pool.Get().(*bytes.Buffer)
}

// Put resets buf and returns it to the pool. Callers must not retain
// buf after calling Put.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	buf.Reset()
	bp.pool.Put(buf)
}
