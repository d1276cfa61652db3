// File: conn/batch.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SubmitBatch sends a transaction or pipeline as a single framed
// request whose opaque Batch field carries the sub-request list and the
// atomic flag (spec.md §3's "transaction/batch... a sequence of
// sub-requests with an atomic flag"). The core never interprets Batch's
// contents; it is encoded here and decoded only by the native peer.

package conn

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kvbridge/glide-transport/coreerr"
	"github.com/kvbridge/glide-transport/protocol"
	"github.com/kvbridge/glide-transport/registry"
)

// requestTypeBatch is the schema's reserved request_type tag for
// transaction/pipeline submission, distinct from ordinary per-command
// request types (which are assigned by the caller from the native
// schema). The value is a client-side constant defined here.
const requestTypeBatch int32 = -1

// BatchOptions carries batch-level knobs (e.g. a per-batch timeout
// override) the native peer may support; like Batch itself, the core
// passes it through without interpreting it.
type BatchOptions struct {
	TimeoutMs int
}

type batchPayload struct {
	Commands []protocol.RequestDescriptor `json:"commands"`
	Atomic   bool                         `json:"atomic"`
	Options  BatchOptions                 `json:"options"`
}

// SubmitBatch sends cmds as one atomic transaction (atomic=true) or
// pipeline (atomic=false). A nil result (not an error) means an atomic
// batch aborted because a concurrency primitive such as WATCH was
// violated, matching spec.md §6.
func (c *Connection) SubmitBatch(ctx context.Context, cmds []protocol.RequestDescriptor, atomic bool, opts BatchOptions) ([]registry.Value, error) {
	body, err := json.Marshal(batchPayload{Commands: cmds, Atomic: atomic, Options: opts})
	if err != nil {
		return nil, fmt.Errorf("conn: encoding batch: %w", err)
	}

	v, err := c.Submit(ctx, protocol.RequestDescriptor{RequestType: requestTypeBatch, Batch: body})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}

	arr, ok := v.([]registry.Value)
	if !ok {
		return nil, &coreerr.ProtocolViolationError{Diagnostic: fmt.Sprintf("batch response materialized to unexpected type %T", v)}
	}
	return arr, nil
}
