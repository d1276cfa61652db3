// File: registry/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Allocation pops the reclaim stack if non-empty, else grows the slot
// slice by one. Dispatch takes the slot's pair and pushes its index
// onto the reclaim stack before fulfilling it, so an index is never
// live twice concurrently: the stack is consulted by allocation only
// after dispatch has already returned the index to it.

package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/kvbridge/glide-transport/coreerr"
	"github.com/kvbridge/glide-transport/protocol"
)

type slot struct {
	resolve  func(Value)
	reject   func(error)
	occupied bool
}

// Registry maps callback_idx to the waiter that submitted it. A zero
// Registry is not usable; construct with New.
type Registry struct {
	mu           sync.Mutex
	slots        []slot
	reclaimStack []uint32
	materializer Materializer
}

// New creates an empty Registry. materializer may be nil only if the
// caller is certain no response carrying a resp_pointer will ever be
// dispatched (e.g. in pure frame-codec tests); a nil materializer fails
// resp_pointer dispatch with an error rather than panicking.
func New(materializer Materializer) *Registry {
	return &Registry{materializer: materializer}
}

// GetIndex allocates a callback slot for a new in-flight request and
// immediately stores the caller's completion pair under it, before the
// caller sends anything on the wire.
func (r *Registry) GetIndex(resolve func(Value), reject func(error)) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.reclaimStack); n > 0 {
		idx := r.reclaimStack[n-1]
		r.reclaimStack = r.reclaimStack[:n-1]
		r.slots[idx] = slot{resolve: resolve, reject: reject, occupied: true}
		return idx
	}
	idx := uint32(len(r.slots))
	r.slots = append(r.slots, slot{resolve: resolve, reject: reject, occupied: true})
	return idx
}

// Abandon releases idx back to the reclaim stack without invoking its
// reject function. Used only when submission fails before any bytes
// reach the wire (e.g. the out-of-band interning call itself errored),
// so the allocated-but-never-sent index does not leak permanently.
func (r *Registry) Abandon(idx uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(idx) >= len(r.slots) || !r.slots[idx].occupied {
		return
	}
	r.slots[idx] = slot{}
	r.reclaimStack = append(r.reclaimStack, idx)
}

// Outstanding reports the number of currently allocated (not yet
// dispatched or reclaimed) slots. Used by tests and diagnostics.
func (r *Registry) Outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.slots {
		if s.occupied {
			n++
		}
	}
	return n
}

// take removes and returns the slot at idx, pushing idx onto the
// reclaim stack. Returns ok=false if idx is out of range or already
// free — the caller must treat that as a protocol violation.
func (r *Registry) take(idx uint32) (slot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(idx) >= len(r.slots) || !r.slots[idx].occupied {
		return slot{}, false
	}
	s := r.slots[idx]
	r.slots[idx] = slot{}
	r.reclaimStack = append(r.reclaimStack, idx)
	return s, true
}

// Dispatch fulfils the waiter addressed by resp.CallbackIdx according
// to its Kind. It returns a non-nil *coreerr.ProtocolViolationError if
// the callback_idx is out of range or already reclaimed — the caller
// must tear down the whole connection in that case without touching any
// other slot. It returns a non-nil *coreerr.ClosingError when resp
// carries a closing_error: that slot has already been rejected with an
// error wrapping the returned ClosingError, and the caller must now
// reject every other outstanding slot and close the transport.
func (r *Registry) Dispatch(ctx context.Context, resp *protocol.Response) error {
	s, ok := r.take(resp.CallbackIdx)
	if !ok {
		return &coreerr.ProtocolViolationError{
			Diagnostic: fmt.Sprintf("response addressed to unknown or reclaimed callback_idx %d", resp.CallbackIdx),
		}
	}

	switch resp.Kind {
	case protocol.KindRespPointer:
		if r.materializer == nil {
			s.reject(&coreerr.ProtocolViolationError{
				Diagnostic: "resp_pointer received but no materializer is configured",
			})
			return nil
		}
		v, err := r.materializer.Materialize(ctx, resp.RespPointer)
		if err != nil {
			s.reject(err)
			return nil
		}
		s.resolve(v)
		return nil

	case protocol.KindConstantOK:
		s.resolve(ConstantOKValue)
		return nil

	case protocol.KindRequestError:
		s.reject(&coreerr.RequestError{Diagnostic: resp.RequestError})
		return nil

	case protocol.KindClosingError:
		closing := coreerr.ClosingErrorFromDiagnostic(resp.ClosingError)
		s.reject(closing)
		return closing

	default: // KindNull
		s.resolve(nil)
		return nil
	}
}

// CloseAll rejects every currently-occupied slot with err (or
// coreerr.ErrConnectionClosed if err is nil) and reclaims its index.
// Called once by the owning Connection during teardown.
func (r *Registry) CloseAll(err error) {
	if err == nil {
		err = coreerr.ErrConnectionClosed
	}
	r.mu.Lock()
	var rejects []func(error)
	for idx := range r.slots {
		s := r.slots[idx]
		if !s.occupied {
			continue
		}
		r.slots[idx] = slot{}
		r.reclaimStack = append(r.reclaimStack, uint32(idx))
		rejects = append(rejects, s.reject)
	}
	r.mu.Unlock()

	for _, reject := range rejects {
		reject(err)
	}
}
