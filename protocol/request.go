// File: protocol/request.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Request is an outbound message carrying a caller-assigned CallbackIdx,
// a RequestType tag from a fixed schema enum, and arguments in one of
// two shapes chosen by the write pipeline: inline ArgsArray, or an
// opaque ArgsVecPointer handle to an out-of-band argument vector. The
// remaining descriptor fields (Routing, Batch, ClusterScan,
// ScriptInvocation) are opaque blobs the core encodes without
// interpreting — they are produced by the language layer's command
// builders, which sit outside this module.
type Request struct {
	CallbackIdx uint32
	RequestType int32

	ArgsArray      [][]byte
	ArgsVecPointer uint64
	HasArgsVecPtr  bool

	Routing          []byte
	Batch            []byte
	ClusterScan      []byte
	ScriptInvocation []byte
}

// EncodeFrame encodes r as a complete length-delimited frame, ready to
// append directly to a write pipeline buffer.
func (r *Request) EncodeFrame(dst []byte) []byte {
	return AppendFrame(dst, r.Marshal())
}

// Marshal encodes r into its protobuf-style wire body (without the
// length prefix — callers append that via protocol.AppendFrame).
func (r *Request) Marshal() []byte {
	var dst []byte
	dst = appendVarintField(dst, fieldReqCallbackIdx, uint64(r.CallbackIdx))
	dst = appendVarintField(dst, fieldReqRequestType, uint64(uint32(r.RequestType)))
	if r.HasArgsVecPtr {
		dst = appendVarintField(dst, fieldReqArgsVecPointer, r.ArgsVecPointer)
	} else {
		for _, a := range r.ArgsArray {
			dst = appendBytesField(dst, fieldReqArgsArray, a)
		}
	}
	if r.Routing != nil {
		dst = appendBytesField(dst, fieldReqRouting, r.Routing)
	}
	if r.Batch != nil {
		dst = appendBytesField(dst, fieldReqBatch, r.Batch)
	}
	if r.ClusterScan != nil {
		dst = appendBytesField(dst, fieldReqClusterScan, r.ClusterScan)
	}
	if r.ScriptInvocation != nil {
		dst = appendBytesField(dst, fieldReqScriptInvocation, r.ScriptInvocation)
	}
	return dst
}

// UnmarshalRequest decodes a Request from a wire body previously
// produced by Marshal. Used by tests asserting the round-trip law
// decode(encode(m)) == m, and by the fake native peer harness.
func UnmarshalRequest(body []byte) (*Request, error) {
	r := &Request{}
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, fmt.Errorf("protocol: malformed request tag: %w", protowire.ParseError(n))
		}
		body = body[n:]
		switch num {
		case fieldReqCallbackIdx:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed callback_idx: %w", protowire.ParseError(n))
			}
			r.CallbackIdx = uint32(v)
			body = body[n:]
		case fieldReqRequestType:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed request_type: %w", protowire.ParseError(n))
			}
			r.RequestType = int32(uint32(v))
			body = body[n:]
		case fieldReqArgsVecPointer:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed args_vec_pointer: %w", protowire.ParseError(n))
			}
			r.ArgsVecPointer = v
			r.HasArgsVecPtr = true
			body = body[n:]
		case fieldReqArgsArray:
			v, n := protowire.ConsumeBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed args_array entry: %w", protowire.ParseError(n))
			}
			cp := append([]byte(nil), v...)
			r.ArgsArray = append(r.ArgsArray, cp)
			body = body[n:]
		case fieldReqRouting:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed routing: %w", protowire.ParseError(n))
			}
			r.Routing = v
			body = body[n:]
		case fieldReqBatch:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed batch: %w", protowire.ParseError(n))
			}
			r.Batch = v
			body = body[n:]
		case fieldReqClusterScan:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed cluster_scan: %w", protowire.ParseError(n))
			}
			r.ClusterScan = v
			body = body[n:]
		case fieldReqScriptInvocation:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed script_invocation: %w", protowire.ParseError(n))
			}
			r.ScriptInvocation = v
			body = body[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed unknown request field %d: %w", num, protowire.ParseError(n))
			}
			body = body[n:]
		}
	}
	return r, nil
}

func consumeOpaqueBytes(body []byte) ([]byte, int) {
	v, n := protowire.ConsumeBytes(body)
	if n < 0 {
		return nil, n
	}
	return append([]byte(nil), v...), n
}
