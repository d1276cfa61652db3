// File: protocol/response.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ResponseKind discriminates which of Response's mutually exclusive
// payload fields is meaningful.
type ResponseKind int

const (
	// KindNull means none of resp_pointer / constant_response /
	// request_error / closing_error were present — interpreted as the
	// null value.
	KindNull ResponseKind = iota
	KindRespPointer
	KindConstantOK
	KindRequestError
	KindClosingError
)

// Response is an inbound message carrying the CallbackIdx it
// corresponds to, plus exactly one of a resp_pointer, a constant OK
// sentinel, a request_error, or a closing_error — absence of all four
// means null.
type Response struct {
	CallbackIdx uint32
	Kind        ResponseKind

	RespPointer  uint64
	RequestError string
	ClosingError string
}

// EncodeFrame encodes r as a complete length-delimited frame. Used by
// the fake native peer harness.
func (r *Response) EncodeFrame(dst []byte) []byte {
	return AppendFrame(dst, r.Marshal())
}

// Marshal encodes r into its protobuf-style wire body. Used by the fake
// native peer harness and by round-trip tests.
func (r *Response) Marshal() []byte {
	var dst []byte
	dst = appendVarintField(dst, fieldRespCallbackIdx, uint64(r.CallbackIdx))
	switch r.Kind {
	case KindRespPointer:
		dst = appendVarintField(dst, fieldRespRespPointer, r.RespPointer)
	case KindConstantOK:
		dst = appendVarintField(dst, fieldRespConstantOK, uint64(ConstantOK))
	case KindRequestError:
		dst = appendStringField(dst, fieldRespRequestError, r.RequestError)
	case KindClosingError:
		dst = appendStringField(dst, fieldRespClosingError, r.ClosingError)
	case KindNull:
		// no additional field
	}
	return dst
}

// UnmarshalResponse decodes a Response from a wire body.
func UnmarshalResponse(body []byte) (*Response, error) {
	r := &Response{Kind: KindNull}
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, fmt.Errorf("protocol: malformed response tag: %w", protowire.ParseError(n))
		}
		body = body[n:]
		switch num {
		case fieldRespCallbackIdx:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed callback_idx: %w", protowire.ParseError(n))
			}
			r.CallbackIdx = uint32(v)
			body = body[n:]
		case fieldRespRespPointer:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed resp_pointer: %w", protowire.ParseError(n))
			}
			r.RespPointer = v
			r.Kind = KindRespPointer
			body = body[n:]
		case fieldRespConstantOK:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed constant_response: %w", protowire.ParseError(n))
			}
			if ConstantResponse(v) == ConstantOK {
				r.Kind = KindConstantOK
			}
			body = body[n:]
		case fieldRespRequestError:
			v, n := protowire.ConsumeString(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed request_error: %w", protowire.ParseError(n))
			}
			r.RequestError = v
			r.Kind = KindRequestError
			body = body[n:]
		case fieldRespClosingError:
			v, n := protowire.ConsumeString(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed closing_error: %w", protowire.ParseError(n))
			}
			r.ClosingError = v
			r.Kind = KindClosingError
			body = body[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed unknown response field %d: %w", num, protowire.ParseError(n))
			}
			body = body[n:]
		}
	}
	return r, nil
}
