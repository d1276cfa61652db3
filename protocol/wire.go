// File: protocol/wire.go
// Package protocol: low-level length-prefix and field-tag encoding.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Every message on the socket is a varint byte-length prefix followed by
// exactly that many bytes of a schema-defined body. The body itself uses
// protobuf wire-format field tags (stable field numbers, varint/length-
// delimited encoding) via google.golang.org/protobuf/encoding/protowire,
// without generated .pb.go types — the core never needs reflection over
// the schema, every field is written and read by an explicit field
// number held in this package's constants.

package protocol

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrZeroLengthFrame is returned when a frame's declared length is zero.
// Per spec this is an encoding error, not a truncation, and must trigger
// connection teardown.
var ErrZeroLengthFrame = errors.New("protocol: zero-length frame")

// ErrMalformedLength is returned when the varint length prefix itself is
// malformed (overflows 64 bits without a terminating byte).
var ErrMalformedLength = errors.New("protocol: malformed length prefix")

// maxVarintBytes bounds how many bytes a length-prefix varint may span
// before it is considered malformed rather than merely truncated.
const maxVarintBytes = 10

// AppendFrame appends one length-delimited frame (varint length prefix +
// body) to dst and returns the extended slice.
func AppendFrame(dst []byte, body []byte) []byte {
	dst = protowire.AppendVarint(dst, uint64(len(body)))
	dst = append(dst, body...)
	return dst
}

// ConsumeFrame attempts to decode exactly one length-delimited frame from
// the head of buf.
//
//   - truncated == true means buf does not yet contain a full frame;
//     the caller should keep buf (or its unconsumed tail) as carry-over
//     and wait for more bytes. err is always nil in this case.
//   - err != nil means the frame is malformed (zero length or a
//     malformed varint prefix) and the connection must be torn down.
//   - otherwise body is the frame's payload and n is the total number of
//     bytes consumed from buf (prefix + body).
func ConsumeFrame(buf []byte) (body []byte, n int, truncated bool, err error) {
	length, prefixLen, needMore, malformed := consumeLengthPrefix(buf)
	if needMore {
		return nil, 0, true, nil
	}
	if malformed {
		return nil, 0, false, ErrMalformedLength
	}
	if length == 0 {
		return nil, 0, false, ErrZeroLengthFrame
	}
	total := prefixLen + int(length)
	if len(buf) < total {
		return nil, 0, true, nil
	}
	return buf[prefixLen:total], total, false, nil
}

// consumeLengthPrefix hand-rolls LEB128 varint decoding so truncated
// input (ran out of bytes before the terminating byte) can be told apart
// from a malformed varint (more than maxVarintBytes continuation bytes)
// — a distinction spec.md's decode algorithm depends on and that
// protowire.ConsumeVarint does not expose directly.
func consumeLengthPrefix(buf []byte) (value uint64, n int, needMore bool, malformed bool) {
	var shift uint
	for i := 0; i < len(buf); i++ {
		if i >= maxVarintBytes {
			return 0, 0, false, true
		}
		b := buf[i]
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, i + 1, false, false
		}
		shift += 7
	}
	return 0, 0, true, false
}

// field tag helpers shared by request.go / response.go.

func appendVarintField(dst []byte, num protowire.Number, v uint64) []byte {
	dst = protowire.AppendTag(dst, num, protowire.VarintType)
	dst = protowire.AppendVarint(dst, v)
	return dst
}

func appendBytesField(dst []byte, num protowire.Number, v []byte) []byte {
	dst = protowire.AppendTag(dst, num, protowire.BytesType)
	dst = protowire.AppendBytes(dst, v)
	return dst
}

func appendStringField(dst []byte, num protowire.Number, v string) []byte {
	dst = protowire.AppendTag(dst, num, protowire.BytesType)
	dst = protowire.AppendString(dst, v)
	return dst
}
