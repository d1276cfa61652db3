// File: protocol/decoder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Decoder reassembles Response messages across arbitrarily-sized chunk
// reads, following the decode algorithm of spec.md §4.2: concatenate
// carry-over with the new chunk, decode zero or more complete frames,
// and either clear the carry-over (clean exit) or keep the unparsed
// tail (truncated input). A malformed or zero-length frame is reported
// to the caller as a fatal decode error; the caller is responsible for
// tearing down the connection with that diagnostic.

package protocol

// FrameSplitter implements the frame-boundary half of the decode
// algorithm without assuming any particular message body schema: it
// hands back raw, complete frame bodies and keeps the unparsed tail
// across calls. Decoder wraps one of these to also unmarshal each body
// into a Response; the fake native peer harness uses a bare
// FrameSplitter directly to decode inbound Request frames instead.
type FrameSplitter struct {
	carry []byte
}

// Feed appends chunk to any carried-over tail and returns every
// complete frame body it can decode, in arrival order. A non-nil error
// means a malformed or zero-length frame was found; bodies decoded
// before it are still returned.
func (s *FrameSplitter) Feed(chunk []byte) ([][]byte, error) {
	var buf []byte
	if len(s.carry) > 0 {
		buf = append(append([]byte(nil), s.carry...), chunk...)
	} else {
		buf = chunk
	}

	var bodies [][]byte
	pos := 0
	for pos < len(buf) {
		mark := pos
		body, n, truncated, err := ConsumeFrame(buf[mark:])
		if truncated {
			s.carry = append([]byte(nil), buf[mark:]...)
			return bodies, nil
		}
		if err != nil {
			s.carry = nil
			return bodies, err
		}
		bodies = append(bodies, body)
		pos = mark + n
	}

	s.carry = nil
	return bodies, nil
}

// Decoder holds the read carry-over between Feed calls and unmarshals
// each complete frame body into a Response.
type Decoder struct {
	splitter FrameSplitter
}

// NewDecoder creates an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to any carried-over tail, decodes every complete
// frame it can, and returns the decoded Responses in arrival order. A
// non-nil error means a malformed or zero-length frame was
// encountered; the caller must treat this as a fatal protocol error and
// tear down the connection — the responses successfully decoded before
// the bad frame are still returned and should still be dispatched.
func (d *Decoder) Feed(chunk []byte) ([]*Response, error) {
	bodies, err := d.splitter.Feed(chunk)

	// Responses must dispatch in the order they were decoded, and a
	// chunk can legitimately contain many frames at once (scenario #2
	// in spec.md §8).
	responses := make([]*Response, 0, len(bodies))
	for _, body := range bodies {
		resp, uerr := UnmarshalResponse(body)
		if uerr != nil {
			return responses, uerr
		}
		responses = append(responses, resp)
	}
	return responses, err
}
