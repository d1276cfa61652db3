// File: protocol/framesplitter_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameSplitter_SchemaAgnostic(t *testing.T) {
	var s FrameSplitter
	req := &Request{CallbackIdx: 1, RequestType: 2, ArgsArray: [][]byte{[]byte("a")}}

	bodies, err := s.Feed(req.EncodeFrame(nil))
	require.NoError(t, err)
	require.Len(t, bodies, 1)

	got, err := UnmarshalRequest(bodies[0])
	require.NoError(t, err)
	require.EqualValues(t, 1, got.CallbackIdx)
	require.EqualValues(t, 2, got.RequestType)
}

func TestFrameSplitter_CarriesPartialTailAcrossCalls(t *testing.T) {
	var s FrameSplitter
	req := &Request{CallbackIdx: 7, RequestType: 1}
	frame := req.EncodeFrame(nil)
	mid := len(frame) / 2

	bodies, err := s.Feed(frame[:mid])
	require.NoError(t, err)
	require.Empty(t, bodies, "no frame should complete from half a frame")

	bodies, err = s.Feed(frame[mid:])
	require.NoError(t, err)
	require.Len(t, bodies, 1)
}

func TestFrameSplitter_MalformedResetsCarry(t *testing.T) {
	var s FrameSplitter
	bad := []byte{0x00}
	_, err := s.Feed(bad)
	require.Error(t, err, "a zero-length frame is malformed")

	req := &Request{CallbackIdx: 3, RequestType: 1}
	bodies, err := s.Feed(req.EncodeFrame(nil))
	require.NoError(t, err, "decoding must recover after a fatal frame")
	require.Len(t, bodies, 1)
}
