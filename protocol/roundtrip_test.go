// File: protocol/roundtrip_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"bytes"
	"reflect"
	"testing"
)

func TestRequest_RoundTrip_InlineArgs(t *testing.T) {
	want := &Request{
		CallbackIdx: 7,
		RequestType: 42,
		ArgsArray:   [][]byte{[]byte("GET"), []byte("key")},
		Routing:     []byte{0x01, 0x02},
	}
	got, err := UnmarshalRequest(want.Marshal())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.CallbackIdx != want.CallbackIdx || got.RequestType != want.RequestType {
		t.Fatalf("scalar mismatch: got %+v want %+v", got, want)
	}
	if len(got.ArgsArray) != len(want.ArgsArray) {
		t.Fatalf("args length mismatch: got %d want %d", len(got.ArgsArray), len(want.ArgsArray))
	}
	for i := range want.ArgsArray {
		if !bytes.Equal(got.ArgsArray[i], want.ArgsArray[i]) {
			t.Fatalf("arg %d mismatch: got %q want %q", i, got.ArgsArray[i], want.ArgsArray[i])
		}
	}
	if !bytes.Equal(got.Routing, want.Routing) {
		t.Fatalf("routing mismatch: got %v want %v", got.Routing, want.Routing)
	}
	if got.HasArgsVecPtr {
		t.Fatal("expected HasArgsVecPtr false for inline args")
	}
}

func TestRequest_RoundTrip_ArgsVecPointer(t *testing.T) {
	want := &Request{
		CallbackIdx:    3,
		RequestType:    1,
		ArgsVecPointer: 0xdeadbeef,
		HasArgsVecPtr:  true,
	}
	got, err := UnmarshalRequest(want.Marshal())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.HasArgsVecPtr || got.ArgsVecPointer != want.ArgsVecPointer {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.ArgsArray) != 0 {
		t.Fatalf("expected no inline args, got %v", got.ArgsArray)
	}
}

func TestResponse_RoundTrip_AllKinds(t *testing.T) {
	cases := []*Response{
		{CallbackIdx: 1, Kind: KindNull},
		{CallbackIdx: 2, Kind: KindRespPointer, RespPointer: 0x1234},
		{CallbackIdx: 3, Kind: KindConstantOK},
		{CallbackIdx: 4, Kind: KindRequestError, RequestError: "WRONGTYPE"},
		{CallbackIdx: 5, Kind: KindClosingError, ClosingError: "connection reset"},
	}
	for _, want := range cases {
		got, err := UnmarshalResponse(want.Marshal())
		if err != nil {
			t.Fatalf("unmarshal kind %v: %v", want.Kind, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("kind %v: got %+v, want %+v", want.Kind, got, want)
		}
	}
}

func TestConnectionRequest_RoundTrip(t *testing.T) {
	want := &ConnectionRequest{
		Addresses:          []string{"127.0.0.1:6379", "127.0.0.1:6380"},
		UseTLS:             true,
		Credentials:        []byte("user:pass"),
		RequestTimeoutMs:   250,
		ConnectTimeoutMs:   1000,
		ReadFrom:           2,
		ClusterModeEnabled: true,
		DatabaseID:         -1,
		TLSInsecure:        false,
	}
	got, err := UnmarshalConnectionRequest(want.Marshal())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Addresses) != 2 || got.Addresses[0] != want.Addresses[0] || got.Addresses[1] != want.Addresses[1] {
		t.Fatalf("addresses mismatch: %v", got.Addresses)
	}
	if got.UseTLS != want.UseTLS || got.ClusterModeEnabled != want.ClusterModeEnabled {
		t.Fatalf("bool mismatch: %+v", got)
	}
	if got.DatabaseID != want.DatabaseID {
		t.Fatalf("database id mismatch: got %d want %d", got.DatabaseID, want.DatabaseID)
	}
	if got.ReadFrom != want.ReadFrom {
		t.Fatalf("read_from mismatch: got %d want %d", got.ReadFrom, want.ReadFrom)
	}
	if !bytes.Equal(got.Credentials, want.Credentials) {
		t.Fatalf("credentials mismatch: got %q want %q", got.Credentials, want.Credentials)
	}
}

func TestConnectionResponse_RoundTrip(t *testing.T) {
	ok := &ConnectionResponse{OK: true}
	got, err := UnmarshalConnectionResponse(ok.Marshal())
	if err != nil || !got.OK || got.Error != "" {
		t.Fatalf("ok case: got %+v, err %v", got, err)
	}

	fail := &ConnectionResponse{Error: "auth failed"}
	got, err = UnmarshalConnectionResponse(fail.Marshal())
	if err != nil || got.Error != "auth failed" {
		t.Fatalf("error case: got %+v, err %v", got, err)
	}
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	r := &Request{CallbackIdx: 1, RequestType: 2}
	body := r.Marshal()
	// Append an unknown field (high field number, varint wire type) that a
	// newer sender might include; the decoder must skip it, not fail.
	body = appendVarintField(body, 999, 7)
	got, err := UnmarshalRequest(body)
	if err != nil {
		t.Fatalf("unexpected error skipping unknown field: %v", err)
	}
	if got.CallbackIdx != 1 || got.RequestType != 2 {
		t.Fatalf("known fields corrupted: %+v", got)
	}
}
