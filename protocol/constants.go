// File: protocol/constants.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import "google.golang.org/protobuf/encoding/protowire"

// Request field numbers.
const (
	fieldReqCallbackIdx       protowire.Number = 1
	fieldReqRequestType       protowire.Number = 2
	fieldReqArgsArray         protowire.Number = 3 // repeated bytes
	fieldReqArgsVecPointer    protowire.Number = 4
	fieldReqRouting           protowire.Number = 5 // opaque, caller-encoded
	fieldReqBatch             protowire.Number = 6 // opaque, caller-encoded
	fieldReqClusterScan       protowire.Number = 7 // opaque, caller-encoded
	fieldReqScriptInvocation  protowire.Number = 8 // opaque, caller-encoded
)

// Response field numbers.
const (
	fieldRespCallbackIdx     protowire.Number = 1
	fieldRespRespPointer     protowire.Number = 2
	fieldRespConstantOK      protowire.Number = 3
	fieldRespRequestError    protowire.Number = 4
	fieldRespClosingError    protowire.Number = 5
)

// ConnectionRequest field numbers (bootstrap handshake message). Kept
// flat and mostly opaque — the core encodes whatever config.Config
// hands it and never interprets these fields itself.
const (
	fieldConnAddresses          protowire.Number = 1 // repeated bytes, "host:port"
	fieldConnUseTLS             protowire.Number = 2
	fieldConnCredentials        protowire.Number = 3 // opaque, caller-encoded
	fieldConnRequestTimeoutMs   protowire.Number = 4
	fieldConnConnectTimeoutMs   protowire.Number = 5
	fieldConnBackoff            protowire.Number = 6 // opaque, caller-encoded
	fieldConnReadFrom           protowire.Number = 7
	fieldConnClusterModeEnabled protowire.Number = 8
	fieldConnDatabaseID         protowire.Number = 9
	fieldConnPeriodicChecks     protowire.Number = 10 // opaque, caller-encoded
	fieldConnPubsubSubs         protowire.Number = 11 // opaque, caller-encoded
	fieldConnTLSInsecure        protowire.Number = 12
	fieldConnOtel               protowire.Number = 13 // opaque, caller-encoded
)

// ConnectionResponse field numbers.
const (
	fieldConnRespOK    protowire.Number = 1
	fieldConnRespError protowire.Number = 2
)

// ConstantResponse enumerates the fixed, non-pointer response sentinels
// the native engine may send instead of a resp_pointer.
type ConstantResponse int32

const (
	ConstantUnspecified ConstantResponse = 0
	ConstantOK          ConstantResponse = 1
)
