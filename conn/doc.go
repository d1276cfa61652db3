// File: conn/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package conn assembles transport, protocol, registry and pipeline
// into the public Connection type: Connect runs the bootstrap
// handshake and starts the read loop; Submit/SubmitBatch hand requests
// to the write pipeline; Close tears everything down.
package conn
