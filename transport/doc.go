// File: transport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package transport owns the duplex byte stream to the native engine:
// dialing the bootstrap socket, running the handshake, and afterwards
// shuttling framed writes out and raw chunks in. It never decodes a
// Request/Response body itself — that is protocol's job — beyond the
// one handshake frame it must parse synchronously before promoting the
// connection to Ready.
package transport
