// File: otelsupport/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package otelsupport validates the OpenTelemetry binding described in
// spec.md §9 before it ever reaches the native peer, and exposes a
// process-wide, once-only Init that wires the OTLP gRPC exporters. It
// does not put span context on the wire — spans are created around
// Connection.Submit on the Go side and closed when the call settles.
package otelsupport
