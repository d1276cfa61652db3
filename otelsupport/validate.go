// File: otelsupport/validate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package otelsupport

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/kvbridge/glide-transport/coreerr"
)

// ValidateTraceID enforces the W3C 32-hex-character trace-id format by
// reusing trace.TraceIDFromHex instead of a hand-rolled regex: it
// already rejects the all-zero trace-id and anything not exactly 32
// lowercase hex characters.
func ValidateTraceID(hex string) error {
	id, err := trace.TraceIDFromHex(hex)
	if err != nil {
		return &coreerr.ConfigurationError{Diagnostic: "invalid trace-id", Cause: err}
	}
	if !id.IsValid() {
		return &coreerr.ConfigurationError{Diagnostic: "trace-id must not be all zero"}
	}
	return nil
}

// ValidateSpanID enforces the W3C 16-hex-character span-id format.
func ValidateSpanID(hex string) error {
	id, err := trace.SpanIDFromHex(hex)
	if err != nil {
		return &coreerr.ConfigurationError{Diagnostic: "invalid span-id", Cause: err}
	}
	if !id.IsValid() {
		return &coreerr.ConfigurationError{Diagnostic: "span-id must not be all zero"}
	}
	return nil
}

// ValidateTraceFlags enforces the single-byte 0-255 range the W3C spec
// allows for trace-flags.
func ValidateTraceFlags(flags int) error {
	if flags < 0 || flags > 255 {
		return &coreerr.ConfigurationError{Diagnostic: fmt.Sprintf("trace-flags %d out of 0-255 range", flags)}
	}
	return nil
}

// ValidateTraceState enforces W3C §3.3 key/value rules by parsing with
// trace.ParseTraceState rather than re-deriving its grammar.
func ValidateTraceState(state string) error {
	if state == "" {
		return nil
	}
	if _, err := trace.ParseTraceState(state); err != nil {
		return &coreerr.ConfigurationError{Diagnostic: "invalid tracestate", Cause: err}
	}
	return nil
}
