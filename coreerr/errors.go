// File: coreerr/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package coreerr defines the error taxonomy shared by every package in
// this module: configuration problems, connection-level I/O failures,
// per-request failures reported by the native peer, the closing
// diagnostic that precedes teardown, and protocol violations detected
// by the callback registry or frame codec.
package coreerr

import (
	"errors"
	"fmt"
)

// ErrConnectionClosed is the default rejection reason for outstanding
// slots when Connection.Close is called without an explicit reason.
var ErrConnectionClosed = errors.New("connection closed")

// ConfigurationError wraps a problem found in config.Config before a
// connection attempt is even made (missing addresses, an out-of-range
// OTel sample percentage, and similar).
type ConfigurationError struct {
	Diagnostic string
	Cause      error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Diagnostic, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Diagnostic)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// ConnectionError wraps a fatal I/O or handshake failure on the
// transport's socket.
type ConnectionError struct {
	Diagnostic string
	Cause      error
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection error: %s: %v", e.Diagnostic, e.Cause)
	}
	return fmt.Sprintf("connection error: %s", e.Diagnostic)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// RequestError wraps a `request_error` diagnostic string reported by
// the native peer for a single in-flight request. It never triggers
// teardown on its own.
type RequestError struct {
	Diagnostic string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request error: %s", e.Diagnostic)
}

// ClosingError wraps a `closing_error` diagnostic that forces the
// connection into Closing. Every outstanding slot, including the one
// the triggering response belonged to, is rejected with an error
// wrapping this type.
type ClosingError struct {
	Diagnostic string
}

func (e *ClosingError) Error() string {
	return fmt.Sprintf("connection closing: %s", e.Diagnostic)
}

// ProtocolViolationError means the native peer sent something the wire
// contract forbids: a malformed frame, a zero-length frame, or a
// response addressed to a callback_idx that is out of range or already
// reclaimed. It is always fatal to the connection.
type ProtocolViolationError struct {
	Diagnostic string
	Cause      error
}

func (e *ProtocolViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol violation: %s: %v", e.Diagnostic, e.Cause)
	}
	return fmt.Sprintf("protocol violation: %s", e.Diagnostic)
}

func (e *ProtocolViolationError) Unwrap() error { return e.Cause }

// ClosingErrorFromDiagnostic is a convenience constructor used by the
// callback registry when dispatching a closing_error response.
func ClosingErrorFromDiagnostic(diag string) *ClosingError {
	return &ClosingError{Diagnostic: diag}
}
