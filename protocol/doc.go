// File: protocol/doc.go
// Package protocol implements the length-delimited, protobuf-style wire
// format between the transport core and the native engine, and the
// frame codec that reassembles messages across arbitrary chunk
// boundaries.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package protocol
