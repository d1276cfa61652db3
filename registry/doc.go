// File: registry/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package registry maps in-flight callback identifiers to the waiters
// that submitted them. It owns slot allocation, response dispatch, and
// index reclamation — nothing else.
package registry
