// File: pipeline/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package pipeline serialises outgoing requests, coalesces them into
// socket writes under an at-most-one-write-in-flight discipline, and
// routes oversized argument vectors through an out-of-band interning
// call instead of inlining them.
package pipeline
