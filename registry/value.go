// File: registry/value.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package registry

import "context"

// Value is the language-level result of a resolved request: either the
// materialized tree decoded from a resp_pointer handle, the literal
// string "OK" for the constant-OK sentinel, or nil for the null case.
// The registry never inspects Value's contents — only the Materializer
// produces one from a resp_pointer.
type Value = any

// ConstantOKValue is what a constant_response == OK dispatch resolves
// with.
const ConstantOKValue = "OK"

// Materializer turns an opaque resp_pointer handle into a language
// value, transferring ownership of whatever native-side allocation the
// handle refers to. It must run synchronously with respect to the call
// that receives it: the handle is not valid once Materialize returns.
type Materializer interface {
	Materialize(ctx context.Context, ptr uint64) (Value, error)
}

// MaterializerFunc adapts a plain function to Materializer.
type MaterializerFunc func(ctx context.Context, ptr uint64) (Value, error)

func (f MaterializerFunc) Materialize(ctx context.Context, ptr uint64) (Value, error) {
	return f(ctx, ptr)
}
