// File: fake/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package fake provides a scripted native peer: it speaks the real
// frame codec over a real socket, so tests exercise transport, protocol,
// registry, pipeline and conn together rather than mocking any one of
// them in isolation. The fake sits on the wire instead of in-process,
// because this module's contract is defined at the socket boundary.
package fake
