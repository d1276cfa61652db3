//go:build windows

// File: transport/bootstrap_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows bootstrap: the native engine's socket path is a named pipe,
// dialed through github.com/Microsoft/go-winio instead of net.Dial
// (which has no named-pipe support).

package transport

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

func dialPlatform(ctx context.Context, socketPath string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, socketPath)
}
