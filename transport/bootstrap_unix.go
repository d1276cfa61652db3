//go:build !windows

// File: transport/bootstrap_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// POSIX bootstrap: the native engine's socket path is a Unix-domain
// socket. Dial through net.Dialer so ctx's deadline is honored, then
// tune SO_RCVBUF/SO_SNDBUF via golang.org/x/sys/unix on the raw fd as a
// per-socket kernel buffer hint.

package transport

import (
	"context"
	"net"

	"golang.org/x/sys/unix"
)

const tunedSocketBufferBytes = 1 << 20 // 1 MiB

func dialPlatform(ctx context.Context, socketPath string) (net.Conn, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, err
	}
	tuneUnixConn(conn)
	return conn, nil
}

// tuneUnixConn best-effort raises the kernel socket buffers; failure to
// do so is not fatal to the connection, just to its throughput under
// heavy pipelining.
func tuneUnixConn(conn net.Conn) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, tunedSocketBufferBytes)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, tunedSocketBufferBytes)
	})
}
