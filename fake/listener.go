// File: fake/listener.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
)

// ListenUnixSocket opens a Unix-domain socket at a fresh path under a
// temp directory, mirroring the filesystem-path bootstrap contract of
// spec.md §4.1. The caller must Close the listener and may remove the
// returned directory.
func ListenUnixSocket() (net.Listener, string, error) {
	dir, err := os.MkdirTemp("", "glide-transport-fake-*")
	if err != nil {
		return nil, "", err
	}
	path := filepath.Join(dir, "engine.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		os.RemoveAll(dir)
		return nil, "", fmt.Errorf("fake: listening on %s: %w", path, err)
	}
	return l, path, nil
}
