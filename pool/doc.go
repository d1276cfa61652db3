// File: pool/doc.go
// Package pool
// Author: momentics <momentics@gmail.com>
//
// Buffer pooling for the transport core: reusable byte slices for inbound
// read chunks and the write pipeline's coalescing buffer. No NUMA or
// platform segmentation — a client owns exactly one socket, so there is
// nothing to shard pools across.
package pool
