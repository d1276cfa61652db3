// File: protocol/connection_request.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ConnectionRequest is the single handshake message sent once, right
// after the bootstrap socket connects. The core never interprets its
// fields beyond encoding them — they are produced by config.Config and
// consumed entirely by the native engine.

package protocol

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

type ConnectionRequest struct {
	Addresses          []string
	UseTLS             bool
	Credentials        []byte
	RequestTimeoutMs   uint64
	ConnectTimeoutMs   uint64
	Backoff            []byte
	ReadFrom           int32
	ClusterModeEnabled bool
	DatabaseID         int32
	PeriodicChecks     []byte
	PubsubSubs         []byte
	TLSInsecure        bool
	Otel               []byte
}

// EncodeFrame encodes c as a complete length-delimited frame.
func (c *ConnectionRequest) EncodeFrame(dst []byte) []byte {
	return AppendFrame(dst, c.Marshal())
}

func (c *ConnectionRequest) Marshal() []byte {
	var dst []byte
	for _, a := range c.Addresses {
		dst = appendStringField(dst, fieldConnAddresses, a)
	}
	dst = appendVarintField(dst, fieldConnUseTLS, boolToVarint(c.UseTLS))
	if c.Credentials != nil {
		dst = appendBytesField(dst, fieldConnCredentials, c.Credentials)
	}
	dst = appendVarintField(dst, fieldConnRequestTimeoutMs, c.RequestTimeoutMs)
	dst = appendVarintField(dst, fieldConnConnectTimeoutMs, c.ConnectTimeoutMs)
	if c.Backoff != nil {
		dst = appendBytesField(dst, fieldConnBackoff, c.Backoff)
	}
	dst = appendVarintField(dst, fieldConnReadFrom, uint64(uint32(c.ReadFrom)))
	dst = appendVarintField(dst, fieldConnClusterModeEnabled, boolToVarint(c.ClusterModeEnabled))
	dst = appendVarintField(dst, fieldConnDatabaseID, uint64(uint32(c.DatabaseID)))
	if c.PeriodicChecks != nil {
		dst = appendBytesField(dst, fieldConnPeriodicChecks, c.PeriodicChecks)
	}
	if c.PubsubSubs != nil {
		dst = appendBytesField(dst, fieldConnPubsubSubs, c.PubsubSubs)
	}
	dst = appendVarintField(dst, fieldConnTLSInsecure, boolToVarint(c.TLSInsecure))
	if c.Otel != nil {
		dst = appendBytesField(dst, fieldConnOtel, c.Otel)
	}
	return dst
}

func UnmarshalConnectionRequest(body []byte) (*ConnectionRequest, error) {
	c := &ConnectionRequest{}
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, fmt.Errorf("protocol: malformed connection request tag: %w", protowire.ParseError(n))
		}
		body = body[n:]
		switch num {
		case fieldConnAddresses:
			v, n := protowire.ConsumeString(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed addresses: %w", protowire.ParseError(n))
			}
			c.Addresses = append(c.Addresses, v)
			body = body[n:]
		case fieldConnUseTLS:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed use_tls: %w", protowire.ParseError(n))
			}
			c.UseTLS = v != 0
			body = body[n:]
		case fieldConnCredentials:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed credentials: %w", protowire.ParseError(n))
			}
			c.Credentials = v
			body = body[n:]
		case fieldConnRequestTimeoutMs:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed request_timeout_ms: %w", protowire.ParseError(n))
			}
			c.RequestTimeoutMs = v
			body = body[n:]
		case fieldConnConnectTimeoutMs:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed connection_timeout_ms: %w", protowire.ParseError(n))
			}
			c.ConnectTimeoutMs = v
			body = body[n:]
		case fieldConnBackoff:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed backoff: %w", protowire.ParseError(n))
			}
			c.Backoff = v
			body = body[n:]
		case fieldConnReadFrom:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed read_from: %w", protowire.ParseError(n))
			}
			c.ReadFrom = int32(uint32(v))
			body = body[n:]
		case fieldConnClusterModeEnabled:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed cluster_mode_enabled: %w", protowire.ParseError(n))
			}
			c.ClusterModeEnabled = v != 0
			body = body[n:]
		case fieldConnDatabaseID:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed database_id: %w", protowire.ParseError(n))
			}
			c.DatabaseID = int32(uint32(v))
			body = body[n:]
		case fieldConnPeriodicChecks:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed periodic_checks: %w", protowire.ParseError(n))
			}
			c.PeriodicChecks = v
			body = body[n:]
		case fieldConnPubsubSubs:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed pubsub_subscriptions: %w", protowire.ParseError(n))
			}
			c.PubsubSubs = v
			body = body[n:]
		case fieldConnTLSInsecure:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed tls_insecure: %w", protowire.ParseError(n))
			}
			c.TLSInsecure = v != 0
			body = body[n:]
		case fieldConnOtel:
			v, n := consumeOpaqueBytes(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed otel: %w", protowire.ParseError(n))
			}
			c.Otel = v
			body = body[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed unknown connection request field %d: %w", num, protowire.ParseError(n))
			}
			body = body[n:]
		}
	}
	return c, nil
}

// ConnectionResponse is the handshake's single reply: success or a
// diagnostic string.
type ConnectionResponse struct {
	OK    bool
	Error string
}

// EncodeFrame encodes r as a complete length-delimited frame.
func (r *ConnectionResponse) EncodeFrame(dst []byte) []byte {
	return AppendFrame(dst, r.Marshal())
}

func (r *ConnectionResponse) Marshal() []byte {
	var dst []byte
	if r.Error != "" {
		dst = appendStringField(dst, fieldConnRespError, r.Error)
	} else {
		dst = appendVarintField(dst, fieldConnRespOK, boolToVarint(true))
	}
	return dst
}

func UnmarshalConnectionResponse(body []byte) (*ConnectionResponse, error) {
	r := &ConnectionResponse{}
	for len(body) > 0 {
		num, typ, n := protowire.ConsumeTag(body)
		if n < 0 {
			return nil, fmt.Errorf("protocol: malformed connection response tag: %w", protowire.ParseError(n))
		}
		body = body[n:]
		switch num {
		case fieldConnRespOK:
			v, n := protowire.ConsumeVarint(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed ok: %w", protowire.ParseError(n))
			}
			r.OK = v != 0
			body = body[n:]
		case fieldConnRespError:
			v, n := protowire.ConsumeString(body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed error: %w", protowire.ParseError(n))
			}
			r.Error = v
			body = body[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, body)
			if n < 0 {
				return nil, fmt.Errorf("protocol: malformed unknown connection response field %d: %w", num, protowire.ParseError(n))
			}
			body = body[n:]
		}
	}
	return r, nil
}

func boolToVarint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
