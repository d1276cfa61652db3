// File: config/wire.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ToConnectionRequest is the one place Config's Go-native shape meets
// the wire. Sub-structures the core never interprets (backoff,
// periodic checks, pub/sub subscriptions, the OTel block) are encoded
// as opaque JSON blobs rather than given their own protowire schema:
// unlike Request/Response, which are exchanged at high frequency and
// decoded by both a Go client and the native peer on every message,
// these fields are written exactly once per connection and read by a
// single receiver, so there is no round-trip-cost or cross-language
// schema-evolution pressure to justify a dedicated binary encoding.

package config

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kvbridge/glide-transport/protocol"
)

func (c *Config) ToConnectionRequest() (*protocol.ConnectionRequest, error) {
	cr := &protocol.ConnectionRequest{
		UseTLS:             c.UseTLS,
		RequestTimeoutMs:   uint64(c.RequestTimeout.Milliseconds()),
		ConnectTimeoutMs:   uint64(c.ConnectionTimeout.Milliseconds()),
		ReadFrom:           int32(c.ReadFrom),
		ClusterModeEnabled: c.ClusterModeEnabled,
		DatabaseID:         int32(c.DatabaseID),
		TLSInsecure:        c.TLSInsecure,
	}

	for _, a := range c.Addresses {
		port := a.Port
		if port == 0 {
			port = 6379
		}
		cr.Addresses = append(cr.Addresses, a.Host+":"+strconv.Itoa(port))
	}

	if c.Credentials != nil {
		username, password := c.Credentials.Username, c.Credentials.Password
		if c.Credentials.Provider != nil {
			u, p, err := c.Credentials.Provider()
			if err != nil {
				return nil, fmt.Errorf("config: credentials provider: %w", err)
			}
			username, password = u, p
		}
		b, err := json.Marshal(struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}{username, password})
		if err != nil {
			return nil, fmt.Errorf("config: encoding credentials: %w", err)
		}
		cr.Credentials = b
	}

	backoffBytes, err := json.Marshal(c.ConnectionBackoff)
	if err != nil {
		return nil, fmt.Errorf("config: encoding backoff: %w", err)
	}
	cr.Backoff = backoffBytes

	periodicBytes, err := json.Marshal(c.PeriodicChecks)
	if err != nil {
		return nil, fmt.Errorf("config: encoding periodic_checks: %w", err)
	}
	cr.PeriodicChecks = periodicBytes

	if c.PubSubSubscriptions != nil {
		b, err := json.Marshal(c.PubSubSubscriptions)
		if err != nil {
			return nil, fmt.Errorf("config: encoding pubsub_subscriptions: %w", err)
		}
		cr.PubsubSubs = b
	}

	if c.OTel != nil {
		b, err := json.Marshal(c.OTel)
		if err != nil {
			return nil, fmt.Errorf("config: encoding otel: %w", err)
		}
		cr.Otel = b
	}

	return cr, nil
}
