// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Config is a plain data holder: every field here is an input to
// connection establishment. Most fields are only encoded for the native
// peer; the exceptions the core acts on itself are ConnectionBackoff
// (which also bounds transport.Dial's bootstrap retries), OTel (handed
// to otelsupport.Init) and MaxInlineArgsBytes (the pipeline's inline
// threshold). ToConnectionRequest is the only place Config's shape
// meets the wire.

package config

import (
	"time"

	"github.com/kvbridge/glide-transport/coreerr"
	"github.com/kvbridge/glide-transport/pipeline"
)

// ReadFrom selects which replica tier serves a read.
type ReadFrom int32

const (
	ReadFromPrimary ReadFrom = iota
	ReadFromPreferReplica
	ReadFromLowestLatency
	ReadFromAZAffinity
)

// Address is one seed endpoint.
type Address struct {
	Host string
	Port int // zero means the default 6379
}

// Credentials authenticates the handshake. Exactly one of the static
// pair or Provider should be set; Provider takes precedence when
// non-nil, matching the "credentials-provider callback" option in
// spec.md §6.
type Credentials struct {
	Username string
	Password string
	Provider func() (username, password string, err error)
}

// Backoff models `connection_backoff`: num_retries, factor,
// exponent_base, jitter. Reconnection after the handshake is the native
// peer's job (spec.md §4.1's failure policy); the parameters are carried
// across the handshake, and the core also uses them (via ToGoBackoff)
// to retry the bootstrap dial in transport.Dial.
type Backoff struct {
	NumRetries   int
	Factor       float64
	ExponentBase float64
	Jitter       bool
}

// PeriodicChecksMode selects the cluster topology check cadence.
type PeriodicChecksMode int32

const (
	PeriodicChecksDefault PeriodicChecksMode = iota
	PeriodicChecksDisabled
	PeriodicChecksCustom
)

type PeriodicChecks struct {
	Mode          PeriodicChecksMode
	DurationInSec int // meaningful only when Mode == PeriodicChecksCustom
}

// PubSubSubscriptions lists channels to (re-)subscribe to on connect.
type PubSubSubscriptions struct {
	Channels        []string
	Patterns        []string
	ShardedChannels []string
}

// OTel carries the OpenTelemetry binding the native peer validates and
// applies; see package otelsupport for the client-side validation of
// the same fields before they are ever sent.
type OTel struct {
	TracesEndpoint    string
	MetricsEndpoint   string
	SamplePercentage  int // 0-100, default 1
	FlushIntervalMs   int // positive, default 5000
}

// Config is the full recognised option set of spec.md §6's table.
type Config struct {
	Addresses           []Address
	UseTLS              bool
	Credentials         *Credentials
	RequestTimeout      time.Duration
	ConnectionTimeout    time.Duration
	ConnectionBackoff   Backoff
	ReadFrom            ReadFrom
	ClusterModeEnabled  bool
	DatabaseID          int
	PeriodicChecks      PeriodicChecks
	PubSubSubscriptions *PubSubSubscriptions
	TLSInsecure         bool
	OTel                *OTel

	// MaxInlineArgsBytes overrides pipeline.DefaultMaxInlineArgsBytes.
	// Zero means use the build default; this field exists so tests can
	// exercise the out-of-band interning path without multi-megabyte
	// fixtures.
	MaxInlineArgsBytes int
}

// EffectiveMaxInlineArgsBytes returns MaxInlineArgsBytes, or the build
// default when unset.
func (c *Config) EffectiveMaxInlineArgsBytes() int {
	if c.MaxInlineArgsBytes > 0 {
		return c.MaxInlineArgsBytes
	}
	return pipeline.DefaultMaxInlineArgsBytes
}

// Validate rejects configurations the core can detect as broken before
// ever dialing a socket.
func (c *Config) Validate() error {
	if len(c.Addresses) == 0 {
		return &coreerr.ConfigurationError{Diagnostic: "addresses must contain at least one endpoint"}
	}
	for _, a := range c.Addresses {
		if a.Host == "" {
			return &coreerr.ConfigurationError{Diagnostic: "address host must not be empty"}
		}
	}
	if c.OTel != nil {
		if c.OTel.SamplePercentage < 0 || c.OTel.SamplePercentage > 100 {
			return &coreerr.ConfigurationError{Diagnostic: "otel.sample_percentage must be within 0-100"}
		}
		if c.OTel.FlushIntervalMs < 0 {
			return &coreerr.ConfigurationError{Diagnostic: "otel.flush_interval_ms must be positive"}
		}
	}
	if c.ConnectionBackoff.NumRetries < 0 {
		return &coreerr.ConfigurationError{Diagnostic: "connection_backoff.num_retries must be non-negative"}
	}
	return nil
}

// WithDefaults returns a copy of c with zero-valued optional fields
// filled with spec.md §6's stated defaults.
func (c Config) WithDefaults() Config {
	if c.OTel != nil {
		o := *c.OTel
		if o.SamplePercentage == 0 {
			o.SamplePercentage = 1
		}
		if o.FlushIntervalMs == 0 {
			o.FlushIntervalMs = 5000
		}
		c.OTel = &o
	}
	return c
}
