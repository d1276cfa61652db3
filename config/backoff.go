// File: config/backoff.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The native peer owns steady-state reconnection after the handshake
// succeeds (spec.md §4.1's failure policy is explicit that retry is not
// the core's job). ToGoBackoff exists for the one place the core itself
// still retries: the bootstrap dial in transport.Dial, before a native
// peer is even listening on the socket path yet.

package config

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ToGoBackoff converts Backoff's wire parameters into a
// cenkalti/backoff/v4 policy suitable for bounding bootstrap dial
// retries. baseInterval is the starting wait before the first retry.
func (b Backoff) ToGoBackoff(baseInterval time.Duration) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = baseInterval
	if b.Factor > 0 {
		eb.InitialInterval = time.Duration(float64(baseInterval) * b.Factor)
	}
	if b.ExponentBase > 0 {
		eb.Multiplier = b.ExponentBase
	}
	if !b.Jitter {
		eb.RandomizationFactor = 0
	}
	if b.NumRetries <= 0 {
		return backoff.WithMaxRetries(eb, 0)
	}
	return backoff.WithMaxRetries(eb, uint64(b.NumRetries))
}
