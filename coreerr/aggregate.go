// File: coreerr/aggregate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package coreerr

import "github.com/hashicorp/go-multierror"

// Aggregator collects teardown-time failures (the teardown cause and
// the stream close error) into a single error so callers of
// Connection.Close see every cause instead of only the first one
// encountered.
type Aggregator struct {
	err *multierror.Error
}

func (a *Aggregator) Add(err error) {
	if err == nil {
		return
	}
	a.err = multierror.Append(a.err, err)
}

// ErrorOrNil returns nil if no errors were added, or the aggregated
// error otherwise.
func (a *Aggregator) ErrorOrNil() error {
	if a.err == nil {
		return nil
	}
	return a.err.ErrorOrNil()
}
