// File: otelsupport/span.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package otelsupport

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSubmitSpan opens a span around one Connection.Submit call. The
// transport core itself never puts span context on the wire (spec.md
// §9); this only brackets the call on the language side.
func StartSubmitSpan(ctx context.Context, requestType int32) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "glide-transport.Submit",
		trace.WithAttributes(attribute.Int("request_type", int(requestType))),
	)
}

// EndSubmitSpan records err (if any) on span and closes it.
func EndSubmitSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
