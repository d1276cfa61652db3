// File: otelsupport/init.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Init is process-wide and once-only, matching spec.md §9's "Global
// state" note: OTel is a process-wide resource, so repeat calls log a
// warning and return the first call's error (or nil) instead of
// reinitialising.

package otelsupport

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/kvbridge/glide-transport/config"
	"github.com/kvbridge/glide-transport/coreerr"
)

var (
	initOnce     sync.Once
	initErr      error
	initialized  bool
	calledBefore atomic.Bool
	tracerOnce   trace.Tracer
	meterOnce    metric.Meter
	shutdownFunc func(context.Context) error
)

// Init validates cfg (if present) — sample percentage within 0-100, flush
// interval not negative — and wires the OTLP gRPC exporters for traces
// and metrics. An invalid cfg returns a *coreerr.ConfigurationError
// without initializing anything. Calling it a second time from
// anywhere in the process is a no-op that logs a warning; this mirrors
// the native peer's own process-wide OTel resource.
func Init(ctx context.Context, cfg *config.OTel, log logrus.FieldLogger) error {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg != nil {
		if cfg.SamplePercentage < 0 || cfg.SamplePercentage > 100 {
			return &coreerr.ConfigurationError{Diagnostic: "otel.sample_percentage must be within 0-100"}
		}
		if cfg.FlushIntervalMs < 0 {
			return &coreerr.ConfigurationError{Diagnostic: "otel.flush_interval_ms must be positive"}
		}
	}
	if calledBefore.Swap(true) {
		log.Warn("otelsupport: Init called again, ignoring")
	}

	initOnce.Do(func() {
		initialized = true
		if cfg == nil {
			return
		}

		var shutdowns []func(context.Context) error

		if cfg.TracesEndpoint != "" {
			conn, err := grpc.NewClient(cfg.TracesEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				initErr = err
				return
			}
			exp, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
			if err != nil {
				initErr = err
				return
			}
			tp := sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(flushInterval(cfg))),
				sdktrace.WithSampler(sdktrace.TraceIDRatioBased(samplerRatio(cfg))),
			)
			otel.SetTracerProvider(tp)
			tracerOnce = tp.Tracer("github.com/kvbridge/glide-transport")
			shutdowns = append(shutdowns, tp.Shutdown)
		}

		if cfg.MetricsEndpoint != "" {
			conn, err := grpc.NewClient(cfg.MetricsEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				initErr = err
				return
			}
			exp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
			if err != nil {
				initErr = err
				return
			}
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(
				sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(flushInterval(cfg))),
			))
			otel.SetMeterProvider(mp)
			meterOnce = mp.Meter("github.com/kvbridge/glide-transport")
			shutdowns = append(shutdowns, mp.Shutdown)
		}

		shutdownFunc = func(ctx context.Context) error {
			for _, fn := range shutdowns {
				if err := fn(ctx); err != nil {
					return err
				}
			}
			return nil
		}
	})

	if initialized && initErr == nil {
		return nil
	}
	return initErr
}

// IsInitialized reports whether Init has already run in this process.
func IsInitialized() bool {
	return initialized
}

// Tracer returns the process-wide tracer Init configured, or a no-op
// tracer if traces were never enabled.
func Tracer() trace.Tracer {
	if tracerOnce == nil {
		return otel.Tracer("github.com/kvbridge/glide-transport")
	}
	return tracerOnce
}

// Meter returns the process-wide meter Init configured, or a no-op
// meter if metrics were never enabled.
func Meter() metric.Meter {
	if meterOnce == nil {
		return otel.Meter("github.com/kvbridge/glide-transport")
	}
	return meterOnce
}

// Shutdown flushes and closes any exporters Init created. Safe to call
// even if Init was never called or configured no endpoints.
func Shutdown(ctx context.Context) error {
	if shutdownFunc == nil {
		return nil
	}
	return shutdownFunc(ctx)
}

func flushInterval(cfg *config.OTel) time.Duration {
	if cfg.FlushIntervalMs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(cfg.FlushIntervalMs) * time.Millisecond
}

func samplerRatio(cfg *config.OTel) float64 {
	pct := cfg.SamplePercentage
	if pct <= 0 {
		pct = 1
	}
	return float64(pct) / 100.0
}
