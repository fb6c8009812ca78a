// Package tracing configures the OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/rentalhub/marketplace-backend/internal/common/config"
)

// Tracer wraps the provider so it can be shut down with the server.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// Init builds a provider from configuration. When tracing is disabled the
// returned Tracer hands out no-op spans.
func Init(cfg *config.TracingConfig, environment string) (*Tracer, error) {
	if cfg == nil || !cfg.Enabled {
		return &Tracer{tracer: noop.NewTracerProvider().Tracer("")}, nil
	}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	if cfg.Endpoint != "" {
		client := otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		exporter, err = otlptrace.New(context.Background(), client)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
		}
	} else {
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
	}
	return NewWithExporter(cfg, environment, exporter)
}

// NewWithExporter builds an enabled provider around exporter and installs it globally.
func NewWithExporter(cfg *config.TracingConfig, environment string, exporter sdktrace.SpanExporter) (*Tracer, error) {
	res, err := resource.Merge(
		resource.Default(),
		// schemaless so the merge never conflicts with the sdk's default schema
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			attribute.String("environment", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracer{provider: provider, tracer: provider.Tracer(cfg.ServiceName)}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown flushes and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}

// Start opens a span.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Enabled reports whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t.provider != nil
}

// Start opens a span on the global provider.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("marketplace").Start(ctx, name, trace.WithAttributes(attrs...))
}

// SetError records err on the current span.
func SetError(ctx context.Context, err error) {
	trace.SpanFromContext(ctx).RecordError(err)
}

var (
	AttrUserID    = attribute.Key("user.id")
	AttrBookingID = attribute.Key("booking.id")
)

// WithUserID user id attribute.
func WithUserID(id string) attribute.KeyValue {
	return AttrUserID.String(id)
}

// WithBookingID booking id attribute.
func WithBookingID(id string) attribute.KeyValue {
	return AttrBookingID.String(id)
}
