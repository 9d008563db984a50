// Package telemetry exports publish traces to an OTLP collector over HTTP.
package telemetry

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	otrace "go.opentelemetry.io/otel/trace"

	"github.com/nais/azpublish/pkg/version"
)

const (
	AttributeService = "azpublish.service"
	AttributeSlot    = "azpublish.slot"

	exportInterval = 5 * time.Second
)

var provider *trace.TracerProvider

// New installs a tracer provider exporting to collectorURL and makes it the global one.
// Spans still buffered when the process ends are lost unless the caller shuts the
// returned provider down.
func New(ctx context.Context, serviceName string, collectorURL string) (*trace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(collectorURL))
	if err != nil {
		return nil, fmt.Errorf("set up trace exporter: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter, trace.WithBatchTimeout(exportInterval)),
		trace.WithResource(publishResource(serviceName)),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetTracerProvider(tp)
	provider = tp

	return tp, nil
}

// Tracer falls back to the global no-op provider until New has run.
func Tracer() otrace.Tracer {
	if provider == nil {
		return otel.Tracer("")
	}
	return provider.Tracer("")
}

func AddPublishSpanAttributes(span otrace.Span, service, slot string) {
	span.SetAttributes(
		attribute.String(AttributeService, service),
		attribute.String(AttributeSlot, slot),
	)
}

func publishResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version.Version()),
		semconv.OSName(runtime.GOOS),
	)
}
