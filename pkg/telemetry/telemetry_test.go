package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nais/azpublish/pkg/telemetry"
)

func TestTracerWithoutInitialization(t *testing.T) {
	assert.NotPanics(t, func() {
		_, span := telemetry.Tracer().Start(context.Background(), "noop")
		span.End()
	})
}

func TestAddPublishSpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("").Start(context.Background(), "Publish package")
	telemetry.AddPublishSpanAttributes(span, "myservice", "staging")
	span.End()

	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.ElementsMatch(t, []attribute.KeyValue{
			attribute.String(telemetry.AttributeService, "myservice"),
			attribute.String(telemetry.AttributeSlot, "staging"),
		}, spans[0].Attributes())
	}
}
