package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installRecorder swaps the global tracer provider for one backed by an
// in-memory span recorder and restores the original on cleanup.
func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
	})

	return recorder
}

func findAttribute(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartSpan(t *testing.T) {
	t.Run("records span with name and attributes", func(t *testing.T) {
		recorder := installRecorder(t)

		_, span := StartSpan(context.Background(), "sale.create",
			WithAttribute(SpanAttrInvoiceNumber, "INV25080001"),
			WithAttribute(SpanAttrItemCount, 3),
		)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, "sale.create", ended[0].Name())
		assert.Equal(t, trace.SpanKindInternal, ended[0].SpanKind())

		invoice, ok := findAttribute(ended[0].Attributes(), SpanAttrInvoiceNumber)
		require.True(t, ok)
		assert.Equal(t, "INV25080001", invoice.AsString())

		count, ok := findAttribute(ended[0].Attributes(), SpanAttrItemCount)
		require.True(t, ok)
		assert.Equal(t, int64(3), count.AsInt64())
	})

	t.Run("span kind override", func(t *testing.T) {
		recorder := installRecorder(t)

		_, span := StartSpan(context.Background(), "http.request", WithSpanKind(trace.SpanKindServer))
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	})
}

func TestStartServiceSpan(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartServiceSpan(context.Background(), "purchase_order", "receive")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "purchase_order.receive", ended[0].Name())
}

func TestSetAttributes(t *testing.T) {
	t.Run("sets pairs and skips non-string keys", func(t *testing.T) {
		recorder := installRecorder(t)

		_, span := StartSpan(context.Background(), "inventory.adjust")
		SetAttributes(span,
			SpanAttrProductID, "p-1",
			42, "ignored value",
			SpanAttrQuantity, 15,
		)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)

		productID, ok := findAttribute(ended[0].Attributes(), SpanAttrProductID)
		require.True(t, ok)
		assert.Equal(t, "p-1", productID.AsString())

		quantity, ok := findAttribute(ended[0].Attributes(), SpanAttrQuantity)
		require.True(t, ok)
		assert.Equal(t, int64(15), quantity.AsInt64())
	})

	t.Run("nil span is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			SetAttributes(nil, SpanAttrProductID, "p-1")
			SetAttribute(nil, SpanAttrProductID, "p-1")
		})
	})
}

func TestRecordError(t *testing.T) {
	t.Run("sets error status", func(t *testing.T) {
		recorder := installRecorder(t)

		_, span := StartSpan(context.Background(), "sale.create")
		RecordError(span, errors.New("insufficient stock"))
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
		assert.Equal(t, "insufficient stock", ended[0].Status().Description)
		require.Len(t, ended[0].Events(), 1)
		assert.Equal(t, "exception", ended[0].Events()[0].Name)
	})

	t.Run("nil error is a no-op", func(t *testing.T) {
		recorder := installRecorder(t)

		_, span := StartSpan(context.Background(), "sale.create")
		RecordError(span, nil)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Unset, ended[0].Status().Code)
	})
}

func TestSetOK(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartSpan(context.Background(), "sale.create")
	SetOK(span)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
}

func TestAddEvent(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartSpan(context.Background(), "inventory.adjust")
	AddEvent(span, "stock_clamped",
		SpanAttrQuantity, 25,
		SpanAttrReason, "correction",
	)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	require.Len(t, ended[0].Events(), 1)

	event := ended[0].Events()[0]
	assert.Equal(t, "stock_clamped", event.Name)

	reason, ok := findAttribute(event.Attributes, SpanAttrReason)
	require.True(t, ok)
	assert.Equal(t, "correction", reason.AsString())
}

func TestGetTraceAndSpanIDs(t *testing.T) {
	t.Run("valid span yields non-empty ids", func(t *testing.T) {
		installRecorder(t)

		ctx, span := StartSpan(context.Background(), "sale.create")
		defer span.End()

		assert.NotEmpty(t, GetTraceID(ctx))
		assert.NotEmpty(t, GetSpanID(ctx))
		assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
	})

	t.Run("background context yields empty ids", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
		assert.Empty(t, GetSpanID(context.Background()))
	})
}

type stringerValue struct{}

func (stringerValue) String() string { return "stringer" }

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  attribute.KeyValue
	}{
		{"string", "sku-1", attribute.String("k", "sku-1")},
		{"int", 7, attribute.Int("k", 7)},
		{"int64", int64(7), attribute.Int64("k", 7)},
		{"float64", 1.5, attribute.Float64("k", 1.5)},
		{"bool", true, attribute.Bool("k", true)},
		{"string slice", []string{"a", "b"}, attribute.StringSlice("k", []string{"a", "b"})},
		{"stringer", stringerValue{}, attribute.String("k", "stringer")},
		{"fallback", struct{ X int }{1}, attribute.String("k", "{1}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toAttribute("k", tt.value))
		})
	}
}
