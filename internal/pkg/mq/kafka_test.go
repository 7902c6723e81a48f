package mq

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestKafkaHeaderCarrier(t *testing.T) {
	carrier := KafkaHeaderCarrier{}

	carrier.Set("traceparent", "value-1")
	assert.Equal(t, "value-1", carrier.Get("traceparent"))

	// 同名 key 覆盖而不是追加
	carrier.Set("traceparent", "value-2")
	assert.Equal(t, "value-2", carrier.Get("traceparent"))
	assert.Len(t, carrier, 1)

	assert.Equal(t, "", carrier.Get("missing"))
	assert.Equal(t, []string{"traceparent"}, carrier.Keys())
}

func TestTraceContextRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	var headers []kafka.Header
	InjectTraceContext(ctx, &headers)
	require.NotEmpty(t, headers)

	extracted := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), headers))
	assert.Equal(t, traceID, extracted.TraceID())
	assert.True(t, extracted.IsRemote())
}
