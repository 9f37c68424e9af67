package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestLoggerFromContextAddsTraceIDs(t *testing.T) {
	buf := captureLog(t)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	LoggerFromContext(ctx).Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, span.SpanContext().TraceID().String())
	assert.Contains(t, out, span.SpanContext().SpanID().String())
}

func TestLoggerFromContextWithoutSpan(t *testing.T) {
	buf := captureLog(t)

	LoggerFromContext(context.Background()).Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "trace_id")
}
