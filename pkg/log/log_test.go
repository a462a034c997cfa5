package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/i3-event-handler/pkg/log"
)

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr  error
		level    string
		format   string
		contains string
	}{
		"json": {
			level:    "info",
			format:   "json",
			contains: `"msg":"hello"`,
		},
		"logfmt": {
			level:    "INFO",
			format:   "logfmt",
			contains: "msg=hello",
		},
		"text": {
			level:    "debug",
			format:   "text",
			contains: "hello",
		},
		"auto on a buffer": {
			level:    "warning",
			format:   "auto",
			contains: "msg=hello",
		},
		"unknown level": {
			level:   "trace",
			format:  "json",
			wantErr: log.ErrUnknownLogLevel,
		},
		"unknown format": {
			level:   "info",
			format:  "xml",
			wantErr: log.ErrUnknownLogFormat,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.CreateHandlerWithStrings(&buf, tc.level, tc.format)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.ErrorIs(t, err, log.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)

			slog.New(h).Error("hello")
			assert.Contains(t, buf.String(), tc.contains)
		})
	}
}

func TestCreateHandler_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelWarn, log.FormatLogfmt))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLevelFromVerbosity(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want    log.Level
		verbose int
		quiet   bool
	}{
		"default":           {want: log.LevelInfo},
		"quiet":             {quiet: true, want: log.LevelWarn},
		"verbose":           {verbose: 1, want: log.LevelDebug},
		"very verbose":      {verbose: 3, want: log.LevelDebug},
		"quiet and verbose": {quiet: true, verbose: 2, want: log.LevelWarn},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, log.LevelFromVerbosity(tc.quiet, tc.verbose))
		})
	}
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.CreateHandler(&buf, slog.LevelInfo, log.FormatLogfmt)).
		With(slog.String("event_id", "01J"))

	ctx := log.NewContext(context.Background(), logger)
	log.WithContext(ctx).Info("first")
	assert.Contains(t, buf.String(), "event_id=01J")

	buf.Reset()

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	log.WithContext(ctx).Info("second")
	assert.Contains(t, buf.String(), "event_id=01J")
	assert.Contains(t, buf.String(), "trace_id=4bf92f35")
}

func TestWithContext_Default(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Default(), log.WithContext(context.Background()))
}
