// Package telemetry configures OpenTelemetry tracing.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/i3-event-handler/pkg/version"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "i3-event-handler"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// Setup installs a global tracer provider exporting spans over OTLP/gRPC to
// endpoint (host:port). With an empty endpoint nothing is installed, and
// the global no-op provider stays in place.
func Setup(ctx context.Context, endpoint string) (ShutdownFunc, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(Resource()),
	)
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled", slog.String("endpoint", endpoint))

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}

		return nil
	}, nil
}

// Resource describes this process.
func Resource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version.GetVersion()),
	)
}
