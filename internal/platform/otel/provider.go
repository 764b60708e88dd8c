// Package otel wires OpenTelemetry tracing for questkit binaries.
//
// Tracing is opt-in. Without QUESTKIT_OTEL_ENDPOINT, or with
// QUESTKIT_OTEL_ENABLED=false, Setup installs nothing and spans started
// against the global tracer are dropped.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/louisbranch/questkit/internal/platform/config"
)

// Config controls exporter setup.
type Config struct {
	Enabled  string `env:"QUESTKIT_OTEL_ENABLED"`
	Endpoint string `env:"QUESTKIT_OTEL_ENDPOINT"`
}

// endpoint returns the OTLP HTTP endpoint, or false when tracing is off.
func (c Config) endpoint() (string, bool) {
	if strings.EqualFold(strings.TrimSpace(c.Enabled), "false") {
		return "", false
	}
	endpoint := strings.TrimSpace(c.Endpoint)
	return endpoint, endpoint != ""
}

// Setup registers a global tracer provider for service and returns the
// function that flushes and stops it. The returned function is never nil.
func Setup(ctx context.Context, service string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return noop, err
	}
	endpoint, ok := cfg.endpoint()
	if !ok {
		return noop, nil
	}
	provider, err := newProvider(ctx, endpoint, service)
	if err != nil {
		return noop, err
	}
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return provider.Shutdown, nil
}

func newProvider(ctx context.Context, endpoint, service string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
