// Package telemetry sets up the OpenTelemetry tracer used by the API client.
// Spans are exported over OTLP/HTTP when OTEL_EXPORTER_OTLP_ENDPOINT is set
// and stay in-process otherwise.
package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer handed to components.
const InstrumentationName = "recorddeck/api"

// DefaultServiceName is used when OTEL_SERVICE_NAME is unset.
const DefaultServiceName = "recorddeck"

// Config selects the exporter.
type Config struct {
	Endpoint    string // OTLP/HTTP endpoint; empty disables export
	ServiceName string
}

// ConfigFromEnv reads the standard OTEL_* variables.
func ConfigFromEnv() Config {
	name := os.Getenv("OTEL_SERVICE_NAME")
	if name == "" {
		name = DefaultServiceName
	}
	return Config{
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName: name,
	}
}

// Provider owns the SDK tracer provider.
type Provider struct {
	provider  *sdktrace.TracerProvider
	tracer    oteltrace.Tracer
	exporting bool
}

// New builds a provider. Without an endpoint spans are recorded by the SDK
// but never leave the process.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Endpoint == "" {
		p := sdktrace.NewTracerProvider(sdktrace.WithResource(serviceResource(cfg.ServiceName)))
		return &Provider{provider: p, tracer: p.Tracer(InstrumentationName)}, nil
	}

	var opts []otlptracehttp.Option
	if strings.Contains(cfg.Endpoint, "://") {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	} else {
		opts = append(opts,
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithInsecure(),
		)
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	p := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(serviceResource(cfg.ServiceName)),
	)
	return &Provider{provider: p, tracer: p.Tracer(InstrumentationName), exporting: true}, nil
}

// NewWithProcessor builds a provider around an explicit span processor,
// e.g. a tracetest.SpanRecorder.
func NewWithProcessor(sp sdktrace.SpanProcessor, serviceName string) *Provider {
	p := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sp),
		sdktrace.WithResource(serviceResource(serviceName)),
	)
	return &Provider{provider: p, tracer: p.Tracer(InstrumentationName)}
}

func serviceResource(name string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(name),
	)
}

// Tracer returns the tracer for API calls. A nil provider yields a no-op tracer.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil {
		return noop.NewTracerProvider().Tracer(InstrumentationName)
	}
	return p.tracer
}

// Exporting reports whether spans are sent to an OTLP endpoint.
func (p *Provider) Exporting() bool {
	return p != nil && p.exporting
}

// Shutdown flushes and closes the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
