// Package apm configures OpenTelemetry tracing.
package apm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/crosschain-cycler/internal/logger"
)

type Provider string

const (
	ZipkinProvider  Provider = "zipkin"
	OTLPProvider    Provider = "otlp"
	ConsoleProvider Provider = "console"
	EmptyProvider   Provider = "empty"
)

// Settings selects and configures the span exporter.
type Settings struct {
	Provider    Provider
	ServiceName string
	// Endpoint is the OTLP collector URL.
	Endpoint string
	// Headers is "key=value[,key=value]" sent to the OTLP collector.
	Headers string
	// Protocol is "grpc" (default) or "http/protobuf".
	Protocol  string
	ZipkinURL string
}

type TraceProvider interface {
	Stop() error
}

type emptyProvider struct{}

func (emptyProvider) Stop() error { return nil }

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

// NewTraceProvider installs a global tracer provider for s.Provider.
// Unknown or empty providers install nothing and return a no-op.
func NewTraceProvider(ctx context.Context, s Settings, log logger.LoggerInterface) (TraceProvider, error) {
	exp, err := newExporter(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("apm: %s exporter: %w", s.Provider, err)
	}
	if exp == nil {
		log.Debug(ctx, "tracing disabled", "provider", string(s.Provider))
		return emptyProvider{}, nil
	}

	rsrc, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(s.ServiceName),
			attribute.String("otel.provider", string(s.Provider)),
		))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	log.Info(ctx, "tracing initialized", "provider", string(s.Provider))
	return &traceProvider{tp}, nil
}

func newExporter(ctx context.Context, s Settings) (sdktrace.SpanExporter, error) {
	switch s.Provider {
	case ZipkinProvider:
		return zipkin.New(s.ZipkinURL)
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case OTLPProvider:
		headers, err := ParseHeaders(s.Headers)
		if err != nil {
			return nil, err
		}
		if s.Protocol == "http/protobuf" {
			return otlptracehttp.New(ctx,
				otlptracehttp.WithEndpointURL(s.Endpoint),
				otlptracehttp.WithHeaders(headers),
			)
		}
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(s.Endpoint),
			otlptracegrpc.WithHeaders(headers),
		)
	default:
		return nil, nil
	}
}

// ParseHeaders parses "k=v,k2=v2".
func ParseHeaders(raw string) (map[string]string, error) {
	headers := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return headers, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid header %q, expected key=value", pair)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	return o.tp.Shutdown(ctx)
}
