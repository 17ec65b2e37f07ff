package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type otlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

// useGrpc logs which transport an exporter will use and reports whether it is grpc.
func (c otlpConnConfig) useGrpc(signal string) bool {
	kind, endpoint := "http", c.HttpEndpoint
	if c.GrpcEndpoint != "" {
		kind, endpoint = "grpc", c.GrpcEndpoint
	}
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"type", kind,
		"endpoint", endpoint,
		"headers", len(c.Headers) > 0,
	)
	return kind == "grpc"
}

type otlpConfig struct {
	Traces  otlpConnConfig `json:"traces"`
	Metrics otlpConnConfig `json:"metrics"`
}

type config struct {
	Otlp otlpConfig `json:"otlp"`
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, c config) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var exporter trace.SpanExporter
	var err error
	traces := c.Otlp.Traces
	if traces.useGrpc("traces") {
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(traces.GrpcEndpoint),
			otlptracegrpc.WithHeaders(traces.Headers),
		)
	} else {
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(traces.HttpEndpoint),
			otlptracehttp.WithHeaders(traces.Headers),
		)
	}
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, c config) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var exporter metric.Exporter
	var err error
	metrics := c.Otlp.Metrics
	if metrics.useGrpc("metrics") {
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(metrics.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(metrics.Headers),
		)
	} else {
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(metrics.HttpEndpoint),
			otlpmetrichttp.WithHeaders(metrics.Headers),
		)
	}
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(r),
	), nil
}
