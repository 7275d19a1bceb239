package telemetry

import (
	"context"
	"log/slog"
	"runtime/debug"
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

const (
	exporterDialTimeout = time.Second * 3
	metricExportEvery   = time.Second * 10
)

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "devel"
	}
	return info.Main.Version
}

// newResource describes the running process, OTEL_RESOURCE_ATTRIBUTES from
// the environment is layered on top.
func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	r, err := resource.New(
		ctx,
		resource.WithHost(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(buildVersion()),
		),
	)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), r)
}

func (c OtlpConnConfig) transport() string {
	if c.GrpcEndpoint != "" {
		return "grpc"
	}
	return "http"
}

func newTraceProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*trace.TracerProvider, error) {
	opts := []trace.TracerProviderOption{trace.WithResource(r)}
	if c.enabled() {
		dialCtx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
		defer cancel()

		var exporter trace.SpanExporter
		var err error
		switch c.transport() {
		case "grpc":
			exporter, err = otlptracegrpc.New(
				dialCtx,
				otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
				otlptracegrpc.WithHeaders(c.Headers),
			)
		default:
			exporter, err = otlptracehttp.New(
				dialCtx,
				otlptracehttp.WithEndpointURL(c.HttpEndpoint),
				otlptracehttp.WithHeaders(c.Headers),
			)
		}
		if err != nil {
			return nil, err
		}
		slog.Info("exporting traces", "transport", c.transport())
		opts = append(opts, trace.WithBatcher(exporter))
	}
	return trace.NewTracerProvider(opts...), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*metric.MeterProvider, error) {
	opts := []metric.Option{metric.WithResource(r)}
	if c.enabled() {
		dialCtx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
		defer cancel()

		var exporter metric.Exporter
		var err error
		switch c.transport() {
		case "grpc":
			exporter, err = otlpmetricgrpc.New(
				dialCtx,
				otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
				otlpmetricgrpc.WithHeaders(c.Headers),
			)
		default:
			exporter, err = otlpmetrichttp.New(
				dialCtx,
				otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
				otlpmetrichttp.WithHeaders(c.Headers),
			)
		}
		if err != nil {
			return nil, err
		}
		slog.Info("exporting metrics", "transport", c.transport())
		opts = append(opts, metric.WithReader(
			metric.NewPeriodicReader(exporter, metric.WithInterval(metricExportEvery)),
		))
	}
	return metric.NewMeterProvider(opts...), nil
}
