package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
	"toolbox-backend/lib/configutil"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

var (
	providerLock   sync.Mutex
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
)

// Setup installs the global tracer and meter providers. exporters are only
// created for the signals that have an endpoint configured.
func Setup(ctx context.Context, serviceName string, config Config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(ctx, serviceName)
	if err != nil {
		return err
	}

	tp, err := newTraceProvider(ctx, r, config.Otlp.Traces)
	if err != nil {
		return err
	}
	mp, err := newMetricProvider(ctx, r, config.Otlp.Metrics)
	if err != nil {
		return err
	}

	providerLock.Lock()
	tracerProvider = tp
	meterProvider = mp
	providerLock.Unlock()

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	return nil
}

// searches up the filesystem from the cwd to find a file
// called telemetry.json5, once found it will then use it
// as a config to setup telemetry. if no such file exists telemetry
// is set up without exporters.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if os.IsNotExist(err) {
		slog.Info("no telemetry.json5 found, exporters disabled", "service", serviceName)
		return Setup(ctx, serviceName, Config{})
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, config)
}

func Shutdown(ctx context.Context) error {
	providerLock.Lock()
	tp := tracerProvider
	mp := meterProvider
	tracerProvider = nil
	meterProvider = nil
	providerLock.Unlock()

	var errlist []error
	if tp != nil {
		errlist = append(errlist, tp.Shutdown(ctx))
	}
	if mp != nil {
		errlist = append(errlist, mp.Shutdown(ctx))
	}
	return errors.Join(errlist...)
}

var (
	testEnvLock           sync.Mutex
	setupTestEnvironments = map[string]bool{}
)

// sets up telemetry in a testing environment, ensuring that it isn't
// set up more than once
func SetupForTesting(serviceName string) func() {
	testEnvLock.Lock()
	defer testEnvLock.Unlock()

	if setupTestEnvironments[serviceName] {
		return func() {}
	}
	setupTestEnvironments[serviceName] = true

	InitSlog(true)
	err := SetupFromEnv(context.Background(), serviceName)
	if err != nil {
		panic(err)
	}

	return func() {
		testEnvLock.Lock()
		delete(setupTestEnvironments, serviceName)
		testEnvLock.Unlock()

		err := Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	}
}

// InitSlog replaces the default logger with a colored handler on stderr,
// `verbose` lowers the level to debug.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}
