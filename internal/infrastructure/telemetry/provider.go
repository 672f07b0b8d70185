// Package telemetry wires OpenTelemetry tracing, metrics and logs plus
// Pyroscope continuous profiling.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anu-devcode/deploy-test-sub002/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// InstrumentationName names the tracer and meter used by the shop
	InstrumentationName = "shop-backend"

	defaultExportInterval = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Providers owns the OpenTelemetry SDK providers. A disabled Providers is
// valid and hands out the global no-op tracer and meter.
type Providers struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
	logs   *sdklog.LoggerProvider
	cfg    config.TelemetryConfig
	logger *zap.Logger
}

// Setup builds the trace, metric and log providers configured in cfg and
// registers them globally.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	p := &Providers{cfg: cfg, logger: logger.Named("telemetry")}
	if !cfg.Enabled {
		p.logger.Info("Telemetry disabled, using no-op providers")
		return p, nil
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	if p.tracer, err = newTracerProvider(ctx, cfg, res); err != nil {
		return nil, err
	}
	otel.SetTracerProvider(p.tracer)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.MetricsEnabled {
		if p.meter, err = newMeterProvider(ctx, cfg, res); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		otel.SetMeterProvider(p.meter)
	}

	if cfg.LogsEnabled {
		if p.logs, err = newLoggerProvider(ctx, cfg, res); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		global.SetLoggerProvider(p.logs)
	}

	p.logger.Info("OpenTelemetry initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.Bool("metrics", cfg.MetricsEnabled),
		zap.Bool("logs", cfg.LogsEnabled),
	)
	return p, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func newTracerProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SamplingRatio)),
	), nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func newMeterProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(defaultExportInterval))),
	), nil
}

func newLoggerProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	), nil
}

// LogCore returns a zap core that forwards records to the OTLP log pipeline,
// or nil when log export is disabled.
func (p *Providers) LogCore() zapcore.Core {
	if p.logs == nil {
		return nil
	}
	return otelzap.NewCore(p.cfg.ServiceName, otelzap.WithLoggerProvider(p.logs))
}

// EnableSpanProfiles links CPU profiles to spans. The profiler must already be running.
func (p *Providers) EnableSpanProfiles() {
	if p.tracer == nil {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(p.tracer))
	p.logger.Info("Span profiles enabled")
}

func (p *Providers) Tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(InstrumentationName)
}

func (p *Providers) Meter() metric.Meter {
	if p.meter != nil {
		return p.meter.Meter(InstrumentationName)
	}
	return otel.GetMeterProvider().Meter(InstrumentationName)
}

func (p *Providers) Enabled() bool {
	return p.tracer != nil
}

// Shutdown flushes and stops every provider that was started.
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if p.logs != nil {
		if err := p.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger provider: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		p.logger.Error("Telemetry shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
