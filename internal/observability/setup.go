package observability

import (
	"context"
	"errors"
	"os"

	"lexiquiz/internal/config"

	autosdk "go.opentelemetry.io/auto/sdk"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Providers bundles what SetupObservability created so callers can shut it down
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *Logger
	Metrics        *Metrics
}

// Shutdown flushes every pipeline that was started
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if sdkTP, ok := p.TracerProvider.(*sdktrace.TracerProvider); ok {
		errs = append(errs, sdkTP.Shutdown(ctx))
	}
	if p.MeterProvider != nil {
		errs = append(errs, p.MeterProvider.Shutdown(ctx))
	}
	if p.Logger != nil {
		errs = append(errs, p.Logger.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// SetupObservability initializes tracing, metrics, and logging for a service
func SetupObservability(cfg *config.OpenTelemetryConfig, serviceName string, level zapcore.Level) (result0 *Providers, err error) {
	if serviceName != "" {
		cfg.ServiceName = serviceName
	}

	if err := os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName); err != nil {
		return nil, err
	}
	if err := os.Setenv("OTEL_SERVICE_VERSION", cfg.ServiceVersion); err != nil {
		return nil, err
	}

	p := &Providers{Logger: NewLoggerWithLevel(cfg, level)}

	InitPropagation()

	if cfg.EnableTracing {
		if cfg.UseAutoSDK {
			p.TracerProvider = autosdk.TracerProvider()
			p.Logger.Info(context.Background(), "Tracing enabled with Auto SDK", map[string]interface{}{"service_name": cfg.ServiceName})
		} else {
			tp, err := InitStandardTracing(cfg)
			if err != nil {
				return nil, err
			}
			p.TracerProvider = tp
			p.Logger.Info(context.Background(), "Tracing enabled with standard SDK", map[string]interface{}{"service_name": cfg.ServiceName})
		}
		otel.SetTracerProvider(p.TracerProvider)
		InitGlobalTracer()
	}

	if cfg.EnableMetrics {
		mp, err := InitMetrics(cfg)
		if err != nil {
			return nil, err
		}
		p.MeterProvider = mp
		otel.SetMeterProvider(mp)
	}

	// Instruments bind to the global meter provider, which is a no-op unless metrics are enabled
	metrics, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return nil, err
	}
	p.Metrics = metrics

	return p, nil
}
