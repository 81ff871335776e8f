// Package telemetry поднимает трассировку и метрики сайта и описывает инструменты ретранслятора заявок.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ramzaiplumbing/site/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ScopeName имя, под которым сайт регистрирует свои трейсеры и метры.
const ScopeName = "github.com/ramzaiplumbing/site"

// Имена инструментов.
const (
	SubmissionsTotal  = "contact_submissions_total"
	EmailSendDuration = "contact_email_send_duration_seconds"
)

// Виды писем для атрибута email.kind.
const (
	EmailBusiness = "business_notification"
	EmailCustomer = "customer_confirmation"
)

const serviceNamespace = "ramzaiplumbing"

// Providers активные провайдеры. MetricsHandler равен nil, если метрики выключены.
type Providers struct {
	MetricsHandler http.Handler
	shutdowns      []func(context.Context) error
}

// Shutdown сбрасывает буферы экспортеров и останавливает провайдеры.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var joined error
	for _, shutdown := range p.shutdowns {
		joined = errors.Join(joined, shutdown(ctx))
	}
	return joined
}

// Init настраивает глобальные провайдеры otel по конфигурации.
func Init(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	p := &Providers{}
	if !cfg.TracesEnabled && !cfg.MetricsEnabled {
		return p, nil
	}

	res, err := siteResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.TracesEnabled {
		tp, err := tracerProvider(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		p.shutdowns = append(p.shutdowns, tp.Shutdown)
	}

	if cfg.MetricsEnabled {
		mp, handler, err := meterProvider(res)
		if err != nil {
			return nil, errors.Join(err, p.Shutdown(ctx))
		}
		otel.SetMeterProvider(mp)
		p.MetricsHandler = handler
		p.shutdowns = append(p.shutdowns, mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

func siteResource(ctx context.Context, cfg config.TelemetryConfig) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.namespace", serviceNamespace),
			attribute.String("deployment.environment", cfg.Environment),
		),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
	)
}

func tracerProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRatio))),
	), nil
}

// meterProvider отдает метрики через собственный реестр prometheus, чтобы /metrics
// не зависел от глобального DefaultRegisterer.
func meterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: EmailSendDuration},
			sdkmetric.Stream{Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
			}},
		)),
	)
	return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// Tracer трейсер сайта из глобального провайдера.
func Tracer() trace.Tracer {
	return otel.Tracer(ScopeName)
}

// Instruments счетчики ретранслятора заявок. Нулевое значение и nil ничего не записывают.
type Instruments struct {
	submissions metric.Int64Counter
	sendTime    metric.Float64Histogram
}

// NewInstruments создает инструменты на переданном провайдере.
func NewInstruments(mp metric.MeterProvider) (*Instruments, error) {
	meter := mp.Meter(ScopeName)
	submissions, err := meter.Int64Counter(SubmissionsTotal,
		metric.WithDescription("Contact form submissions by outcome"),
	)
	if err != nil {
		return nil, err
	}
	sendTime, err := meter.Float64Histogram(EmailSendDuration,
		metric.WithDescription("Time spent calling the email provider"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &Instruments{submissions: submissions, sendTime: sendTime}, nil
}

// RecordSubmission учитывает обработанную заявку.
func (i *Instruments) RecordSubmission(ctx context.Context, outcome string) {
	if i == nil || i.submissions == nil {
		return
	}
	i.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordEmailSend учитывает один вызов провайдера писем.
func (i *Instruments) RecordEmailSend(ctx context.Context, kind string, elapsed time.Duration, err error) {
	if i == nil || i.sendTime == nil {
		return
	}
	i.sendTime.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("email.kind", kind),
		attribute.Bool("error", err != nil),
	))
}

// Middleware оборачивает обработчик в otelhttp: span и метрики на каждый входящий запрос.
func Middleware(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operation)
	}
}
