// Package telemetry — OTLP-трейсинг сервиса и спаны операций над сделками.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "github.com/Gunvolt24/fx_deals"
	defaultEndpoint = "localhost:4318"

	// AttrDealID — атрибут спана с dealId.
	AttrDealID = attribute.Key("deal.id")
	// AttrBatchSize — атрибут спана с размером пакета.
	AttrBatchSize = attribute.Key("deal.batch_size")
)

// Options — параметры экспорта трейсов.
type Options struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string  // host:port OTLP/HTTP коллектора
	SampleRatio    float64 // доля трейсов [0..1]
}

// SetupTracing — OTLP/HTTP экспорт без TLS, семплинг по доле и глобальные пропагаторы.
// Возвращает Shutdown провайдера для graceful stop.
func SetupTracing(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if opts.Endpoint == "" {
		opts.Endpoint = defaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ClampRatio(opts.SampleRatio)))),
		sdktrace.WithResource(newResource(opts)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	return provider.Shutdown, nil
}

func newResource(opts Options) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(opts.ServiceName)}
	if opts.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(opts.ServiceVersion))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// ClampRatio — доля семплинга в пределах [0..1].
func ClampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

// StartSpan — дочерний спан операции над сделками через глобальный провайдер.
// Пока трейсинг не настроен, провайдер no-op и спан ничего не стоит.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan — завершает спан, отмечая ошибку, если она есть.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
