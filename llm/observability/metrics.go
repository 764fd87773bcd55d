// Package observability wires the call layer into OpenTelemetry metrics:
// request and failure counters, cache hit/miss counters, call duration, and
// an observable gauge mirroring circuit breaker state. The orchestrator
// treats the collector as optional; all record methods are nil-receiver
// safe.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/BaSui01/spcassist/llm/circuitbreaker"
)

const instrumentationName = "github.com/BaSui01/spcassist/llm"

// Metrics collects call-layer metrics through the global otel meter
// provider.
type Metrics struct {
	meter metric.Meter

	requestTotal   metric.Int64Counter
	failureTotal   metric.Int64Counter
	cacheHitTotal  metric.Int64Counter
	cacheMissTotal metric.Int64Counter

	requestDuration metric.Float64Histogram
}

// NewMetrics creates the instrument set.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{meter: otel.Meter(instrumentationName)}

	var err error
	m.requestTotal, err = m.meter.Int64Counter("llm.request.total",
		metric.WithDescription("Total provider call attempts"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	m.failureTotal, err = m.meter.Int64Counter("llm.failure.total",
		metric.WithDescription("Failed calls by error code"),
		metric.WithUnit("{failure}"))
	if err != nil {
		return nil, err
	}

	m.cacheHitTotal, err = m.meter.Int64Counter("llm.cache.hit.total",
		metric.WithDescription("Response cache hits"),
		metric.WithUnit("{hit}"))
	if err != nil {
		return nil, err
	}

	m.cacheMissTotal, err = m.meter.Int64Counter("llm.cache.miss.total",
		metric.WithDescription("Response cache misses"),
		metric.WithUnit("{miss}"))
	if err != nil {
		return nil, err
	}

	m.requestDuration, err = m.meter.Float64Histogram("llm.request.duration",
		metric.WithDescription("Provider call duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRequest counts one call attempt and its duration. code is empty on
// success.
func (m *Metrics) RecordRequest(ctx context.Context, provider, model string, elapsed time.Duration, code string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("model", model),
	}
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.requestDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	if code != "" {
		m.failureTotal.Add(ctx, 1, metric.WithAttributes(
			append(attrs, attribute.String("code", code))...))
	}
}

// RecordCacheHit counts one response-cache hit.
func (m *Metrics) RecordCacheHit(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.cacheHitTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// RecordCacheMiss counts one response-cache miss.
func (m *Metrics) RecordCacheMiss(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.cacheMissTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}

// ObserveBreaker registers observable gauges exporting the breaker's open
// flag and failure count. The Status snapshot never mutates breaker state,
// so scraping cannot trigger recovery.
func (m *Metrics) ObserveBreaker(provider string, b *circuitbreaker.Breaker) error {
	if m == nil {
		return nil
	}

	openGauge, err := m.meter.Int64ObservableGauge("llm.breaker.open",
		metric.WithDescription("1 while the circuit breaker is open"))
	if err != nil {
		return err
	}
	failureGauge, err := m.meter.Int64ObservableGauge("llm.breaker.failure_count",
		metric.WithDescription("Consecutive failures recorded by the breaker"))
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(attribute.String("provider", provider))
	_, err = m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := b.Status()
		open := int64(0)
		if st.Open {
			open = 1
		}
		o.ObserveInt64(openGauge, open, attrs)
		o.ObserveInt64(failureGauge, int64(st.FailureCount), attrs)
		return nil
	}, openGauge, failureGauge)
	return err
}
