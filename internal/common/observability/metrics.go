package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	listingCounter  otelmetric.Int64Counter
	listingDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	listingCounter, _ := meter.Int64Counter(
		"listings.generated",
		otelmetric.WithDescription("Number of listing generations processed"),
	)

	listingDuration, _ := meter.Float64Histogram(
		"listings.duration",
		otelmetric.WithDescription("Listing generation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		listingCounter:  listingCounter,
		listingDuration: listingDuration,
	}
}

func (o *Observability) RecordListingGenerated(ctx context.Context, pipeline, status string) {
	if o.listingCounter != nil {
		o.listingCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("pipeline", pipeline),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordListingDuration(ctx context.Context, duration time.Duration, pipeline, status string) {
	if o.listingDuration != nil {
		o.listingDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("pipeline", pipeline),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
