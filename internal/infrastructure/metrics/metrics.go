package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"slawn/pkg/config"
	"slawn/pkg/logger"
)

const meterName = "slawn"

// AppMetrics holds the business counters.
type AppMetrics struct {
	PaymentsConfirmed       metric.Int64Counter
	PaymentsCancelled       metric.Int64Counter
	LedgerWriteFailures     metric.Int64Counter
	SecondaryUpdateFailures metric.Int64Counter
	OrdersCreated           metric.Int64Counter
	OrderStageChanges       metric.Int64Counter
	MessagesSent            metric.Int64Counter
	MessagesRateLimited     metric.Int64Counter
}

// InitMetrics exports over OTLP HTTP when an endpoint is configured and
// falls back to a noop meter otherwise. The returned shutdown is never nil.
func InitMetrics(ctx context.Context, cfg *config.Config) (*AppMetrics, func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		logger.Info("OTLP endpoint not configured, metrics disabled")
		m, err := New(noop.NewMeterProvider().Meter(meterName))
		return m, func(context.Context) error { return nil }, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(strings.TrimPrefix(strings.TrimPrefix(cfg.OTLPEndpoint, "https://"), "http://")),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if strings.HasPrefix(cfg.OTLPEndpoint, "http://") {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))),
	)
	otel.SetMeterProvider(provider)

	m, err := New(provider.Meter(meterName))
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Metrics exporting to %s", cfg.OTLPEndpoint)
	return m, provider.Shutdown, nil
}

// New registers every counter on meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	counters := []struct {
		dst         *metric.Int64Counter
		name        string
		description string
	}{
		{&m.PaymentsConfirmed, "payments_confirmed_total", "Payments recorded in the ledger"},
		{&m.PaymentsCancelled, "payments_cancelled_total", "Checkout windows closed without paying"},
		{&m.LedgerWriteFailures, "ledger_write_failures_total", "Successful payments the ledger failed to record"},
		{&m.SecondaryUpdateFailures, "secondary_update_failures_total", "Counter or order updates that failed after a recorded payment"},
		{&m.OrdersCreated, "orders_created_total", "Shipping orders created"},
		{&m.OrderStageChanges, "order_stage_changes_total", "Order status changes"},
		{&m.MessagesSent, "messages_sent_total", "Chat messages sent"},
		{&m.MessagesRateLimited, "messages_rate_limited_total", "Chat messages refused by the rate limiter"},
	}

	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	return m, nil
}

// Noop returns counters that record nothing, for tests and tooling.
func Noop() *AppMetrics {
	m, _ := New(noop.NewMeterProvider().Meter(meterName))
	return m
}

func (m *AppMetrics) Inc(ctx context.Context, counter metric.Int64Counter, attrs ...attribute.KeyValue) {
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}
