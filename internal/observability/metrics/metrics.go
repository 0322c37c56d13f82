package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	analysisRequests  metric.Int64Counter
	analysisDuration  metric.Int64Histogram
	entitlementDenied metric.Int64Counter
	paymentEvents     metric.Int64Counter
	webhookEvents     metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down meter provider")
			return provider.Shutdown(ctx)
		},
	})

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "resume-analyzer"
	}
	meter := provider.Meter(name)

	analysisRequests, err := meter.Int64Counter("resume_analysis_requests_total")
	if err != nil {
		return nil, err
	}
	analysisDuration, err := meter.Int64Histogram("resume_analysis_duration_ms")
	if err != nil {
		return nil, err
	}
	entitlementDenied, err := meter.Int64Counter("resume_entitlement_denied_total")
	if err != nil {
		return nil, err
	}
	paymentEvents, err := meter.Int64Counter("resume_payment_events_total")
	if err != nil {
		return nil, err
	}
	webhookEvents, err := meter.Int64Counter("resume_webhook_events_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		analysisRequests:  analysisRequests,
		analysisDuration:  analysisDuration,
		entitlementDenied: entitlementDenied,
		paymentEvents:     paymentEvents,
		webhookEvents:     webhookEvents,
	}, nil
}

// RecordAnalysis increments analysis counts and observes latency.
func (m *Metrics) RecordAnalysis(ctx context.Context, analysisType, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("analysis_type", strings.TrimSpace(analysisType)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.analysisRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.analysisDuration.Record(ctx, duration.Milliseconds(), metric.WithAttributes(attrs...))
}

// RecordEntitlementDenied increments entitlement denial counts.
func (m *Metrics) RecordEntitlementDenied(ctx context.Context, feature, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("feature", strings.TrimSpace(feature)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.entitlementDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentEvent increments payment event counts.
func (m *Metrics) RecordPaymentEvent(ctx context.Context, eventType, tier string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("event_type", strings.TrimSpace(eventType)),
		attribute.String("tier", strings.TrimSpace(tier)),
	)
	m.paymentEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordWebhookEvent increments identity webhook counts.
func (m *Metrics) RecordWebhookEvent(ctx context.Context, eventType, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("event_type", strings.TrimSpace(eventType)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.webhookEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// allowedLabelKeys keeps metrics low-cardinality: user ids and raw
// payload values never become labels.
var allowedLabelKeys = map[attribute.Key]struct{}{
	"analysis_type": {},
	"feature":       {},
	"reason":        {},
	"status":        {},
	"tier":          {},
	"event_type":    {},
}

// FilterAttributes strips disallowed labels.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
