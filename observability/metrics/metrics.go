package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Metrics carries the delivery-pipeline instruments: notifications
// published, delivered (replay and live) and acknowledged, plus the number
// of currently open websocket connections.
type Metrics struct {
	published         metric.Int64Counter
	delivered         metric.Int64Counter
	acknowledged      metric.Int64Counter
	activeConnections metric.Int64UpDownCounter
}

type options struct {
	serviceName      string
	serviceVersion   string
	environment      string
	otlpEndpoint     string
	otlpGRPCEndpoint string
}

// Option configures the exporter.
type Option func(*options)

// WithServiceName sets the service name
func WithServiceName(name string) Option {
	return func(o *options) {
		o.serviceName = name
	}
}

// WithServiceVersion sets the service version
func WithServiceVersion(version string) Option {
	return func(o *options) {
		o.serviceVersion = version
	}
}

// WithOTLPEndpoint sets the OTLP HTTP endpoint
func WithOTLPEndpoint(endpoint string) Option {
	return func(o *options) {
		o.otlpEndpoint = endpoint
	}
}

// WithOTLPGRPCEndpoint sets the OTLP gRPC endpoint
func WithOTLPGRPCEndpoint(endpoint string) Option {
	return func(o *options) {
		o.otlpGRPCEndpoint = endpoint
	}
}

// WithEnvironment sets the deployment environment
func WithEnvironment(env string) Option {
	return func(o *options) {
		o.environment = env
	}
}

func defaultOptions() *options {
	return &options{
		serviceName:    "notification-service",
		serviceVersion: "1.0.0",
		otlpEndpoint:   "localhost:4318",
		environment:    "development",
	}
}

// Noop returns a Metrics whose instruments discard every measurement. Used
// when metrics are disabled and in tests.
func Noop() *Metrics {
	m, _ := newMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

// New builds an OTLP exporter (gRPC when a gRPC endpoint is configured,
// HTTP otherwise), installs it as the global meter provider and returns the
// service instruments together with a shutdown func.
func New(opts ...Option) (*Metrics, func(), error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.otlpGRPCEndpoint == "" && o.otlpEndpoint == "" {
		return nil, nil, fmt.Errorf("OTLP HTTP endpoint is required when gRPC endpoint is not configured")
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(o.serviceName),
			semconv.ServiceVersion(o.serviceVersion),
			semconv.DeploymentEnvironment(o.environment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	if o.otlpGRPCEndpoint != "" {
		exporter, err = otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(o.otlpGRPCEndpoint),
			otlpmetricgrpc.WithInsecure(), // Use TLS in production
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
	} else {
		exporter, err = otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(o.otlpEndpoint),
			otlpmetrichttp.WithInsecure(), // Use TLS in production
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(10*time.Second),
		)),
	)
	otel.SetMeterProvider(meterProvider)

	m, err := newMetrics(meterProvider.Meter(o.serviceName))
	if err != nil {
		meterProvider.Shutdown(context.Background())
		return nil, nil, err
	}

	return m, func() {
		meterProvider.Shutdown(context.Background())
	}, nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	published, err := meter.Int64Counter("notifications_published_total",
		metric.WithDescription("Notifications appended to recipient streams"))
	if err != nil {
		return nil, fmt.Errorf("failed to create published counter: %w", err)
	}

	delivered, err := meter.Int64Counter("notifications_delivered_total",
		metric.WithDescription("Entries pushed to live connections"))
	if err != nil {
		return nil, fmt.Errorf("failed to create delivered counter: %w", err)
	}

	acknowledged, err := meter.Int64Counter("notifications_acknowledged_total",
		metric.WithDescription("Entries acknowledged by clients"))
	if err != nil {
		return nil, fmt.Errorf("failed to create acknowledged counter: %w", err)
	}

	activeConnections, err := meter.Int64UpDownCounter("websocket_connections_active",
		metric.WithDescription("Currently open websocket connections"))
	if err != nil {
		return nil, fmt.Errorf("failed to create connections counter: %w", err)
	}

	return &Metrics{
		published:         published,
		delivered:         delivered,
		acknowledged:      acknowledged,
		activeConnections: activeConnections,
	}, nil
}

func (m *Metrics) NotificationPublished(ctx context.Context) {
	m.published.Add(ctx, 1)
}

// NotificationsDelivered records entries pushed to a connection. Phase is
// "replay" or "live".
func (m *Metrics) NotificationsDelivered(ctx context.Context, phase string, count int64) {
	m.delivered.Add(ctx, count, metric.WithAttributes(attribute.String("phase", phase)))
}

func (m *Metrics) NotificationsAcknowledged(ctx context.Context, count int64) {
	m.acknowledged.Add(ctx, count)
}

func (m *Metrics) ConnectionOpened(ctx context.Context) {
	m.activeConnections.Add(ctx, 1)
}

func (m *Metrics) ConnectionClosed(ctx context.Context) {
	m.activeConnections.Add(ctx, -1)
}
