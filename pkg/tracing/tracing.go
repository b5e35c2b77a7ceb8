// Package tracing configures OpenTelemetry tracing for optimizer runs.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"

	"github.com/fogsched/taskopt/pkg/algorithms"
)

const (
	defaultServiceName  = "taskopt"
	instrumentationName = "github.com/fogsched/taskopt"
)

// Config selects where spans are exported. An empty endpoint keeps spans in
// process.
type Config struct {
	Endpoint    string
	ServiceName string
	Insecure    bool
}

// NewProvider builds a tracer provider and installs it, together with the
// W3C trace context propagator, as the otel globals.
func NewProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.Endpoint != "" {
		exp, err := newExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
		klog.FromContext(ctx).V(2).Info("Exporting traces", "endpoint", cfg.Endpoint)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	return tp, nil
}

func newExporter(ctx context.Context, cfg Config) (*otlptrace.Exporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
}

// Tracer returns the tracer used for optimizer spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartRun opens a span for one optimizer run.
func StartRun(ctx context.Context, algorithm string, tasks, nodes int, seed uint64) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "optimizer.run", trace.WithAttributes(
		attribute.String("taskopt.algorithm", algorithm),
		attribute.Int("taskopt.tasks", tasks),
		attribute.Int("taskopt.nodes", nodes),
		attribute.Int64("taskopt.seed", int64(seed)),
	))
}

// EndRun records the run outcome on span and ends it.
func EndRun(span trace.Span, res algorithms.Result, err error) {
	if !res.Best.IsZero() {
		span.SetAttributes(
			attribute.Float64("taskopt.best.fitness", res.Best.Fitness()),
			attribute.Float64("taskopt.best.makespan", res.Best.Time()),
			attribute.Float64("taskopt.best.cost", res.Best.Cost()),
			attribute.Int("taskopt.iterations", res.Iterations),
			attribute.Int64("taskopt.evaluations", res.Evaluations),
			attribute.Int("taskopt.front_size", len(res.Front)),
		)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
