package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a meter from the global provider, which is a no-op until
// Setup installs an exporting one.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the service's instruments. A nil *Metrics is not valid;
// callers that may run without metrics check for nil themselves.
type Metrics struct {
	requests         metric.Int64Counter
	requestLatency   metric.Float64Histogram
	inFlight         metric.Int64UpDownCounter
	operations       metric.Int64Counter
	operationTime    metric.Float64Histogram
	errCount         metric.Int64Counter
	stageTime        metric.Float64Histogram
	resolutions      metric.Int64Counter
	audioTranscribed metric.Float64Counter
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	seconds := metric.WithUnit("s")
	var errs []error
	track := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
	}

	var err error
	m.requests, err = meter.Int64Counter("request.total", metric.WithDescription("HTTP requests"))
	track("request.total", err)
	m.requestLatency, err = meter.Float64Histogram("request.duration", metric.WithDescription("HTTP request latency"), seconds)
	track("request.duration", err)
	m.inFlight, err = meter.Int64UpDownCounter("request.active", metric.WithDescription("In-flight HTTP requests"))
	track("request.active", err)
	m.operations, err = meter.Int64Counter("operation.total", metric.WithDescription("Outbound provider calls"))
	track("operation.total", err)
	m.operationTime, err = meter.Float64Histogram("operation.duration", metric.WithDescription("Outbound provider call latency"), seconds)
	track("operation.duration", err)
	m.errCount, err = meter.Int64Counter("error.total", metric.WithDescription("Errors by type and component"))
	track("error.total", err)
	m.stageTime, err = meter.Float64Histogram("voice.stage.duration", metric.WithDescription("Voice pipeline stage latency"), seconds)
	track("voice.stage.duration", err)
	m.resolutions, err = meter.Int64Counter("mention.resolution.total", metric.WithDescription("Mention resolutions by outcome"))
	track("mention.resolution.total", err)
	m.audioTranscribed, err = meter.Float64Counter("voice.audio.seconds", metric.WithDescription("Transcribed audio"), seconds)
	track("voice.audio.seconds", err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &m, nil
}

func labels(kv ...string) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return metric.WithAttributes(attrs...)
}

func (m *Metrics) RecordRequestStart(ctx context.Context) {
	m.inFlight.Add(ctx, 1)
}

// RecordRequestEnd closes a RecordRequestStart. route is "METHOD /template".
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, route, status string, d time.Duration) {
	m.inFlight.Add(ctx, -1)
	m.requests.Add(ctx, 1, labels("service", service, "method", route, "status", status))
	m.requestLatency.Record(ctx, d.Seconds(), labels("service", service, "method", route))
}

func (m *Metrics) RecordOperation(ctx context.Context, service, operation, status string, d time.Duration) {
	m.operations.Add(ctx, 1, labels("service", service, "operation", operation, "status", status))
	m.operationTime.Record(ctx, d.Seconds(), labels("service", service, "operation", operation))
}

func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errCount.Add(ctx, 1, labels("type", errType, "component", component))
}

// RecordStage records one pipeline stage. status is "ok" or an error code.
func (m *Metrics) RecordStage(ctx context.Context, stage, status string, d time.Duration) {
	m.stageTime.Record(ctx, d.Seconds(), labels("stage", stage, "status", status))
}

// RecordResolution counts a mention outcome: unresolved, auto or choice.
func (m *Metrics) RecordResolution(ctx context.Context, outcome string) {
	m.resolutions.Add(ctx, 1, labels("outcome", outcome))
}

func (m *Metrics) RecordAudio(ctx context.Context, seconds float64) {
	m.audioTranscribed.Add(ctx, seconds)
}
