package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	metricRequestsTotal    = "calculate.requests.total"
	metricRequestDuration  = "calculate.request.duration.seconds"
	metricErrorsTotal      = "calculate.errors.total"
	metricInflightRequests = "calculate.inflight.requests"
	metricRecordsTotal     = "calculate.records.total"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a request that completed without error.
	StatusOK = "ok"
	// StatusError marks a failed request.
	StatusError = "error"
)

// durationBucketBoundaries covers 1ms to 60s; most calculations finish well
// under a second even on large inputs.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
	recordsTotal     metric.Int64Counter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	b := newMetricBuilder(mt)

	rm := &REDMetrics{
		requestsTotal:    b.counter(metricRequestsTotal, "Total number of requests", "{request}"),
		requestDuration:  b.histogram(metricRequestDuration, "Request duration in seconds", "s", durationBucketBoundaries...),
		errorsTotal:      b.counter(metricErrorsTotal, "Total number of errors", "{error}"),
		inflightRequests: b.upDownCounter(metricInflightRequests, "Number of in-flight requests", "{request}"),
		recordsTotal:     b.counter(metricRecordsTotal, "Total number of input records processed", "{record}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// RecordRecords counts input records consumed by op.
func (rm *REDMetrics) RecordRecords(ctx context.Context, op string, n int) {
	rm.recordsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrOp, op)))
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// Observe runs fn inside a span named op and records RED metrics for it.
// fn's error is returned unchanged. Either tracer or rm may be nil.
func Observe(ctx context.Context, tracer trace.Tracer, rm *REDMetrics, op string, fn func(context.Context) error) error {
	if tracer != nil {
		var span trace.Span

		ctx, span = tracer.Start(ctx, op)
		defer span.End()
	}

	if rm != nil {
		defer rm.TrackInflight(ctx, op)()
	}

	start := time.Now()
	err := fn(ctx)

	status := StatusOK
	if err != nil {
		status = StatusError

		trace.SpanFromContext(ctx).SetStatus(codes.Error, err.Error())
	}

	if rm != nil {
		rm.RecordRequest(ctx, op, status, time.Since(start))
	}

	return err
}
