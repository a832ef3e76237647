package observability

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation is one traced and measured unit of work, such as one voice
// message going through the pipeline.
type Operation struct {
	Service   string
	Name      string
	RequestID string
	ChatID    int64
	UserID    int64
	// Metrics may be nil.
	Metrics *Metrics

	started time.Time
	span    trace.Span
}

type operationKey struct{}

// Start opens the operation's span, named after the operation, and puts
// op on the returned context. Zero chat and user ids are left off.
func (op *Operation) Start(ctx context.Context) context.Context {
	op.started = time.Now()
	attrs := []attribute.KeyValue{
		attribute.String(AttrServiceName, op.Service),
		attribute.String(AttrOperationName, op.Name),
		attribute.String(AttrRequestID, op.RequestID),
	}
	for key, id := range map[string]int64{AttrChatID: op.ChatID, AttrUserID: op.UserID} {
		if id != 0 {
			attrs = append(attrs, attribute.String(key, strconv.FormatInt(id, 10)))
		}
	}
	ctx, op.span = StartSpan(ctx, op.Name, trace.WithAttributes(attrs...))
	return context.WithValue(ctx, operationKey{}, op)
}

// End closes the span with status and err and records the duration.
func (op *Operation) End(ctx context.Context, status string, err error) {
	elapsed := op.Elapsed()
	if err != nil {
		op.span.RecordError(err)
		op.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	op.span.SetAttributes(attribute.String(AttrStatus, status), attribute.Int64(AttrDurationMs, elapsed.Milliseconds()))
	op.span.End()
	if op.Metrics != nil {
		op.Metrics.RecordOperation(ctx, op.Service, op.Name, status, elapsed)
	}
}

func (op *Operation) Elapsed() time.Duration { return time.Since(op.started) }

// OperationFromContext is nil outside an operation.
func OperationFromContext(ctx context.Context) *Operation {
	op, _ := ctx.Value(operationKey{}).(*Operation)
	return op
}
