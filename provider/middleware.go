package provider

import (
	"context"
	"time"

	"github.com/kbukum/voicemention/logger"
	"github.com/kbukum/voicemention/observability"
)

// Middleware wraps a RequestResponse with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain applies middlewares so the first one is outermost:
// Chain(a, b, c)(p) == a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

type interceptor func(ctx context.Context, name string, call func(context.Context) error) error

// around keeps Name and IsAvailable of the inner provider and routes
// Execute through fn.
func around[I, O any](fn interceptor) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &intercepted[I, O]{RequestResponse: inner, fn: fn}
	}
}

type intercepted[I, O any] struct {
	RequestResponse[I, O]
	fn interceptor
}

func (p *intercepted[I, O]) Execute(ctx context.Context, input I) (O, error) {
	var out O
	err := p.fn(ctx, p.Name(), func(ctx context.Context) error {
		var err error
		out, err = p.RequestResponse.Execute(ctx, input)
		return err
	})
	return out, err
}

// WithLogging logs each call with its duration; failures at warn, since
// the caller decides how bad they are.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return around[I, O](func(ctx context.Context, name string, call func(context.Context) error) error {
		start := time.Now()
		err := call(ctx)
		fields := logger.Fields("provider", name, logger.FieldDuration, time.Since(start).Milliseconds())
		if err != nil {
			log.WithContext(ctx).Warn("provider call failed", logger.MergeWithError(fields, err))
		} else {
			log.WithContext(ctx).Debug("provider call ok", fields)
		}
		return err
	})
}

// WithMetrics counts calls and errors and records their duration. Nil
// metrics leave the provider unwrapped.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	if metrics == nil {
		return func(inner RequestResponse[I, O]) RequestResponse[I, O] { return inner }
	}
	return around[I, O](func(ctx context.Context, name string, call func(context.Context) error) error {
		start := time.Now()
		err := call(ctx)
		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, "execute", name)
		}
		metrics.RecordOperation(ctx, name, "execute", status, time.Since(start))
		return err
	})
}

// WithTracing opens a "<service>.<provider>" span per call.
func WithTracing[I, O any](service string) Middleware[I, O] {
	return around[I, O](func(ctx context.Context, name string, call func(context.Context) error) error {
		ctx, span := observability.StartSpan(ctx, service+"."+name)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrOperationName, name)
		err := call(ctx)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return err
	})
}
