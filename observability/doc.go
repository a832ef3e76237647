// Package observability wires OpenTelemetry tracing and metrics.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.Service{Name: "voicemention"})
//	defer shutdown(ctx)
//
//	metrics, _ := observability.NewMetrics(observability.Meter("voicemention"))
//	op := &observability.Operation{Service: "voicemention", Name: observability.SpanVoiceProcess, Metrics: metrics}
//	ctx = op.Start(ctx)
//	defer op.End(ctx, "ok", nil)
package observability
