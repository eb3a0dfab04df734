// In file: cmd/gateway/observer.go
package main

import (
	"context"

	"github.com/dileep-u-k/decision-gateway/internal/llm"
	"github.com/dileep-u-k/decision-gateway/internal/metrics"
	"github.com/dileep-u-k/decision-gateway/internal/orchestrator"
)

// metricsObserver reports orchestrator events to Prometheus.
type metricsObserver struct {
	m *metrics.Metrics
}

func (o metricsObserver) AttemptFinished(_ context.Context, r orchestrator.AttemptReport) {
	o.m.ObserveAttempt(r.Model, r.Success, string(r.Reason), r.Duration)
}

func (o metricsObserver) AnalysisFinished(_ context.Context, source orchestrator.Source) {
	o.m.ObserveOutcome(string(source))
}

// profilerObserver folds every attempt into the shared model profiles. The
// profile update outlives a cancelled request.
type profilerObserver struct {
	p *llm.Profiler
}

func (o profilerObserver) AttemptFinished(ctx context.Context, r orchestrator.AttemptReport) {
	ctx = context.WithoutCancel(ctx)
	if r.Success {
		o.p.RecordSuccess(ctx, r.Model, r.Duration, r.Usage)
		return
	}
	// A cancelled caller says nothing about the model.
	if r.Reason == orchestrator.ReasonCancelled {
		return
	}
	o.p.RecordFailure(ctx, r.Model, string(r.Reason))
}

func (profilerObserver) AnalysisFinished(context.Context, orchestrator.Source) {}

var (
	_ orchestrator.Observer = metricsObserver{}
	_ orchestrator.Observer = profilerObserver{}
)
