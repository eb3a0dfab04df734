// In file: internal/orchestrator/observer.go
package orchestrator

import (
	"context"
	"time"

	"github.com/dileep-u-k/decision-gateway/internal/llm"
)

// Reason explains why a model attempt was rejected.
type Reason string

const (
	ReasonTransport     Reason = "transport"
	ReasonTimeout       Reason = "timeout"
	ReasonCancelled     Reason = "cancelled"
	ReasonEmpty         Reason = "empty"
	ReasonLanguage      Reason = "language"
	ReasonParse         Reason = "parse"
	ReasonFieldLanguage Reason = "field_language"
	ReasonSchema        Reason = "schema"
)

// IsQuality reports whether the model answered but the answer was unusable.
func (r Reason) IsQuality() bool {
	switch r {
	case ReasonLanguage, ReasonParse, ReasonFieldLanguage, ReasonSchema:
		return true
	}
	return false
}

// AttemptReport describes a single model attempt.
type AttemptReport struct {
	Model    string
	Success  bool
	Duration time.Duration
	Reason   Reason
	Err      error
	Usage    llm.Usage
}

// Observer is notified of every model attempt and of the source of every
// finished analysis. Implementations must be safe for concurrent use.
type Observer interface {
	AttemptFinished(ctx context.Context, r AttemptReport)
	AnalysisFinished(ctx context.Context, source Source)
}

type nopObserver struct{}

func (nopObserver) AttemptFinished(context.Context, AttemptReport) {}
func (nopObserver) AnalysisFinished(context.Context, Source) {}

// MultiObserver fans notifications out to every observer in order.
type MultiObserver []Observer

func (m MultiObserver) AttemptFinished(ctx context.Context, r AttemptReport) {
	for _, o := range m {
		o.AttemptFinished(ctx, r)
	}
}

func (m MultiObserver) AnalysisFinished(ctx context.Context, source Source) {
	for _, o := range m {
		o.AnalysisFinished(ctx, source)
	}
}
