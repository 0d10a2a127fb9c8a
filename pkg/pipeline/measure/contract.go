package measure

import (
	"time"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// Measure collects one Metric per stage.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates what a single stage did.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddOutcome(outcome model.Outcome, n int64)
	AVGDuration() time.Duration
	Calls() int64
	Count(outcome model.Outcome) int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
