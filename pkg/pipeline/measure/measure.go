package measure

import (
	"sync"
)

// DefaultMeasure is an in-memory Measure.
type DefaultMeasure struct {
	mu    sync.Mutex
	Steps map[string]Metric
}

// NewDefaultMeasure creates an empty measure.
func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Steps: make(map[string]Metric),
	}
}

// AddMetric registers a metric under name, replacing any previous one.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{
		mu:       &sync.Mutex{},
		outcomes: make(map[int]int64),
	}
	m.Steps[name] = mt

	return mt
}

// GetMetric returns the metric registered under name, or nil.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps[name]
}

// AllMetrics returns every registered metric by stage name.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Steps
}

var _ Measure = (*DefaultMeasure)(nil)
