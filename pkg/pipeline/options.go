package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

type settings struct {
	strategy         model.Strategy
	compileThreshold int
	logger           zerolog.Logger
	observers        []model.PipelineOption
}

func newSettings(opts []Option) settings {
	d := DefaultConfig()
	s := settings{
		strategy:         d.Strategy,
		compileThreshold: d.CompileThreshold,
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

func (s settings) validate() error {
	return Defaults{Strategy: s.strategy, CompileThreshold: s.compileThreshold}.Validate()
}

// Option configures a single pipeline at creation.
type Option func(s *settings)

// WithStrategy overrides the default execution strategy.
func WithStrategy(strategy model.Strategy) Option {
	return func(s *settings) {
		s.strategy = strategy
	}
}

// WithCompileThreshold overrides the chain length above which StrategyAuto compiles.
func WithCompileThreshold(threshold int) Option {
	return func(s *settings) {
		s.compileThreshold = threshold
	}
}

// WithLogger sets the logger used for debug events. The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithObservers attaches observers such as measure.PipelineMeasure or drawer.PipelineDrawer.
func WithObservers(observers ...model.PipelineOption) Option {
	return func(s *settings) {
		s.observers = append(s.observers, observers...)
	}
}
