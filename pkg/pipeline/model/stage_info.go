package model

// Strategy names an execution strategy.
type Strategy string

const (
	// StrategyInterpret walks the chain recursively for every element.
	StrategyInterpret Strategy = "interpret"
	// StrategyCompile lowers the chain once into a fused loop nest.
	StrategyCompile Strategy = "compile"
	// StrategyAuto compiles when the chain is longer than the configured threshold.
	StrategyAuto Strategy = "auto"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyInterpret, StrategyCompile, StrategyAuto:
		return true
	}
	return false
}

const (
	// SourceStageName is the name given to the source of every pipeline.
	SourceStageName = "source"
	// SinkStageName is the name given to the consumer end of every pipeline.
	SinkStageName = "sink"
)

// StageInfo describes one processor of a frozen chain.
type StageInfo struct {
	Name  string
	Kind  Kind
	Index int
	// Depth is the loop level the stage runs at: 0 for the source loop, +1 after every expand stage.
	Depth int
}

// Outcome is what happened to a value handed to a stage.
type Outcome int

const (
	// OutcomePassed means the value continued down the chain.
	OutcomePassed Outcome = iota
	// OutcomeRejected means a filter abandoned the value.
	OutcomeRejected
	// OutcomeExpanded means the value was replaced by a sub-sequence.
	OutcomeExpanded
	// OutcomeFailed means the stage function returned an error.
	OutcomeFailed
)

// Summary is reported to observers once an execution ends.
type Summary struct {
	PipelineID string
	Strategy   Strategy
	Emitted    int
	Skipped    int
	Err        error
}
