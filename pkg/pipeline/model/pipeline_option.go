package model

import "time"

// PipelineOption defines the interface for observers attached to a pipeline.
type PipelineOption interface {
	// New initialises the observer.
	New() error
	// PrepareStage runs once per processor when the chain is frozen, parent being the
	// stage feeding it (the source stage for the first processor).
	PrepareStage(parent, stage *StageInfo) error
	// OnStageOutput runs every time a stage finishes with a value.
	OnStageOutput(stage *StageInfo, outcome Outcome, computationDuration time.Duration) error
	// Finish runs once the execution ends, whether exhausted, limited, abandoned or failed.
	Finish(summary Summary) error
}
