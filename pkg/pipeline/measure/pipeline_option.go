package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// ErrUnknownStage is returned when an output is reported for a stage that was never prepared.
var ErrUnknownStage = errors.New("unknown stage")

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.SourceStageName)
	pm.AddMetric(model.SinkStageName)
	pm.startTime = time.Now()

	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(stage *model.StageInfo, outcome model.Outcome, computationDuration time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return errors.Wrap(ErrUnknownStage, stage.Name)
	}

	mt.AddDuration(computationDuration)
	mt.AddOutcome(outcome, 1)

	return nil
}

func (pm *pipelineMeasure) Finish(summary model.Summary) error {
	sink := pm.GetMetric(model.SinkStageName)
	sink.AddOutcome(model.OutcomePassed, int64(summary.Emitted))
	sink.SetTotalDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure returns an observer recording per-stage metrics into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
