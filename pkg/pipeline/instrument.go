package pipeline

import (
	"iter"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

var sourceStage = &model.StageInfo{Name: model.SourceStageName, Index: -1}

// notify reports one stage output to every observer, stopping at the first failure.
func notify(observers []model.PipelineOption, stage *model.StageInfo, outcome model.Outcome, elapsed time.Duration) error {
	for _, obs := range observers {
		err := obs.OnStageOutput(stage, outcome, elapsed)
		if err != nil {
			return errors.Wrapf(err, "unable to report output of stage %s", stage.Name)
		}
	}

	return nil
}

// instrumentChain decorates every processor so observers see each invocation. The decorated
// chain behaves the same under both strategies.
func instrumentChain(chain []model.Processor, stages []*model.StageInfo, observers []model.PipelineOption, logger zerolog.Logger) []model.Processor {
	out := make([]model.Processor, len(chain))
	for i, proc := range chain {
		out[i] = instrument(proc, stages[i], observers, logger)
	}

	return out
}

// failed reports a failing invocation. The caller returns the processor error, so an observer
// error raised here is only logged.
func failed(observers []model.PipelineOption, stage *model.StageInfo, elapsed time.Duration, logger zerolog.Logger) {
	err := notify(observers, stage, model.OutcomeFailed, elapsed)
	if err != nil {
		logger.Warn().Err(err).Str("stage", stage.Name).Msg("observer failed on stage error")
	}
}

func instrument(proc model.Processor, stage *model.StageInfo, observers []model.PipelineOption, logger zerolog.Logger) model.Processor {
	switch proc.Kind {
	case model.KindTransform:
		fn := proc.Transform

		return model.NewTransform(proc.Name, func(v any) (any, error) {
			start := time.Now()
			out, err := fn(v)
			elapsed := time.Since(start)
			if err != nil {
				failed(observers, stage, elapsed, logger)

				return nil, err
			}

			return out, notify(observers, stage, model.OutcomePassed, elapsed)
		})
	case model.KindFilter:
		fn := proc.Filter

		return model.NewFilter(proc.Name, func(v any) (bool, error) {
			start := time.Now()
			keep, err := fn(v)
			elapsed := time.Since(start)
			if err != nil {
				failed(observers, stage, elapsed, logger)

				return false, err
			}
			outcome := model.OutcomePassed
			if !keep {
				outcome = model.OutcomeRejected
			}

			return keep, notify(observers, stage, outcome, elapsed)
		})
	case model.KindExpand:
		fn := proc.Expand

		return model.NewExpand(proc.Name, func(v any) (iter.Seq[any], error) {
			start := time.Now()
			sub, err := fn(v)
			elapsed := time.Since(start)
			if err != nil {
				failed(observers, stage, elapsed, logger)

				return nil, err
			}

			return sub, notify(observers, stage, model.OutcomeExpanded, elapsed)
		})
	}

	return proc
}

// instrumentSource reports every element pulled from the outermost source. An observer error
// ends the source early; the returned func reports it once the run is over.
func instrumentSource(source iter.Seq[any], observers []model.PipelineOption) (iter.Seq[any], func() error) {
	var notifyErr error
	if source == nil {
		return nil, func() error { return nil }
	}

	return func(yield func(any) bool) {
		for v := range source {
			notifyErr = notify(observers, sourceStage, model.OutcomePassed, 0)
			if notifyErr != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}, func() error { return notifyErr }
}
