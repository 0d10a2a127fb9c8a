package pipeline

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

type state int

const (
	stateBuilding state = iota
	stateCompiled
	stateConsumed
)

func (s state) String() string {
	switch s {
	case stateBuilding:
		return "building"
	case stateCompiled:
		return "compiled"
	default:
		return "consumed"
	}
}

// unknownSize marks a source whose cardinality cannot be read without iterating it.
const unknownSize = -1

// core is the untyped pipeline shared by every typed handle created from the same source.
type core struct {
	id         string
	source     iter.Seq[any]
	size       int
	processors []model.Processor
	skip       int
	limit      int
	limited    bool

	state   state
	err     error
	version int

	settings settings
	stages   []*model.StageInfo
	strategy model.Strategy
	exec     procedure
}

// Pipeline is a lazy chain of processors bound to one source. Elements flow through the chain
// only when a terminal operation pulls them. A Pipeline is single-use.
type Pipeline[T any] struct {
	core    *core
	version int
}

func newPipeline[T any](source iter.Seq[any], size int, opts []Option) *Pipeline[T] {
	c := &core{
		id:       uuid.NewString(),
		source:   source,
		size:     size,
		settings: newSettings(opts),
	}
	if err := c.settings.validate(); err != nil {
		c.err = err
	}

	return &Pipeline[T]{core: c}
}

// FromSlice creates a pipeline over items. Its cardinality is known, so Count on a pipeline
// without processors does not iterate.
func FromSlice[T any](items []T, opts ...Option) *Pipeline[T] {
	return newPipeline[T](func(yield func(any) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}, len(items), opts)
}

// FromSeq creates a pipeline over seq, which may be unbounded.
func FromSeq[T any](seq iter.Seq[T], opts ...Option) *Pipeline[T] {
	return newPipeline[T](erase(seq), unknownSize, opts)
}

// FromFunc creates a pipeline over a generator function.
func FromFunc[T any](gen func(yield func(T) bool), opts ...Option) *Pipeline[T] {
	return FromSeq(iter.Seq[T](gen), opts...)
}

// FromChan creates a pipeline reading ch until it is closed. Values are received only when the
// pipeline asks for them.
func FromChan[T any](ch <-chan T, opts ...Option) *Pipeline[T] {
	return newPipeline[T](func(yield func(any) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	}, unknownSize, opts)
}

func erase[T any](seq iter.Seq[T]) iter.Seq[any] {
	if seq == nil {
		return nil
	}

	return func(yield func(any) bool) {
		for v := range seq {
			if !yield(v) {
				return
			}
		}
	}
}

// ID returns the identifier used in logs and observer summaries.
func (p *Pipeline[T]) ID() string {
	return p.core.id
}

// Err returns the first error recorded while building the pipeline.
func (p *Pipeline[T]) Err() error {
	return p.core.err
}

// Len returns the number of processors chained so far.
func (p *Pipeline[T]) Len() int {
	return len(p.core.processors)
}

// Compile freezes the chain and lowers it into a fused executor used by the next, and only,
// consumption. Compiling twice, or after consumption started, is a state error.
func (p *Pipeline[T]) Compile() *Pipeline[T] {
	if !p.building("compile") {
		return p
	}

	c := p.core
	if err := c.freeze(model.StrategyCompile); err != nil {
		c.err = err

		return p
	}
	c.state = stateCompiled

	return p
}

// Describe renders the chain as the loop nest the fused executor runs. It does not consume
// the pipeline.
func (p *Pipeline[T]) Describe() string {
	return describe(p.core.processors, p.core.skip, p.core.limit, p.core.limited)
}

// building reports whether op may change the chain, recording the reason on the pipeline when
// it may not.
func (p *Pipeline[T]) building(op string) bool {
	c := p.core
	if c.err != nil {
		return false
	}

	switch {
	case p.version != c.version:
		c.err = errors.Wrap(ErrStaleHandle, op)
	case c.state == stateCompiled:
		c.err = errors.Wrap(ErrAlreadyCompiled, op)
	case c.state == stateConsumed:
		c.err = errors.Wrap(ErrAlreadyConsumed, op)
	default:
		return true
	}

	return false
}

// consume moves the pipeline to the consumed state for terminal op.
func (p *Pipeline[T]) consume(op string) (*core, error) {
	c := p.core
	if p.version != c.version {
		return nil, errors.Wrap(ErrStaleHandle, op)
	}
	if c.state == stateConsumed {
		return nil, errors.Wrap(ErrAlreadyConsumed, op)
	}

	previous := c.state
	c.state = stateConsumed
	if c.err != nil {
		return nil, c.err
	}

	if previous == stateBuilding {
		if err := c.freeze(c.settings.strategy); err != nil {
			c.err = err

			return nil, err
		}
	}

	return c, nil
}

// freeze fixes the chain, prepares observers and selects the execution strategy.
func (c *core) freeze(strategy model.Strategy) error {
	c.stages = stageInfos(c.processors)

	for _, obs := range c.settings.observers {
		err := obs.New()
		if err != nil {
			return errors.Wrap(err, "unable to initialise observer")
		}
		parent := sourceStage
		for _, stage := range c.stages {
			err := obs.PrepareStage(parent, stage)
			if err != nil {
				return errors.Wrapf(err, "unable to prepare stage %s", stage.Name)
			}
			parent = stage
		}
	}

	chain := c.processors
	if len(c.settings.observers) > 0 {
		chain = instrumentChain(chain, c.stages, c.settings.observers, c.settings.logger)
	}

	if strategy == model.StrategyAuto {
		strategy = model.StrategyInterpret
		if len(chain) > c.settings.compileThreshold {
			strategy = model.StrategyCompile
		}
	}

	start := time.Now()
	switch strategy {
	case model.StrategyCompile:
		c.exec = compile(chain)
	default:
		c.exec = interpret(chain)
	}
	c.strategy = strategy

	c.settings.logger.Debug().
		Str("pipeline_id", c.id).
		Str("strategy", string(strategy)).
		Int("processors", len(chain)).
		Int("skip", c.skip).
		Bool("limited", c.limited).
		Int("limit", c.limit).
		Dur("build", time.Since(start)).
		Msg("pipeline frozen")

	return nil
}

// run executes the frozen chain once, pushing every windowed output to yield.
func (c *core) run(ctx context.Context, yield func(any) bool) error {
	source := c.source
	sourceErr := func() error { return nil }
	if len(c.settings.observers) > 0 {
		source, sourceErr = instrumentSource(source, c.settings.observers)
	}

	w := newWindow(c.skip, c.limit, c.limited)
	err := c.exec(ctx, source, w, yield)
	if err == nil {
		err = sourceErr()
	}

	return c.finish(w.emitted, w.skipped, err)
}

func (c *core) finish(emitted, skipped int, err error) error {
	summary := model.Summary{
		PipelineID: c.id,
		Strategy:   c.strategy,
		Emitted:    emitted,
		Skipped:    skipped,
		Err:        err,
	}
	for _, obs := range c.settings.observers {
		obsErr := obs.Finish(summary)
		if obsErr != nil && err == nil {
			err = errors.Wrap(obsErr, "unable to finish observer")
		}
	}

	c.settings.logger.Debug().
		Err(err).
		Str("pipeline_id", c.id).
		Int("emitted", emitted).
		Int("skipped", skipped).
		Msg("pipeline finished")

	return err
}

func stageInfos(processors []model.Processor) []*model.StageInfo {
	stages := make([]*model.StageInfo, len(processors))
	depth := 0
	for i, proc := range processors {
		name := proc.Name
		if name == "" {
			name = proc.Kind.String()
		}
		stages[i] = &model.StageInfo{
			Name:  fmt.Sprintf("%d:%s", i, name),
			Kind:  proc.Kind,
			Index: i,
			Depth: depth,
		}
		if proc.Kind == model.KindExpand {
			depth++
		}
	}

	return stages
}
