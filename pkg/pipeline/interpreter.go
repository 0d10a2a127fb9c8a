package pipeline

import (
	"context"
	"iter"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// procedure runs a frozen chain over source once.
type procedure func(ctx context.Context, source iter.Seq[any], w *window, yield func(any) bool) error

// interpret returns a procedure walking the chain stage by stage for every element. An expand
// stage recurses into its sub-sequence with the rest of the chain.
func interpret(chain []model.Processor) procedure {
	return func(ctx context.Context, source iter.Seq[any], w *window, yield func(any) bool) error {
		if w.full() {
			return nil
		}
		_, err := walk(ctx, source, chain, w, yield)

		return err
	}
}

func walk(ctx context.Context, source iter.Seq[any], chain []model.Processor, w *window, yield func(any) bool) (flow, error) {
	if source == nil {
		return flowNext, nil
	}

	for v := range source {
		if err := ctx.Err(); err != nil {
			return flowHalt, err
		}
		res, err := apply(ctx, v, chain, w, yield)
		if err != nil {
			return flowHalt, err
		}
		if res == flowHalt {
			return flowHalt, nil
		}
	}

	return flowNext, nil
}

// apply pushes one element through chain. A rejecting filter abandons the element; an expand
// stage hands its sub-sequence to walk and the element itself goes no further.
func apply(ctx context.Context, v any, chain []model.Processor, w *window, yield func(any) bool) (flow, error) {
	for i, proc := range chain {
		switch proc.Kind {
		case model.KindTransform:
			out, err := proc.Transform(v)
			if err != nil {
				return flowHalt, err
			}
			v = out
		case model.KindFilter:
			keep, err := proc.Filter(v)
			if err != nil {
				return flowHalt, err
			}
			if !keep {
				return flowNext, nil
			}
		case model.KindExpand:
			sub, err := proc.Expand(v)
			if err != nil {
				return flowHalt, err
			}

			return walk(ctx, sub, chain[i+1:], w, yield)
		}
	}

	return w.emit(v, yield), nil
}
