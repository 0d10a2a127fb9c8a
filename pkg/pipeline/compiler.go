package pipeline

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// step is a run of transforms and filters folded into one call. ok is false when a filter
// abandoned the value.
type step func(v any) (out any, ok bool, err error)

// segment is the part of the chain run inside one loop level: the fused steps, then the
// expand stage opening the next level, if any.
type segment struct {
	step   step
	expand model.ExpandFunc
}

// body runs one value through a loop level and every level nested in it.
type body func(ctx context.Context, v any, w *window, yield func(any) bool) (flow, error)

// compile lowers chain into a loop nest with one level per expand stage plus the source loop.
// The chain is read once here; running the procedure does no per-stage dispatch.
func compile(chain []model.Processor) procedure {
	segments := lower(chain)

	inner := body(func(_ context.Context, v any, w *window, yield func(any) bool) (flow, error) {
		return w.emit(v, yield), nil
	})
	for i := len(segments) - 1; i >= 0; i-- {
		inner = nest(segments[i], inner)
	}

	return func(ctx context.Context, source iter.Seq[any], w *window, yield func(any) bool) error {
		if w.full() || source == nil {
			return nil
		}

		for v := range source {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := inner(ctx, v, w, yield)
			if err != nil {
				return err
			}
			if res == flowHalt {
				return nil
			}
		}

		return nil
	}
}

// lower splits chain at every expand stage and folds each run of transforms and filters.
func lower(chain []model.Processor) []segment {
	segments := []segment{}
	start := 0
	for i, proc := range chain {
		if proc.Kind != model.KindExpand {
			continue
		}
		segments = append(segments, segment{step: fuse(chain[start:i]), expand: proc.Expand})
		start = i + 1
	}

	return append(segments, segment{step: fuse(chain[start:])})
}

// fuse composes transforms and filters right to left. It returns nil for an empty run.
func fuse(ops []model.Processor) step {
	var next step
	for i := len(ops) - 1; i >= 0; i-- {
		switch ops[i].Kind {
		case model.KindTransform:
			next = fuseTransform(ops[i].Transform, next)
		case model.KindFilter:
			next = fuseFilter(ops[i].Filter, next)
		}
	}

	return next
}

func fuseTransform(fn model.TransformFunc, next step) step {
	if next == nil {
		return func(v any) (any, bool, error) {
			out, err := fn(v)
			if err != nil {
				return nil, false, err
			}

			return out, true, nil
		}
	}

	return func(v any) (any, bool, error) {
		out, err := fn(v)
		if err != nil {
			return nil, false, err
		}

		return next(out)
	}
}

func fuseFilter(fn model.FilterFunc, next step) step {
	if next == nil {
		return func(v any) (any, bool, error) {
			keep, err := fn(v)
			if err != nil || !keep {
				return nil, false, err
			}

			return v, true, nil
		}
	}

	return func(v any) (any, bool, error) {
		keep, err := fn(v)
		if err != nil || !keep {
			return nil, false, err
		}

		return next(v)
	}
}

// nest wraps inner with the loop level described by seg.
func nest(seg segment, inner body) body {
	guarded := inner
	if seg.expand != nil {
		guarded = expandLoop(seg.expand, inner)
	}
	if seg.step == nil {
		return guarded
	}

	fn := seg.step

	return func(ctx context.Context, v any, w *window, yield func(any) bool) (flow, error) {
		out, ok, err := fn(v)
		if err != nil {
			return flowHalt, err
		}
		if !ok {
			return flowNext, nil
		}

		return guarded(ctx, out, w, yield)
	}
}

func expandLoop(expand model.ExpandFunc, inner body) body {
	return func(ctx context.Context, v any, w *window, yield func(any) bool) (flow, error) {
		sub, err := expand(v)
		if err != nil {
			return flowHalt, err
		}
		if sub == nil {
			return flowNext, nil
		}

		for x := range sub {
			if err := ctx.Err(); err != nil {
				return flowHalt, err
			}
			res, err := inner(ctx, x, w, yield)
			if err != nil {
				return flowHalt, err
			}
			if res == flowHalt {
				return flowHalt, nil
			}
		}

		return flowNext, nil
	}
}

// describe renders the loop nest compile builds for processors.
func describe(processors []model.Processor, skip, limit int, limited bool) string {
	var sb strings.Builder

	indent := func(depth int) string { return strings.Repeat("\t", depth) }
	stages := stageInfos(processors)
	depth := 0

	sb.WriteString("for v := range source {\n")
	for i, proc := range processors {
		name := stages[i].Name
		switch proc.Kind {
		case model.KindTransform:
			fmt.Fprintf(&sb, "%sv = %s(v)\n", indent(depth+1), name)
		case model.KindFilter:
			fmt.Fprintf(&sb, "%sif !%s(v) {\n%scontinue\n%s}\n", indent(depth+1), name, indent(depth+2), indent(depth+1))
		case model.KindExpand:
			fmt.Fprintf(&sb, "%sfor v := range %s(v) {\n", indent(depth+1), name)
			depth++
		}
	}
	if skip > 0 {
		fmt.Fprintf(&sb, "%sif skipped < %d {\n%sskipped++\n%scontinue\n%s}\n",
			indent(depth+1), skip, indent(depth+2), indent(depth+2), indent(depth+1))
	}
	if limited {
		fmt.Fprintf(&sb, "%sif emitted == %d {\n%sreturn\n%s}\n", indent(depth+1), limit, indent(depth+2), indent(depth+1))
	}
	fmt.Fprintf(&sb, "%semit(v)\n", indent(depth+1))
	for d := depth; d >= 0; d-- {
		fmt.Fprintf(&sb, "%s}\n", indent(d))
	}

	return sb.String()
}
