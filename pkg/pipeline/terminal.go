package pipeline

import (
	"context"
	"iter"

	"github.com/pkg/errors"
)

// All consumes the pipeline and returns its lazy output. Nothing is evaluated until the
// sequence is ranged over, and breaking out of the range stops all evaluation. An error ends
// the sequence as its last pair. The sequence can be ranged over once.
func (p *Pipeline[T]) All(ctx context.Context) iter.Seq2[T, error] {
	c, err := p.consume("all")
	ranged := false

	return func(yield func(T, error) bool) {
		var zero T
		if ranged {
			yield(zero, errors.Wrap(ErrAlreadyConsumed, "all"))

			return
		}
		ranged = true
		if err != nil {
			yield(zero, err)

			return
		}

		var castErr error
		stopped := false
		runErr := c.run(ctx, func(v any) bool {
			t, err := cast[T](v)
			if err != nil {
				castErr = err

				return false
			}
			if !yield(t, nil) {
				stopped = true

				return false
			}

			return true
		})

		switch {
		case stopped:
		case castErr != nil:
			yield(zero, castErr)
		case runErr != nil:
			yield(zero, runErr)
		}
	}
}

// Cursor consumes the pipeline and returns a pull cursor over its output. The caller must
// Close the cursor if it stops before exhaustion.
func (p *Pipeline[T]) Cursor(ctx context.Context) *Cursor[T] {
	next, stop := iter.Pull2(p.All(ctx))

	return &Cursor[T]{next: next, stop: stop}
}

// Cursor pulls elements one at a time. Each Next evaluates just enough of the chain to produce
// one element.
type Cursor[T any] struct {
	next func() (T, error, bool)
	stop func()
	done bool
}

// Next returns the next element. It returns (zero, false, nil) once the output is exhausted.
func (c *Cursor[T]) Next() (T, bool, error) {
	var zero T
	if c.done {
		return zero, false, nil
	}

	v, err, ok := c.next()
	if !ok {
		c.done = true

		return zero, false, nil
	}
	if err != nil {
		c.done = true
		c.stop()

		return zero, false, err
	}

	return v, true, nil
}

// Close abandons the remaining output.
func (c *Cursor[T]) Close() error {
	c.done = true
	c.stop()

	return nil
}

// Collect consumes the pipeline and returns every output element.
func (p *Pipeline[T]) Collect(ctx context.Context) ([]T, error) {
	res := []T{}
	for v, err := range p.All(ctx) {
		if err != nil {
			return res, err
		}
		res = append(res, v)
	}

	return res, nil
}

// ForEach consumes the pipeline calling fn for every element. An error from fn stops the
// execution and is returned unchanged.
func (p *Pipeline[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for v, err := range p.All(ctx) {
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}

	return nil
}

// Reduce folds the output left to right, threading initial through fn(element, accumulated).
// It never returns on an unbounded output.
func (p *Pipeline[T]) Reduce(ctx context.Context, fn func(elem, acc T) T, initial T) (T, error) {
	return Reduce(ctx, p, fn, initial)
}

// Reduce folds the output of p into an accumulator of another type.
func Reduce[T, A any](ctx context.Context, p *Pipeline[T], fn func(elem T, acc A) A, initial A) (A, error) {
	acc := initial
	for v, err := range p.All(ctx) {
		if err != nil {
			return acc, err
		}
		acc = fn(v, acc)
	}

	return acc, nil
}

// FindFirst returns the first output element and true, or false when the output is empty.
// Nothing past the first element is evaluated.
func (p *Pipeline[T]) FindFirst(ctx context.Context) (T, bool, error) {
	for v, err := range p.All(ctx) {
		if err != nil {
			var zero T

			return zero, false, err
		}

		return v, true, nil
	}

	var zero T

	return zero, false, nil
}

// AllMatch reports whether every output element satisfies fn, stopping at the first that
// does not. It is true for an empty output.
func (p *Pipeline[T]) AllMatch(ctx context.Context, fn func(T) bool) (bool, error) {
	for v, err := range p.All(ctx) {
		if err != nil {
			return false, err
		}
		if !fn(v) {
			return false, nil
		}
	}

	return true, nil
}

// AnyMatch reports whether some output element satisfies fn, stopping at the first that does.
// It is false for an empty output.
func (p *Pipeline[T]) AnyMatch(ctx context.Context, fn func(T) bool) (bool, error) {
	for v, err := range p.All(ctx) {
		if err != nil {
			return false, err
		}
		if fn(v) {
			return true, nil
		}
	}

	return false, nil
}

// Count returns the number of output elements. A pipeline without processors over a source of
// known size is answered without iterating.
func (p *Pipeline[T]) Count(ctx context.Context) (int, error) {
	c := p.core
	if len(c.processors) == 0 && c.size != unknownSize && len(c.settings.observers) == 0 {
		if _, err := p.consume("count"); err != nil {
			return 0, err
		}

		n := max(c.size-c.skip, 0)
		if c.limited {
			n = min(n, c.limit)
		}

		return n, c.finish(n, min(c.skip, c.size), nil)
	}

	n := 0
	for _, err := range p.All(ctx) {
		if err != nil {
			return n, err
		}
		n++
	}

	return n, nil
}
