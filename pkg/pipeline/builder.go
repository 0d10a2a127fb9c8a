package pipeline

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// Add appends a pre-built processor whose output has the same type as its input.
func (p *Pipeline[T]) Add(proc model.Processor) *Pipeline[T] {
	if !p.building("add") {
		return p
	}

	if err := proc.Validate(); err != nil {
		p.core.err = contractViolation(err)

		return p
	}
	p.core.processors = append(p.core.processors, proc)

	return p
}

// Map appends a transform keeping the element type.
func (p *Pipeline[T]) Map(fn func(T) T) *Pipeline[T] {
	return p.Add(TransformOf("map", total(fn)))
}

// TryMap appends a fallible transform keeping the element type. The first error ends the
// execution and is returned unchanged by the terminal operation.
func (p *Pipeline[T]) TryMap(fn func(T) (T, error)) *Pipeline[T] {
	return p.Add(TransformOf("map", fn))
}

// Filter appends a filter. Rejected elements go no further down the chain.
func (p *Pipeline[T]) Filter(fn func(T) bool) *Pipeline[T] {
	return p.Add(FilterOf("filter", total(fn)))
}

// TryFilter appends a fallible filter.
func (p *Pipeline[T]) TryFilter(fn func(T) (bool, error)) *Pipeline[T] {
	return p.Add(FilterOf("filter", fn))
}

// FlatMap appends an expansion keeping the element type. Every element of the sub-sequence goes
// through the rest of the chain before the next outer element is pulled.
func (p *Pipeline[T]) FlatMap(fn func(T) iter.Seq[T]) *Pipeline[T] {
	return p.Add(ExpandOf("flatMap", total(fn)))
}

// Skip discards the first n elements of the flattened output. It replaces any previous skip.
func (p *Pipeline[T]) Skip(n int) *Pipeline[T] {
	if !p.building("skip") {
		return p
	}
	if n < 0 {
		p.core.err = errors.Wrapf(ErrNegativeSkip, "%d", n)

		return p
	}
	p.core.skip = n

	return p
}

// Limit stops the output after n elements. It replaces any previous limit.
func (p *Pipeline[T]) Limit(n int) *Pipeline[T] {
	if !p.building("limit") {
		return p
	}
	if n < 0 {
		p.core.err = errors.Wrapf(ErrNegativeLimit, "%d", n)

		return p
	}
	p.core.limit = n
	p.core.limited = true

	return p
}

// Apply appends proc, re-typing the pipeline to O. The handle passed in becomes stale.
func Apply[I, O any](p *Pipeline[I], proc model.Processor) *Pipeline[O] {
	p.Add(proc)

	return retype[I, O](p)
}

// Map appends a transform from I to O.
func Map[I, O any](p *Pipeline[I], fn func(I) O) *Pipeline[O] {
	return Apply[I, O](p, TransformOf("map", total(fn)))
}

// TryMap appends a fallible transform from I to O.
func TryMap[I, O any](p *Pipeline[I], fn func(I) (O, error)) *Pipeline[O] {
	return Apply[I, O](p, TransformOf("map", fn))
}

// FlatMap appends an expansion from I to a sequence of O.
func FlatMap[I, O any](p *Pipeline[I], fn func(I) iter.Seq[O]) *Pipeline[O] {
	return Apply[I, O](p, ExpandOf("flatMap", total(fn)))
}

// TryFlatMap appends a fallible expansion from I to a sequence of O.
func TryFlatMap[I, O any](p *Pipeline[I], fn func(I) (iter.Seq[O], error)) *Pipeline[O] {
	return Apply[I, O](p, ExpandOf("flatMap", fn))
}

// FlatMapSlice appends an expansion from I to a slice of O.
func FlatMapSlice[I, O any](p *Pipeline[I], fn func(I) []O) *Pipeline[O] {
	return FlatMap(p, func(v I) iter.Seq[O] {
		return sliceSeq(fn(v))
	})
}

func retype[I, O any](p *Pipeline[I]) *Pipeline[O] {
	c := p.core
	if p.version == c.version && c.err == nil {
		c.version++
	}

	return &Pipeline[O]{core: c, version: c.version}
}
