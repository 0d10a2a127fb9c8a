package pipeline

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// cast converts an erased value back to T. A nil value converts to the zero T.
func cast[T any](v any) (T, error) {
	if v == nil {
		var zero T

		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		var zero T

		return zero, errors.Wrapf(ErrTypeMismatch, "got %T, want %T", v, zero)
	}

	return t, nil
}

// TransformOf builds a transform processor from a typed function.
func TransformOf[I, O any](name string, fn func(I) (O, error)) model.Processor {
	return model.NewTransform(name, func(v any) (any, error) {
		in, err := cast[I](v)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}

		return fn(in)
	})
}

// FilterOf builds a filter processor from a typed predicate.
func FilterOf[T any](name string, fn func(T) (bool, error)) model.Processor {
	return model.NewFilter(name, func(v any) (bool, error) {
		in, err := cast[T](v)
		if err != nil {
			return false, errors.Wrap(err, name)
		}

		return fn(in)
	})
}

// ExpandOf builds an expand processor from a typed function returning a sub-sequence.
func ExpandOf[I, O any](name string, fn func(I) (iter.Seq[O], error)) model.Processor {
	return model.NewExpand(name, func(v any) (iter.Seq[any], error) {
		in, err := cast[I](v)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		seq, err := fn(in)
		if err != nil {
			return nil, err
		}

		return erase(seq), nil
	})
}

func total[I, O any](fn func(I) O) func(I) (O, error) {
	return func(v I) (O, error) {
		return fn(v), nil
	}
}

func sliceSeq[T any](items []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
