package model

import (
	"iter"

	"github.com/pkg/errors"
)

// ErrInvalidProcessor is returned when a processor does not carry the function its kind requires.
var ErrInvalidProcessor = errors.New("invalid processor")

// Kind is the variant tag of a Processor.
type Kind int

const (
	// KindTransform maps one value to one value.
	KindTransform Kind = iota + 1
	// KindFilter keeps or rejects one value.
	KindFilter
	// KindExpand maps one value to a sub-sequence, each member continuing down the chain.
	KindExpand
)

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindFilter:
		return "filter"
	case KindExpand:
		return "expand"
	default:
		return "unknown"
	}
}

type (
	// TransformFunc replaces a value.
	TransformFunc func(any) (any, error)
	// FilterFunc reports whether a value is kept.
	FilterFunc func(any) (bool, error)
	// ExpandFunc produces the sub-sequence a value expands into.
	ExpandFunc func(any) (iter.Seq[any], error)
)

// Processor is one stage of a chain. Exactly one of the function fields is set, the one
// matching Kind. A Processor is immutable once built.
type Processor struct {
	Kind      Kind
	Name      string
	Transform TransformFunc
	Filter    FilterFunc
	Expand    ExpandFunc
}

// NewTransform builds a transform processor.
func NewTransform(name string, fn TransformFunc) Processor {
	return Processor{Kind: KindTransform, Name: name, Transform: fn}
}

// NewFilter builds a filter processor.
func NewFilter(name string, fn FilterFunc) Processor {
	return Processor{Kind: KindFilter, Name: name, Filter: fn}
}

// NewExpand builds an expand processor.
func NewExpand(name string, fn ExpandFunc) Processor {
	return Processor{Kind: KindExpand, Name: name, Expand: fn}
}

// Validate checks that the processor carries exactly the function its kind requires.
func (p Processor) Validate() error {
	set := 0
	for _, ok := range []bool{p.Transform != nil, p.Filter != nil, p.Expand != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return errors.Wrapf(ErrInvalidProcessor, "processor %q has %d functions set", p.Name, set)
	}

	switch {
	case p.Kind == KindTransform && p.Transform != nil,
		p.Kind == KindFilter && p.Filter != nil,
		p.Kind == KindExpand && p.Expand != nil:
		return nil
	}

	return errors.Wrapf(ErrInvalidProcessor, "processor %q of kind %s", p.Name, p.Kind)
}
