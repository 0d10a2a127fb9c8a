package pipeline_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stream/pkg/pipeline"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

var strategies = map[string]model.Strategy{
	"interpret": model.StrategyInterpret,
	"compile":   model.StrategyCompile,
}

// countingSeq yields 0..total-1, total < 0 meaning unbounded, and counts how many values were
// pulled.
func countingSeq(t *testing.T, total int, pulled *int) iter.Seq[int] {
	t.Helper()

	return func(yield func(int) bool) {
		for i := 0; total < 0 || i < total; i++ {
			*pulled++
			if !yield(i) {
				return
			}
		}
	}
}

func rangeSeq(from, to int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := from; i < to; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func collect(t *testing.T, p *pipeline.Pipeline[int]) []int {
	t.Helper()

	res, err := p.Collect(t.Context())
	require.NoError(t, err)

	return res
}
