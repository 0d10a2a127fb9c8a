package pipeline_test

import (
	"fmt"
	"iter"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stream/pkg/pipeline"
	"github.com/askiada/go-stream/pkg/pipeline/model"
)

// stage is a test description of a processor over ints, runnable both through the pipeline
// and through the eager reference below.
type stage struct {
	kind model.Kind
	a, b int
}

func (s stage) String() string {
	return fmt.Sprintf("%s(%d,%d)", s.kind, s.a, s.b)
}

func (s stage) transform(v int) int { return v*s.a + s.b }
func (s stage) keep(v int) bool { return (v+s.b)%s.a != 0 }
func (s stage) expand(v int) []int {
	n := (v%s.a + s.a) % s.a
	out := make([]int, n)
	for i := range out {
		out[i] = v + i*s.b
	}

	return out
}

func (s stage) processor() model.Processor {
	switch s.kind {
	case model.KindTransform:
		return pipeline.TransformOf("t", func(v int) (int, error) { return s.transform(v), nil })
	case model.KindFilter:
		return pipeline.FilterOf("f", func(v int) (bool, error) { return s.keep(v), nil })
	default:
		return pipeline.ExpandOf("e", func(v int) (iter.Seq[int], error) {
			items := s.expand(v)

			return func(yield func(int) bool) {
				for _, item := range items {
					if !yield(item) {
						return
					}
				}
			}, nil
		})
	}
}

// eager materialises the full, unwindowed output of chain over items.
func eager(items []int, chain []stage) []int {
	out := []int{}
outer:
	for _, v := range items {
		for i, s := range chain {
			switch s.kind {
			case model.KindTransform:
				v = s.transform(v)
			case model.KindFilter:
				if !s.keep(v) {
					continue outer
				}
			case model.KindExpand:
				out = append(out, eager(s.expand(v), chain[i+1:])...)

				continue outer
			}
		}
		out = append(out, v)
	}

	return out
}

func window(items []int, skip, limit int) []int {
	if skip >= len(items) {
		return []int{}
	}
	items = items[skip:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}

func randomChain(rng *rand.Rand) []stage {
	kinds := []model.Kind{model.KindTransform, model.KindFilter, model.KindExpand}
	chain := make([]stage, rng.IntN(7))
	for i := range chain {
		chain[i] = stage{kind: kinds[rng.IntN(len(kinds))], a: rng.IntN(4) + 2, b: rng.IntN(7) - 3}
	}

	return chain
}

func run(t *testing.T, items []int, chain []stage, skip, limit int, strategy model.Strategy) []int {
	t.Helper()

	p := pipeline.FromSlice(items, pipeline.WithStrategy(strategy))
	for _, s := range chain {
		p.Add(s.processor())
	}
	if skip > 0 {
		p.Skip(skip)
	}
	if limit >= 0 {
		p.Limit(limit)
	}
	require.NoError(t, p.Err())

	return collect(t, p)
}

func TestStrategiesAreEquivalent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11)) //nolint:gosec

	for i := range 300 {
		items := make([]int, rng.IntN(12))
		for j := range items {
			items[j] = rng.IntN(40) - 10
		}
		chain := randomChain(rng)
		skip := rng.IntN(6)
		limit := rng.IntN(10) - 2

		name := fmt.Sprintf("%d %v skip=%d limit=%d", i, chain, skip, limit)
		expected := window(eager(items, chain), skip, limit)

		interpreted := run(t, items, chain, skip, limit, model.StrategyInterpret)
		compiled := run(t, items, chain, skip, limit, model.StrategyCompile)

		assert.Equal(t, expected, interpreted, name)
		assert.Equal(t, interpreted, compiled, name)
	}
}

func TestStrategiesStopAtSamePoint(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5)) //nolint:gosec

	for i := range 100 {
		chain := randomChain(rng)
		limit := rng.IntN(5)

		pulled := map[model.Strategy]int{}
		for _, strategy := range strategies {
			count := 0
			p := pipeline.FromSeq(countingSeq(t, 200, &count), pipeline.WithStrategy(strategy))
			for _, s := range chain {
				p.Add(s.processor())
			}
			_ = collect(t, p.Limit(limit))
			pulled[strategy] = count
		}

		assert.Equal(t, pulled[model.StrategyInterpret], pulled[model.StrategyCompile], "%d %v limit=%d", i, chain, limit)
	}
}
