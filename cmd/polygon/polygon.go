package main

import (
	"iter"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-stream/pkg/pipeline"
)

var seeds = []int{1, 2, 3, 8, 5, 20, 131, 3425, 134}

var digitWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}

var errUnknownWord = errors.New("unknown digit word")

// randomProducer expands n into n random values, the i-th drawn from [0, (i+1)*100].
func randomProducer(rng *rand.Rand) func(int) iter.Seq[int] {
	return func(n int) iter.Seq[int] {
		return func(yield func(int) bool) {
			for i := range n {
				if !yield(rng.IntN((i+1)*100 + 1)) {
					return
				}
			}
		}
	}
}

// spellDigits writes every decimal digit of v as a word: 42 is "four two".
func spellDigits(v int) string {
	digits := strconv.Itoa(v)
	words := make([]string, 0, len(digits))
	for _, d := range digits {
		if d == '-' {
			words = append(words, "minus")

			continue
		}
		words = append(words, digitWords[d-'0'])
	}

	return strings.Join(words, " ")
}

func readDigit(word string) (int, error) {
	for i, w := range digitWords {
		if w == word {
			return i, nil
		}
	}

	return 0, errors.Wrap(errUnknownWord, word)
}

// build assembles the demo chain: two random expansions, a divisibility filter, then every
// value spelled out, split into words and read back as digits.
func build(cfg runConfig, opts ...pipeline.Option) *pipeline.Pipeline[int] {
	rng := rand.New(rand.NewPCG(uint64(cfg.seed), uint64(cfg.seed))) //nolint:gosec
	produce := randomProducer(rng)

	p := pipeline.FromSlice(seeds, opts...).
		FlatMap(produce).
		FlatMap(produce).
		Filter(func(v int) bool { return v%3 == 0 || v%2 == 0 })
	words := pipeline.FlatMap(pipeline.Map(p, spellDigits), func(s string) iter.Seq[string] {
		return strings.SplitSeq(s, " ")
	})
	out := pipeline.TryMap(words, readDigit).Skip(cfg.skip)
	if cfg.limit >= 0 {
		out = out.Limit(cfg.limit)
	}

	return out
}

type runConfig struct {
	seed  int64
	skip  int
	limit int
}
