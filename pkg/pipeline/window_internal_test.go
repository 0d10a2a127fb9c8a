package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowEmit(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		skip, limit int
		limited     bool
		expected    []any
		halted      int
	}{
		"no window":      {expected: []any{0, 1, 2, 3, 4}, halted: -1},
		"skip only":      {skip: 2, expected: []any{2, 3, 4}, halted: -1},
		"limit only":     {limit: 2, limited: true, expected: []any{0, 1}, halted: 1},
		"skip and limit": {skip: 1, limit: 3, limited: true, expected: []any{1, 2, 3}, halted: 3},
		"limit zero":     {limit: 0, limited: true, expected: []any{}, halted: 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := newWindow(tc.skip, tc.limit, tc.limited)
			got := []any{}
			halted := -1
			for i := range 5 {
				res := w.emit(i, func(v any) bool {
					got = append(got, v)

					return true
				})
				if res == flowHalt {
					halted = i

					break
				}
			}

			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.halted, halted)
			assert.Equal(t, len(tc.expected), w.emitted)
		})
	}
}

func TestWindowConsumerStops(t *testing.T) {
	t.Parallel()

	w := newWindow(0, 0, false)
	res := w.emit(1, func(any) bool { return false })
	assert.Equal(t, flowHalt, res)
	assert.Equal(t, 1, w.emitted)
}
