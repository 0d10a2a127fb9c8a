package pipeline

// flow tells the caller of a chain walk whether to carry on with the next element.
type flow int

const (
	// flowNext: the element was emitted, skipped or abandoned; continue with the next one.
	flowNext flow = iota
	// flowHalt: the limit was reached or the consumer stopped; unwind every loop level.
	flowHalt
)

// window holds the skip and limit counters of one execution. A single window is shared by
// every loop level so that skip and limit apply to the flattened output.
type window struct {
	skip    int
	limit   int
	limited bool
	emitted int
	skipped int
}

func newWindow(skip, limit int, limited bool) *window {
	return &window{skip: skip, limit: limit, limited: limited}
}

// full reports whether the limit has been reached.
func (w *window) full() bool {
	return w.limited && w.emitted >= w.limit
}

// emit applies skip-then-limit to a value that went through the whole chain.
func (w *window) emit(v any, yield func(any) bool) flow {
	if w.skip > 0 {
		w.skip--
		w.skipped++

		return flowNext
	}
	if w.full() {
		return flowHalt
	}

	w.emitted++
	if !yield(v) || w.full() {
		return flowHalt
	}

	return flowNext
}
