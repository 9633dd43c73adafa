package grammar

// worklist interns items by key and replays them until a fixpoint. Every
// distinct key is assigned an ascending index at first enqueue; the items
// slice is append-only and indices stay stable for the lifetime of the
// worklist. The CLOSURE and automaton constructions both reduce to this
// one shape: intern, mutate, requeue if anything changed. FIRST does not
// use it; it repeats full passes over the productions instead.
type worklist[T any, K comparable] struct {
	keyOf  func(T) K
	items  []T
	index  map[K]int
	queued []bool
	queue  []int
}

func newWorklist[T any, K comparable](keyOf func(T) K) *worklist[T, K] {
	return &worklist[T, K]{
		keyOf: keyOf,
		index: map[K]int{},
	}
}

// enqueue interns x. A new key appends x and schedules it, returning
// (index, false). A known key leaves the interned item untouched and
// returns (index, true); the caller merges into it and calls requeue when
// the merge changed anything.
func (w *worklist[T, K]) enqueue(x T) (int, bool) {
	k := w.keyOf(x)
	if i, ok := w.index[k]; ok {
		return i, true
	}
	i := len(w.items)
	w.items = append(w.items, x)
	w.queued = append(w.queued, true)
	w.index[k] = i
	w.queue = append(w.queue, i)
	return i, false
}

// next pops the oldest scheduled index and marks it not queued.
func (w *worklist[T, K]) next() (int, T, bool) {
	if len(w.queue) == 0 {
		var zero T
		return 0, zero, false
	}
	i := w.queue[0]
	w.queue = w.queue[1:]
	w.queued[i] = false
	return i, w.items[i], true
}

// requeue schedules an interned index again unless it is already queued.
func (w *worklist[T, K]) requeue(i int) {
	if w.queued[i] {
		return
	}
	w.queued[i] = true
	w.queue = append(w.queue, i)
}

func (w *worklist[T, K]) item(i int) T {
	return w.items[i]
}

func (w *worklist[T, K]) all() []T {
	return w.items
}

func (w *worklist[T, K]) count() int {
	return len(w.items)
}
