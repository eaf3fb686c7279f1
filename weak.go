package sharedref

// Weak is an observing handle: it keeps the control block alive but not
// the managed value. It must be promoted with Lock before the value can
// be used.
//
// The typed pointer stored here is never handed out directly; it only
// materializes the strong handle returned by a successful Lock. (It is
// also what lets a weak handle taken from an aliased strong handle
// promote back to the aliased pointer.)
type Weak[T any] struct {
	ptr *T
	blk *block
}

// Clone returns a new weak handle observing the same block. Cloning an
// expired weak handle is valid; cloning an empty one yields an empty
// handle.
func (w *Weak[T]) Clone() *Weak[T] {
	if w.blk == nil {
		return &Weak[T]{}
	}
	w.blk.acquireWeak()
	return &Weak[T]{ptr: w.ptr, blk: w.blk}
}

// Move transfers the observation to a new handle without touching the
// counts. w becomes empty.
func (w *Weak[T]) Move() *Weak[T] {
	out := &Weak[T]{ptr: w.ptr, blk: w.blk}
	w.ptr, w.blk = nil, nil
	return out
}

// Release drops the weak reference and empties the handle. Releasing an
// empty handle is a no-op.
func (w *Weak[T]) Release() {
	if w.blk == nil {
		return
	}
	blk := w.blk
	w.ptr, w.blk = nil, nil
	blk.releaseWeak()
}

// Lock promotes the weak handle to a strong one. The expired check and
// the increment are a single atomic step, so a successful Lock never
// returns a value that is mid-destruction. On failure (the value is
// already destroyed, or w is empty) Lock returns an empty handle.
//
// The returned handle owns the count taken by the promotion; it does not
// acquire again.
func (w *Weak[T]) Lock() *Strong[T] {
	if w.blk == nil {
		return &Strong[T]{}
	}
	if !w.blk.tryPromote() {
		return &Strong[T]{}
	}
	return &Strong[T]{ptr: w.ptr, blk: w.blk}
}

// Expired reports whether the observed value has been destroyed (or w is
// empty). This is a racy snapshot: a false result can be stale by the
// time the caller acts on it. Callers that need the value must use
// Lock's atomic result, never Expired followed by a separate Lock.
func (w *Weak[T]) Expired() bool {
	return w.blk == nil || w.blk.strongCount() == 0
}

// Count returns a snapshot of the observed block's strong count.
// Advisory only.
func (w *Weak[T]) Count() int64 {
	if w.blk == nil {
		return 0
	}
	return w.blk.strongCount()
}

// Valid reports whether the handle observes a block (expired or not).
func (w *Weak[T]) Valid() bool {
	return w != nil && w.blk != nil
}
