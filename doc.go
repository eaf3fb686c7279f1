// Package sharedref provides shared-ownership reference-counted handles
// for values whose destruction must be deterministic: closable
// connections, pooled buffers, wasm module instances, file descriptors,
// anything where "last user runs the cleanup" matters and Go's garbage
// collector alone is not enough.
//
// # Handles
//
// Two cooperating handle types share one control block:
//
//	Strong[T]  keeps the value alive; the last Release destroys it
//	Weak[T]    observes the value without extending its lifetime
//
// Strong handles are cloned, released, and dereferenced:
//
//	s := sharedref.New(NewCache())
//	defer s.Release()
//
//	s2 := s.Clone()        // strong count 2
//	defer s2.Release()
//	s2.Deref().Lookup(key)
//
// Weak handles break reference cycles and implement caches that must not
// keep entries alive. A weak handle is promoted before use, atomically:
//
//	w := s.Downgrade()
//	defer w.Release()
//
//	if live := w.Lock(); live.Valid() {
//		defer live.Release()
//		live.Deref().Lookup(key)
//	}
//
// Lock either returns a fully valid handle (destruction had not started)
// or an empty one (the value is gone). Expired is a racy snapshot, for
// diagnostics only, never Expired-then-Lock.
//
// # Construction
//
// New allocates the value and its control block together; the whole
// construction succeeds or nothing exists. The trade-off: a surviving
// weak handle keeps the destroyed value's storage resident until it
// drops. Adopt wraps an already-allocated value and takes a custom
// destroyer; the value's storage is independent of the block's, at the
// cost of a second allocation:
//
//	f, _ := os.Open(path)
//	s, err := sharedref.Adopt(&f, func(f **os.File) { (*f).Close() })
//
// NewSlice is the array variant; its destroyer releases elements in
// index order. The default destroyer used by New and NewSlice is the
// value's own routine: Drop() if it implements Dropper, else Close() if
// it implements io.Closer, else nothing.
//
// # Concurrency
//
// All counter operations are lock-free atomics. Distinct handles over
// one block may be cloned, released, and promoted concurrently; a single
// handle instance must not be mutated from two goroutines at once. The
// managed value itself is not synchronized by this package.
//
// # Observation
//
// Constructors accept WithLabel and WithObserver; lifecycle events
// (alloc, destroy, free, promote, promote_miss) feed the track package's
// Registry, Prometheus metrics, and zap logging.
package sharedref
