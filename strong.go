package sharedref

// Strong is an owning handle: it keeps the managed value alive. Copies
// made with Clone share one control block and contribute to the strong
// count; the value is destroyed exactly once, when the last strong
// handle releases.
//
// A Strong is either owning or empty. Distinct handles over one block
// are safe to use concurrently; a single handle instance is not safe to
// mutate (Assign, Release, Move) from two goroutines at once.
//
// Go has no destructors, so release is explicit:
//
//	s := sharedref.New(newConn())
//	defer s.Release()
type Strong[T any] struct {
	ptr *T
	blk *block
}

// Clone returns a new handle sharing ownership with s. Cloning an empty
// handle yields an empty handle.
func (s *Strong[T]) Clone() *Strong[T] {
	if s.blk == nil {
		return &Strong[T]{}
	}
	s.blk.acquireStrong()
	return &Strong[T]{ptr: s.ptr, blk: s.blk}
}

// Assign replaces s's ownership with a share of other's. The new
// reference is acquired before the old one is released, so assigning a
// handle to itself or to another handle over the same block is safe.
func (s *Strong[T]) Assign(other *Strong[T]) {
	var ptr *T
	var blk *block
	if other != nil && other.blk != nil {
		other.blk.acquireStrong()
		ptr, blk = other.ptr, other.blk
	}
	old := s.blk
	s.ptr, s.blk = ptr, blk
	if old != nil {
		old.releaseStrong()
	}
}

// Move transfers ownership to a new handle without touching the counts.
// s becomes empty.
func (s *Strong[T]) Move() *Strong[T] {
	out := &Strong[T]{ptr: s.ptr, blk: s.blk}
	s.ptr, s.blk = nil, nil
	return out
}

// Release drops s's ownership and empties the handle. Releasing an empty
// handle is a no-op, so a deferred Release composes with an earlier
// manual one.
func (s *Strong[T]) Release() {
	if s.blk == nil {
		return
	}
	blk := s.blk
	s.ptr, s.blk = nil, nil
	blk.releaseStrong()
}

// Deref returns the managed value's pointer. Dereferencing an empty
// handle is a contract violation and panics.
func (s *Strong[T]) Deref() *T {
	if s.blk == nil {
		panic("sharedref: deref of empty handle")
	}
	return s.ptr
}

// Peek returns the value's pointer without any validity guarantee: nil
// for an empty handle, and only safe to use while the caller keeps a
// strong handle to the same block alive.
func (s *Strong[T]) Peek() *T {
	return s.ptr
}

// Valid reports whether the handle currently owns a value.
func (s *Strong[T]) Valid() bool {
	return s != nil && s.blk != nil
}

// Count returns the current strong count. Under concurrent use this is a
// racy snapshot, advisory only, never a synchronization decision.
func (s *Strong[T]) Count() int64 {
	if s.blk == nil {
		return 0
	}
	return s.blk.strongCount()
}

// IsUnique reports whether s is the only strong handle to its block.
// Advisory, like Count.
func (s *Strong[T]) IsUnique() bool {
	return s.Count() == 1
}

// WeakCount returns the number of live weak handles to s's block.
// Advisory, like Count.
func (s *Strong[T]) WeakCount() int64 {
	if s.blk == nil {
		return 0
	}
	return s.blk.weakCount()
}

// Downgrade returns a weak handle observing s's block. It never fails;
// downgrading an empty handle yields an empty weak handle.
func (s *Strong[T]) Downgrade() *Weak[T] {
	if s.blk == nil {
		return &Weak[T]{}
	}
	s.blk.acquireWeak()
	return &Weak[T]{ptr: s.ptr, blk: s.blk}
}

// Alias returns a strong handle that shares s's control block but
// exposes a different, related pointer, typically a field of s's value.
// The alias keeps the whole block alive; only the block participates in
// counting.
func Alias[T, U any](s *Strong[T], ptr *U) *Strong[U] {
	if s == nil || s.blk == nil {
		return &Strong[U]{}
	}
	s.blk.acquireStrong()
	return &Strong[U]{ptr: ptr, blk: s.blk}
}
