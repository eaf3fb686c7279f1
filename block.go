package sharedref

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/sharedref/errors"
)

var blockID atomic.Uint64

// block is the shared bookkeeping structure referenced by every handle to
// one value. It is type-erased: the value's concrete type lives only in
// the handles and in the destroyer, so handles over different exposed
// types (see Alias) can share one block.
//
// The weak counter carries one extra reference held on behalf of the
// whole strong group. It is dropped by the releaser that takes the strong
// count to zero, strictly after the destroyer has finished. The block is
// released exactly when the weak counter reaches zero, which makes the
// destroy-then-free ordering a plain consequence of the counter protocol
// instead of a cross-counter race. weakCount subtracts the group
// reference so observed values match the number of live weak handles.
type block struct {
	strong atomic.Int64
	weak   atomic.Int64
	del    deleter
	obs    Observer
	label  string
	id     uint64
	mode   Mode
}

// init publishes the block with one strong reference and the strong
// group's weak reference. Must run before the first handle is handed out.
func (b *block) init(mode Mode, o options) {
	b.strong.Store(1)
	b.weak.Store(1)
	b.mode = mode
	b.label = o.label
	b.obs = o.obs
	b.id = blockID.Add(1)
	b.notify(EventAlloc)
}

// acquireStrong increments the strong count. The caller must already hold
// a live strong reference to the block.
func (b *block) acquireStrong() {
	if n := b.strong.Add(1); n < 2 {
		b.fail(errors.KindInvalidInput, "strong acquire on destroyed block", n)
	}
}

// releaseStrong decrements the strong count. The unique releaser that
// observes the 1->0 transition destroys the value exactly once, then
// drops the strong group's weak reference, which in turn releases the
// block if no weak handles remain.
func (b *block) releaseStrong() {
	n := b.strong.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		b.fail(errors.KindUnderflow, "strong count underflow", n)
	}
	b.destroy()
	b.releaseWeak()
}

// acquireWeak increments the weak count. The caller must hold a live
// reference path to the block (a strong handle, or the weak handle being
// copied, which may itself be expired).
func (b *block) acquireWeak() {
	if n := b.weak.Add(1); n < 2 {
		b.fail(errors.KindInvalidInput, "weak acquire on released block", n)
	}
}

// releaseWeak decrements the weak count and releases the block when it
// reaches zero. The decision is made on the value returned by the atomic
// add: exactly one caller can take the counter to zero.
func (b *block) releaseWeak() {
	n := b.weak.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		b.fail(errors.KindUnderflow, "weak count underflow", n)
	}
	b.notify(EventFree)
}

// tryPromote atomically increments the strong count unless it is zero.
// A load followed by a separate add would race with the final release;
// the compare-and-swap keeps the expired check and the increment one
// indivisible step.
func (b *block) tryPromote() bool {
	for {
		n := b.strong.Load()
		if n == 0 {
			b.notify(EventPromoteMiss)
			return false
		}
		if b.strong.CompareAndSwap(n, n+1) {
			b.notify(EventPromote)
			return true
		}
	}
}

// destroy invokes the stored destroyer exactly once. Only the releaser
// that took the strong count to zero reaches this, so the field access
// needs no synchronization.
func (b *block) destroy() {
	d := b.del
	b.del = nil
	if d != nil {
		d.drop()
	}
	b.notify(EventDestroy)
}

func (b *block) strongCount() int64 {
	return b.strong.Load()
}

// weakCount reports the number of live weak handles. The result is a
// racy snapshot, advisory only.
func (b *block) weakCount() int64 {
	w := b.weak.Load()
	if b.strong.Load() > 0 {
		w--
	}
	if w < 0 {
		w = 0
	}
	return w
}

func (b *block) notify(t EventType) {
	if b.obs == nil {
		return
	}
	b.obs.OnHandleEvent(Event{
		Type:  t,
		Block: b.id,
		Mode:  b.mode,
		Label: b.label,
	})
}

// fail reports an invariant breach and panics. Counter underflow or an
// acquire on a dead block means the acquire/release pairing is broken in
// the caller; continuing would corrupt lifetimes silently.
func (b *block) fail(kind errors.Kind, msg string, n int64) {
	Logger().Error(msg,
		zap.Uint64("block", b.id),
		zap.String("label", b.label),
		zap.Int64("count", n))
	panic(errors.New(errors.PhaseRelease, kind).
		Label(b.label).
		Detail("%s (block %d, count %d)", msg, b.id, n).
		Build())
}
