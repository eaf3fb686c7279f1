package sharedref

import (
	"strings"
	"testing"

	"github.com/wippyai/sharedref/errors"
)

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value type = %T, want *errors.Error", r)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("panic = %q, want substring %q", err.Error(), want)
		}
	}()
	fn()
}

func TestBlock_StrongUnderflowPanics(t *testing.T) {
	b := &block{}
	b.init(Combined, options{})
	b.releaseStrong()

	mustPanic(t, "underflow", func() {
		b.releaseStrong()
	})
}

func TestBlock_WeakUnderflowPanics(t *testing.T) {
	b := &block{}
	b.init(Combined, options{})
	b.releaseStrong() // drops the group weak reference too

	mustPanic(t, "underflow", func() {
		b.releaseWeak()
	})
}

func TestBlock_AcquireAfterDestroyPanics(t *testing.T) {
	b := &block{}
	b.init(Separate, options{})
	b.releaseStrong()

	mustPanic(t, "destroyed", func() {
		b.acquireStrong()
	})
}

func TestBlock_TryPromoteAfterZero(t *testing.T) {
	b := &block{}
	b.init(Combined, options{})
	b.acquireWeak() // keep the block around
	b.releaseStrong()

	if b.tryPromote() {
		t.Fatal("tryPromote must fail once the strong count hit zero")
	}
	b.releaseWeak()
}

func TestBlock_WeakCountExcludesGroupReference(t *testing.T) {
	b := &block{}
	b.init(Combined, options{})

	if got := b.weakCount(); got != 0 {
		t.Fatalf("weakCount = %d on fresh block, want 0", got)
	}

	b.acquireWeak()
	if got := b.weakCount(); got != 1 {
		t.Fatalf("weakCount = %d, want 1", got)
	}

	b.releaseStrong()
	if got := b.weakCount(); got != 1 {
		t.Fatalf("weakCount = %d after destroy, want 1", got)
	}
	b.releaseWeak()
}

func TestBlock_IDsAreUnique(t *testing.T) {
	a := &block{}
	a.init(Combined, options{})
	b := &block{}
	b.init(Combined, options{})

	if a.id == b.id || a.id == 0 || b.id == 0 {
		t.Fatalf("block ids %d/%d should be distinct and non-zero", a.id, b.id)
	}
	a.releaseStrong()
	b.releaseStrong()
}
