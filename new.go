package sharedref

import (
	"github.com/wippyai/sharedref/errors"
)

// combined holds a control block and its value in one allocation. The
// value's storage lives as long as the block, which is the documented
// trade-off of combined construction: a surviving weak handle keeps the
// (already destroyed) value's memory resident until it drops.
type combined[T any] struct {
	blk   block
	value T
}

// Option configures handle construction.
type Option func(*options)

type options struct {
	label string
	obs   Observer
}

// WithLabel attaches a diagnostic label to the control block. The label
// appears in lifecycle events and error messages.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithObserver registers an observer for the block's lifecycle events.
// Use a track.Registry to fan out to several observers.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.obs = obs
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// New constructs a value and its control block in one allocation and
// returns the first strong handle. This is the preferred construction
// path: it cannot leave anything half-built. The destroyer is the
// value's own routine (Dropper, then io.Closer, then nothing).
func New[T any](value T, opts ...Option) *Strong[T] {
	o := buildOptions(opts)
	c := &combined[T]{value: value}
	c.blk.del = &combinedDeleter[T]{c: c}
	c.blk.init(Combined, o)
	return &Strong[T]{ptr: &c.value, blk: &c.blk}
}

// Adopt wraps an already-allocated value in a new control block with a
// caller-supplied destroyer, and returns the first strong handle. A nil
// drop falls back to the value's own routine. The value and block are
// independent allocations, so the value's storage is reclaimable as soon
// as the strong count hits zero, regardless of surviving weak handles.
//
// The caller owns ptr until Adopt returns successfully; on error nothing
// has been adopted and the caller must still release the value itself.
func Adopt[T any](ptr *T, drop func(*T), opts ...Option) (*Strong[T], error) {
	o := buildOptions(opts)
	if ptr == nil {
		return nil, errors.NilResource(errors.PhaseAdopt, o.label)
	}
	if drop == nil {
		drop = dropValue[T]
	}
	b := &block{}
	b.del = &adoptedDeleter[T]{ptr: ptr, fn: drop}
	b.init(Separate, o)
	return &Strong[T]{ptr: ptr, blk: b}, nil
}

// NewSlice constructs a slice of n zero values under one control block
// and returns the first strong handle. The destroyer releases elements
// in index order using each element's own routine.
func NewSlice[T any](n int, opts ...Option) (*Strong[[]T], error) {
	o := buildOptions(opts)
	if n < 0 {
		return nil, errors.InvalidCount(errors.PhaseAlloc, o.label, n)
	}
	c := &combined[[]T]{value: make([]T, n)}
	c.blk.del = &sliceDeleter[T]{s: c.value}
	c.blk.init(Combined, o)
	return &Strong[[]T]{ptr: &c.value, blk: &c.blk}, nil
}
