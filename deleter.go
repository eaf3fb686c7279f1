package sharedref

import "io"

// deleter is the type-erased destruction routine stored in a control
// block. Implementations capture the value's concrete type; the block
// only knows how to invoke drop exactly once.
type deleter interface {
	drop()
}

// combinedDeleter destroys a value embedded in its block's allocation.
type combinedDeleter[T any] struct {
	c *combined[T]
}

// drop destroys the embedded value, then zeroes it. The field's storage
// stays resident until the block is released, but anything the value
// referenced is let go immediately.
func (d *combinedDeleter[T]) drop() {
	dropValue(&d.c.value)
	var zero T
	d.c.value = zero
}

// adoptedDeleter destroys a separately allocated value with a
// caller-supplied routine. It drops its own reference to the value
// afterwards so the storage is reclaimable while weak handles survive.
type adoptedDeleter[T any] struct {
	ptr *T
	fn  func(*T)
}

func (d *adoptedDeleter[T]) drop() {
	p, fn := d.ptr, d.fn
	d.ptr, d.fn = nil, nil
	if p != nil && fn != nil {
		fn(p)
	}
}

// sliceDeleter releases slice elements in index order.
type sliceDeleter[T any] struct {
	s []T
}

func (d *sliceDeleter[T]) drop() {
	s := d.s
	d.s = nil
	var zero T
	for i := range s {
		dropValue(&s[i])
		s[i] = zero
	}
}

// dropValue applies the value's own destruction routine: Drop if the
// value implements Dropper, Close if it implements io.Closer, otherwise
// nothing. The pointer is checked first so pointer-receiver methods are
// found for concrete T; the dereferenced checks cover interface-typed T.
func dropValue[T any](p *T) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
		return
	}
	if c, ok := any(p).(io.Closer); ok {
		_ = c.Close()
		return
	}
	switch v := any(*p).(type) {
	case Dropper:
		v.Drop()
	case io.Closer:
		_ = v.Close()
	}
}
