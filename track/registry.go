package track

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wippyai/sharedref"
	"github.com/wippyai/sharedref/errors"
)

// Record describes one live control block.
type Record struct {
	CreatedAt time.Time
	Label     string
	Block     uint64
	Mode      sharedref.Mode
	Destroyed bool
}

// Stats holds cumulative lifecycle counters.
type Stats struct {
	Allocated     uint64
	Destroyed     uint64
	Freed         uint64
	Promoted      uint64
	PromoteMisses uint64
	Live          int
}

// Registry records live control blocks and fans lifecycle events out to
// subscribed observers. Wire it into handles with
// sharedref.WithObserver(registry).
//
// A registry never affects handle lifetimes; it only watches them. A
// record is inserted on alloc, marked on destroy, and removed on free,
// so Len counts blocks whose storage is still held somewhere.
type Registry struct {
	records   map[uint64]*Record
	mu        sync.RWMutex
	closed    bool
	observers []sharedref.Observer
	obsMu     sync.RWMutex

	allocated atomic.Uint64
	destroyed atomic.Uint64
	freed     atomic.Uint64
	promoted  atomic.Uint64
	missed    atomic.Uint64
	now       func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[uint64]*Record),
		now:     time.Now,
	}
}

// OnHandleEvent implements sharedref.Observer.
func (r *Registry) OnHandleEvent(e sharedref.Event) {
	switch e.Type {
	case sharedref.EventAlloc:
		r.allocated.Add(1)
		r.insert(e)
	case sharedref.EventDestroy:
		r.destroyed.Add(1)
		r.mark(e.Block)
	case sharedref.EventFree:
		r.freed.Add(1)
		r.remove(e.Block)
	case sharedref.EventPromote:
		r.promoted.Add(1)
	case sharedref.EventPromoteMiss:
		r.missed.Add(1)
	}

	r.notify(e)
}

func (r *Registry) insert(e sharedref.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.records[e.Block] = &Record{
		Block:     e.Block,
		Label:     e.Label,
		Mode:      e.Mode,
		CreatedAt: r.now(),
	}
}

func (r *Registry) mark(block uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[block]; ok {
		rec.Destroyed = true
	}
}

func (r *Registry) remove(block uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, block)
}

// Len returns the number of live blocks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Each iterates over live blocks. The callback must not call back into
// the registry.
func (r *Registry) Each(fn func(Record) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if !fn(*rec) {
			break
		}
	}
}

// Snapshot returns the live blocks ordered by block id.
func (r *Registry) Snapshot() []Record {
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Block < out[j].Block
	})
	return out
}

// Stats returns cumulative counters and the current live-block count.
func (r *Registry) Stats() Stats {
	return Stats{
		Allocated:     r.allocated.Load(),
		Destroyed:     r.destroyed.Load(),
		Freed:         r.freed.Load(),
		Promoted:      r.promoted.Load(),
		PromoteMisses: r.missed.Load(),
		Live:          r.Len(),
	}
}

// Subscribe adds a downstream observer. Events are forwarded after the
// registry has applied them, so a subscriber reading Stats sees its own
// event already counted.
func (r *Registry) Subscribe(o sharedref.Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o sharedref.Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Close stops recording new blocks and drops the current records.
// Events still update counters and reach subscribers, so handles that
// outlive the registry stay harmless. Closing twice is an error.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.Closed(errors.PhaseTrack, "registry")
	}
	r.closed = true
	r.records = make(map[uint64]*Record)
	return nil
}

func (r *Registry) notify(e sharedref.Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnHandleEvent(e)
	}
}
