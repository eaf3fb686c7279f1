package sharedref

import (
	"sync"
	"testing"
)

// countObserver records lifecycle events. Safe for concurrent delivery.
type countObserver struct {
	mu     sync.Mutex
	counts map[EventType]int
	events []Event
}

func newCountObserver() *countObserver {
	return &countObserver{counts: make(map[EventType]int)}
}

func (o *countObserver) OnHandleEvent(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts[e.Type]++
	o.events = append(o.events, e)
}

func (o *countObserver) count(t EventType) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[t]
}

func (o *countObserver) types() []EventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]EventType, len(o.events))
	for i, e := range o.events {
		out[i] = e.Type
	}
	return out
}

// dropRecorder implements Dropper and records each invocation.
type dropRecorder struct {
	log  *[]string
	name string
}

func (d *dropRecorder) Drop() {
	*d.log = append(*d.log, d.name)
}

func TestLifecycleEventOrder(t *testing.T) {
	obs := newCountObserver()

	s := New(1, WithLabel("order"), WithObserver(obs))
	s.Release()

	got := obs.types()
	want := []EventType{EventAlloc, EventDestroy, EventFree}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEventCarriesLabelAndMode(t *testing.T) {
	obs := newCountObserver()

	s := New("v", WithLabel("tagged"), WithObserver(obs))
	defer s.Release()

	obs.mu.Lock()
	e := obs.events[0]
	obs.mu.Unlock()

	if e.Type != EventAlloc {
		t.Fatalf("first event = %s, want alloc", e.Type)
	}
	if e.Label != "tagged" {
		t.Errorf("Label = %q, want %q", e.Label, "tagged")
	}
	if e.Mode != Combined {
		t.Errorf("Mode = %s, want combined", e.Mode)
	}
	if e.Block == 0 {
		t.Error("Block id should be non-zero")
	}
}

func TestModeString(t *testing.T) {
	if Combined.String() != "combined" || Separate.String() != "separate" {
		t.Error("unexpected Mode strings")
	}
	if Mode(99).String() != "unknown" {
		t.Error("out-of-range Mode should be unknown")
	}
}

func TestEventTypeString(t *testing.T) {
	names := map[EventType]string{
		EventAlloc:       "alloc",
		EventDestroy:     "destroy",
		EventFree:        "free",
		EventPromote:     "promote",
		EventPromoteMiss: "promote_miss",
	}
	for typ, want := range names {
		if typ.String() != want {
			t.Errorf("EventType(%d).String() = %q, want %q", typ, typ.String(), want)
		}
	}
	if EventType(99).String() != "unknown" {
		t.Error("out-of-range EventType should be unknown")
	}
}
