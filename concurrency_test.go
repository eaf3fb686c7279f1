package sharedref

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestConcurrent_CloneRelease(t *testing.T) {
	const goroutines = 16
	const iterations = 2000

	base := New(0)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				c := base.Clone()
				c.Release()
			}
		}()
	}
	wg.Wait()

	if base.Count() != 1 {
		t.Fatalf("Count = %d after churn, want 1", base.Count())
	}
	base.Release()
}

func TestConcurrent_ExactlyOnceDestruction(t *testing.T) {
	const holders = 32

	obs := newCountObserver()
	var destroyed atomic.Int32

	base := New(closerFunc(func() { destroyed.Add(1) }), WithObserver(obs))
	handles := make([]*Strong[closerFunc], holders)
	handles[0] = base
	for i := 1; i < holders; i++ {
		handles[i] = base.Clone()
	}

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *Strong[closerFunc]) {
			defer wg.Done()
			h.Release()
		}(h)
	}
	wg.Wait()

	if destroyed.Load() != 1 {
		t.Fatalf("destroyer ran %d times, want 1", destroyed.Load())
	}
	if obs.count(EventDestroy) != 1 || obs.count(EventFree) != 1 {
		t.Fatalf("destroy/free = %d/%d, want 1/1",
			obs.count(EventDestroy), obs.count(EventFree))
	}
}

func TestConcurrent_ExactlyOnceFree(t *testing.T) {
	const weaks = 32

	obs := newCountObserver()
	s := New(1, WithObserver(obs))

	handles := make([]*Weak[int], weaks)
	for i := range handles {
		handles[i] = s.Downgrade()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Release()
	}()
	for _, w := range handles {
		wg.Add(1)
		go func(w *Weak[int]) {
			defer wg.Done()
			w.Release()
		}(w)
	}
	wg.Wait()

	if obs.count(EventFree) != 1 {
		t.Fatalf("free events = %d, want 1", obs.count(EventFree))
	}
}

// payload flags its own destruction so promoted handles can assert they
// never see a value mid-teardown. The flag is only written by the
// destroyer (strong count zero) and only read under a promoted count, so
// the counter atomics order the accesses.
type payload struct {
	alive bool
}

func (p *payload) Drop() {
	p.alive = false
}

func TestConcurrent_PromotionRace(t *testing.T) {
	const rounds = 200
	const lockers = 8

	for round := 0; round < rounds; round++ {
		obs := newCountObserver()
		s := New(payload{alive: true}, WithObserver(obs))
		w := s.Downgrade()

		var wg sync.WaitGroup
		var hits atomic.Int32

		for g := 0; g < lockers; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				live := w.Lock()
				if !live.Valid() {
					return
				}
				if !live.Deref().alive {
					t.Error("promoted a value mid-destruction")
				}
				hits.Add(1)
				live.Release()
			}()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Release()
		}()

		wg.Wait()
		w.Release()

		if obs.count(EventDestroy) != 1 {
			t.Fatalf("round %d: destroy events = %d, want 1",
				round, obs.count(EventDestroy))
		}
		if obs.count(EventFree) != 1 {
			t.Fatalf("round %d: free events = %d, want 1",
				round, obs.count(EventFree))
		}
		if got := obs.count(EventPromote); got != int(hits.Load()) {
			t.Fatalf("round %d: promote events = %d, successful locks = %d",
				round, got, hits.Load())
		}
	}
}

func TestConcurrent_DowngradeChurn(t *testing.T) {
	const goroutines = 8
	const iterations = 1000

	s := New("shared")
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				w := s.Downgrade()
				if w.Expired() {
					t.Error("expired while a strong handle lives")
				}
				live := w.Lock()
				if !live.Valid() {
					t.Error("promotion failed while a strong handle lives")
				}
				live.Release()
				w.Release()
			}
		}()
	}
	wg.Wait()

	if s.Count() != 1 || s.WeakCount() != 0 {
		t.Fatalf("counts = %d/%d after churn, want 1/0", s.Count(), s.WeakCount())
	}
	s.Release()
}

// closerFunc adapts a func to Dropper for test payloads.
type closerFunc func()

func (f closerFunc) Drop() { f() }
