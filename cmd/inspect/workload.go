package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wippyai/sharedref"
	"github.com/wippyai/sharedref/track"
)

// workload churns handles so the registry has something to show: shared
// values cloned across goroutines, weak caches probed under expiry, the
// occasional adopted buffer with a custom destroyer.
type workload struct {
	reg     *track.Registry
	done    chan struct{}
	wg      sync.WaitGroup
	workers int
}

func newWorkload(reg *track.Registry, workers int) *workload {
	if workers < 1 {
		workers = 1
	}
	return &workload{
		reg:     reg,
		done:    make(chan struct{}),
		workers: workers,
	}
}

func (w *workload) start() {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.worker(i)
	}
}

func (w *workload) stop() {
	close(w.done)
	w.wg.Wait()
}

func (w *workload) worker(id int) {
	defer w.wg.Done()

	for round := 0; ; round++ {
		select {
		case <-w.done:
			return
		default:
		}

		switch round % 3 {
		case 0:
			w.churnCombined(id, round)
		case 1:
			w.churnAdopted(id, round)
		case 2:
			w.churnWeakCache(id, round)
		}

		time.Sleep(time.Duration(5+rand.IntN(20)) * time.Millisecond)
	}
}

// churnCombined shares one combined-allocation value across clones.
func (w *workload) churnCombined(id, round int) {
	s := sharedref.New(rand.Int64(),
		sharedref.WithLabel(fmt.Sprintf("worker-%d/value-%d", id, round)),
		sharedref.WithObserver(w.reg))
	defer s.Release()

	clones := make([]*sharedref.Strong[int64], rand.IntN(4))
	for i := range clones {
		clones[i] = s.Clone()
	}
	time.Sleep(time.Duration(rand.IntN(10)) * time.Millisecond)
	for _, c := range clones {
		c.Release()
	}
}

// churnAdopted exercises separate allocation with a custom destroyer.
func (w *workload) churnAdopted(id, round int) {
	buf := bytes.NewBufferString("scratch")
	s, err := sharedref.Adopt(buf,
		func(b *bytes.Buffer) { b.Reset() },
		sharedref.WithLabel(fmt.Sprintf("worker-%d/buffer-%d", id, round)),
		sharedref.WithObserver(w.reg))
	if err != nil {
		return
	}
	defer s.Release()

	s.Deref()
}

// churnWeakCache keeps a weak reference past the value's lifetime, so
// the registry sees both successful promotions and misses.
func (w *workload) churnWeakCache(id, round int) {
	s := sharedref.New(fmt.Sprintf("entry-%d", round),
		sharedref.WithLabel(fmt.Sprintf("worker-%d/cache-%d", id, round)),
		sharedref.WithObserver(w.reg))
	weak := s.Downgrade()
	defer weak.Release()

	if live := weak.Lock(); live.Valid() {
		live.Release()
	}

	s.Release()

	if live := weak.Lock(); live.Valid() {
		// Value already destroyed; a valid handle here is a bug.
		live.Release()
	}
}
