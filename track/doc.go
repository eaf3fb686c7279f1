// Package track provides lifecycle observation for sharedref handles.
//
// The core library emits an event when a control block is allocated,
// when its value is destroyed, when the block itself is freed, and on
// every promotion attempt. This package consumes those events:
//
//	reg := track.NewRegistry()
//
//	s := sharedref.New(conn,
//		sharedref.WithLabel("db-conn"),
//		sharedref.WithObserver(reg))
//
//	reg.Len()      // live blocks
//	reg.Snapshot() // ordered records for display
//	reg.Stats()    // cumulative counters
//
// A Registry also fans events out to downstream observers, so metrics
// and logging compose without touching the hot path twice:
//
//	m := track.NewMetrics()
//	m.Register(prometheus.DefaultRegisterer)
//	reg.Subscribe(m)
//	reg.Subscribe(track.NewLogObserver(logger))
//
// Tracking is opt-in per handle and the registry never extends a
// value's lifetime: it stores only block ids and labels, not values.
// A block whose record is still present after its destroy mark is the
// leak signature to look for: weak handles are keeping the block's
// storage alive.
package track
