package sharedref

// Mode distinguishes how a control block and its value are allocated.
type Mode uint8

const (
	// Combined embeds the value in the control block's allocation. The
	// value's storage stays resident until the last weak handle drops,
	// even though the value itself is destroyed when the strong count
	// reaches zero.
	Combined Mode = iota

	// Separate keeps the value in its own allocation. The block's only
	// reference to it lives in the destroyer and is dropped at destroy
	// time, so the value's storage is reclaimable independent of
	// surviving weak handles.
	Separate
)

func (m Mode) String() string {
	switch m {
	case Combined:
		return "combined"
	case Separate:
		return "separate"
	default:
		return "unknown"
	}
}

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	// EventAlloc fires once when a control block is created.
	EventAlloc EventType = iota
	// EventDestroy fires once when the strong count reaches zero and the
	// destroyer has run.
	EventDestroy
	// EventFree fires once when both counts have reached zero and the
	// block is released.
	EventFree
	// EventPromote fires when a weak handle is successfully promoted.
	EventPromote
	// EventPromoteMiss fires when promotion fails because the value is
	// already destroyed.
	EventPromoteMiss
)

func (t EventType) String() string {
	switch t {
	case EventAlloc:
		return "alloc"
	case EventDestroy:
		return "destroy"
	case EventFree:
		return "free"
	case EventPromote:
		return "promote"
	case EventPromoteMiss:
		return "promote_miss"
	default:
		return "unknown"
	}
}

// Event represents a handle lifecycle event.
type Event struct {
	Label string
	Block uint64
	Mode  Mode
	Type  EventType
}

// Observer receives notifications about handle lifecycle events.
// Observers must be safe for concurrent use; events for one block are
// delivered in lifecycle order, events for distinct blocks interleave.
type Observer interface {
	OnHandleEvent(Event)
}

// Dropper is optionally implemented by managed values that need cleanup.
// It is the default destruction routine for values constructed with New
// and NewSlice.
type Dropper interface {
	Drop()
}
