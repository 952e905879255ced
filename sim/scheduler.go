package sim

import "log"

// A Scheduler keeps pending events in (time, seq) order. All variants share
// this contract; they differ only in internal structure and asymptotic cost.
//
// A scheduler instance is owned by exactly one engine and is never shared
// across goroutines.
type Scheduler interface {
	// Insert creates an event firing at time t with the given context and
	// payload, assigns it the next sequence number, and returns its handle.
	Insert(t VTime, context uint32, fn EventFunc) EventID

	// Peek returns the event with the smallest (time, seq) key without
	// removing it, or false if the scheduler is empty.
	Peek() (*Event, bool)

	// PopNext removes and returns the minimum event. Popping an empty
	// scheduler is a programming error. Cancelled events are returned as
	// well; the run loop discards them.
	PopNext() *Event

	// Cancel marks the event Cancelled in place, in O(1). The slot is
	// reclaimed when the event is eventually popped and skipped. Stale
	// handles are ignored.
	Cancel(id EventID)

	// Remove evicts the event and reclaims its storage immediately,
	// regardless of its position. Stale handles are ignored. The array
	// scheduler cannot remove interior elements and degrades to Cancel.
	Remove(id EventID)

	// IsEmpty tells whether no events are stored, cancelled ones included.
	IsEmpty() bool

	// Len returns the number of stored events, cancelled ones included.
	Len() int
}

// SchedulerKind names a scheduler implementation.
type SchedulerKind string

// The available scheduler implementations.
const (
	// SchedulerMap is a balanced ordered map. Logarithmic insert, cheap
	// pop-minimum, predictable worst case. The default.
	SchedulerMap SchedulerKind = "map"

	// SchedulerHeap is a binary heap with an index side table, giving
	// logarithmic insert, pop, and arbitrary removal.
	SchedulerHeap SchedulerKind = "heap"

	// SchedulerList is a sorted linked list. Linear insert, constant pop.
	// Good when few distinct future times are active.
	SchedulerList SchedulerKind = "list"

	// SchedulerCalendar is a calendar queue bucketed by estimated
	// inter-arrival time. Amortized constant insert and pop for steady
	// event rates.
	SchedulerCalendar SchedulerKind = "calendar"

	// SchedulerArray is a minimal binary-heap-on-array priority queue. It
	// has no arbitrary removal; Remove degrades to cancel-in-place.
	SchedulerArray SchedulerKind = "array"
)

// NewScheduler creates a scheduler of the given kind. The kind is an
// operational choice, not a semantic one: every kind honors the same
// contract. An unknown kind is a configuration error.
func NewScheduler(kind SchedulerKind) Scheduler {
	switch kind {
	case SchedulerMap, SchedulerKind(""):
		return NewMapScheduler()
	case SchedulerHeap:
		return NewHeapScheduler()
	case SchedulerList:
		return NewListScheduler()
	case SchedulerCalendar:
		return NewCalendarScheduler()
	case SchedulerArray:
		return NewArrayScheduler()
	default:
		log.Panicf("unknown scheduler kind %q", kind)
		return nil
	}
}

// schedulerBase carries the pieces every scheduler variant shares: the
// sequence counter and the seq-indexed arena that resolves handles. A handle
// whose seq is absent from the arena is stale and resolves to nothing.
type schedulerBase struct {
	nextSeq uint64
	byID    map[uint64]*Event
}

func makeSchedulerBase() schedulerBase {
	return schedulerBase{
		nextSeq: 1,
		byID:    make(map[uint64]*Event),
	}
}

// newEvent allocates the event, assigns the next sequence number, and
// registers it in the arena. The first event ever created freezes the time
// resolution.
func (b *schedulerBase) newEvent(
	t VTime,
	context uint32,
	fn EventFunc,
) *Event {
	freezeTimeResolution()

	e := &Event{
		time:    t,
		seq:     b.nextSeq,
		context: context,
		fn:      fn,
		state:   EventPending,
		index:   -1,
	}
	b.nextSeq++
	b.byID[e.seq] = e

	return e
}

// lookup resolves a handle against the arena. Stale or mismatched handles
// resolve to nil.
func (b *schedulerBase) lookup(id EventID) *Event {
	e, ok := b.byID[id.Seq]
	if !ok || e.time != id.Time {
		return nil
	}
	return e
}

// Cancel marks a pending event Cancelled in place. Handles to executed,
// removed, or already-cancelled events are silently ignored.
func (b *schedulerBase) Cancel(id EventID) {
	e := b.lookup(id)
	if e == nil || e.state != EventPending {
		return
	}
	e.state = EventCancelled
}

// forget drops the event from the arena once it leaves the scheduler.
func (b *schedulerBase) forget(e *Event) {
	delete(b.byID, e.seq)
}
