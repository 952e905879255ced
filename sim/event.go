package sim

import "math"

// NoContext is the context value of events that run on behalf of no
// particular entity.
const NoContext uint32 = math.MaxUint32

// An EventFunc is the payload of an event: a deferred call with its
// arguments already bound. It is invoked with no arguments, at most once,
// when the event fires.
type EventFunc func()

// EventState tracks an event through its lifecycle.
type EventState int

// The event lifecycle states.
const (
	// EventPending events sit in the scheduler waiting to fire.
	EventPending EventState = iota

	// EventCancelled events stay in the scheduler but are discarded instead
	// of fired when popped.
	EventCancelled

	// EventExecuted events have fired. The run loop is the only party that
	// performs this transition.
	EventExecuted

	// EventRemoved events were evicted from the scheduler before firing and
	// their storage reclaimed.
	EventRemoved
)

// An Event is a time-stamped, context-tagged deferred call. Events are owned
// exclusively by the scheduler that created them; callers hold EventIDs
// instead.
type Event struct {
	time    VTime
	seq     uint64
	context uint32
	fn      EventFunc
	state   EventState

	// index is maintained by the heap-based schedulers; -1 elsewhere.
	index int
}

// Time returns the simulated time at which the event fires.
func (e *Event) Time() VTime {
	return e.time
}

// Seq returns the event's unique, monotonically increasing sequence number.
// Ties on Time are broken by ascending Seq.
func (e *Event) Seq() uint64 {
	return e.seq
}

// Context returns the id of the entity on whose behalf the event runs, or
// NoContext.
func (e *Event) Context() uint32 {
	return e.context
}

// State returns the event's lifecycle state.
func (e *Event) State() EventState {
	return e.state
}

// ID returns the handle that identifies this event.
func (e *Event) ID() EventID {
	return EventID{Time: e.time, Seq: e.seq}
}

// before reports whether e fires before o under the total (time, seq) order.
func (e *Event) before(o *Event) bool {
	if e.time != o.time {
		return e.time < o.time
	}
	return e.seq < o.seq
}

// An EventID is an opaque handle to a scheduled event. It is a plain value
// and stays safe to hold after the event has fired or been removed: stale
// handles resolve to "no such event", and Cancel/Remove on them are no-ops.
type EventID struct {
	Time VTime
	Seq  uint64
}

// NullEventID is the zero handle. It never refers to a live event.
var NullEventID = EventID{}
