package sim

// TimeTeller can be used to get the current simulated time.
type TimeTeller interface {
	Now() VTime
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	// Schedule registers fn to run after the given delay, inheriting the
	// context of the currently-executing event. A negative delay is a
	// programming error.
	Schedule(delay VTime, fn EventFunc) EventID

	// ScheduleNow registers fn to run after the current event finishes but
	// before simulated time advances to the next distinct timestamp.
	ScheduleNow(fn EventFunc) EventID

	// ScheduleWithContext is Schedule with an explicit context, used when an
	// event logically originates from a different entity than the one
	// currently executing.
	ScheduleWithContext(context uint32, delay VTime, fn EventFunc) EventID
}

// An Engine drives a discrete event simulation: it owns the scheduler, the
// current simulated time, and the current context, and runs events in
// (time, seq) order. Engines compose: any number of adapters may wrap
// exactly one core engine.
type Engine interface {
	Hookable
	TimeTeller
	EventScheduler

	// ScheduleDestroy appends fn to the destroy list. Destroy-time events
	// never participate in time ordering; they run during Destroy, in
	// registration order.
	ScheduleDestroy(fn EventFunc) EventID

	// Cancel marks the event cancelled so its payload never runs. Stale
	// handles are silently ignored.
	Cancel(id EventID)

	// Remove evicts the event and reclaims its storage immediately. Stale
	// handles are silently ignored.
	Remove(id EventID)

	// Run processes events until the scheduler empties or Stop is called.
	Run() error

	// RunUntil processes events with timestamps up to and including the
	// bound, then returns with later events still pending.
	RunUntil(bound VTime) error

	// Stop requests the run loop to end after the currently-executing event
	// completes. Idempotent.
	Stop()

	// Pause blocks the run loop between events until Continue is called.
	Pause()

	// Continue resumes a paused run loop.
	Continue()

	// Destroy drains and invalidates the remaining events, then runs the
	// destroy list in registration order. Afterward the engine may not be
	// used again.
	Destroy()

	// Context returns the context of the event presently executing, or
	// NoContext outside any event.
	Context() uint32
}
