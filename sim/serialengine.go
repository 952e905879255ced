package sim

import (
	"log"
	"sync"
)

// A SerialEngine is the sequential core engine: a strictly single-threaded,
// cooperative run loop over one scheduler. Events execute to completion one
// at a time; scheduling calls made from within an executing event are
// queued, never executed inline.
type SerialEngine struct {
	HookableBase

	scheduler Scheduler

	timeLock sync.RWMutex
	time     VTime

	context uint32

	destroySeq    uint64
	destroyEvents []*destroyEvent
	destroyed     bool

	stopLock sync.Mutex
	stopped  bool

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// destroyMark tags the handles of destroy-list entries. Scheduled events
// never carry a negative time (time never decreases from zero and delays are
// non-negative), so the mark cannot collide with a scheduler handle.
const destroyMark = VTime(-1)

// destroyEvent is an entry of the destroy list. Destroy-time events carry no
// timestamp; they run in registration order during Destroy.
type destroyEvent struct {
	seq       uint64
	fn        EventFunc
	cancelled bool
}

// NewSerialEngine creates a SerialEngine over the default scheduler.
func NewSerialEngine() *SerialEngine {
	return NewSerialEngineWithScheduler(NewScheduler(SchedulerMap))
}

// NewSerialEngineWithScheduler creates a SerialEngine over the given
// scheduler. The scheduler choice is fixed for the engine's lifetime.
func NewSerialEngineWithScheduler(s Scheduler) *SerialEngine {
	e := new(SerialEngine)
	e.scheduler = s
	e.context = NoContext

	return e
}

func (e *SerialEngine) mustNotBeDestroyed() {
	if e.destroyed {
		log.Panic("using a destroyed engine")
	}
}

// Schedule registers fn to run after the given delay, inheriting the current
// context.
func (e *SerialEngine) Schedule(delay VTime, fn EventFunc) EventID {
	return e.ScheduleWithContext(e.context, delay, fn)
}

// ScheduleNow registers fn to run after the current event finishes but
// strictly before simulated time advances to the next distinct timestamp.
func (e *SerialEngine) ScheduleNow(fn EventFunc) EventID {
	return e.ScheduleWithContext(e.context, 0, fn)
}

// ScheduleWithContext registers fn to run after the given delay on behalf of
// the given context.
func (e *SerialEngine) ScheduleWithContext(
	context uint32,
	delay VTime,
	fn EventFunc,
) EventID {
	e.mustNotBeDestroyed()

	if delay.IsNegative() {
		log.Panicf("scheduling an event with negative delay %d", delay)
	}

	return e.scheduler.Insert(e.readNow().Add(delay), context, fn)
}

// ScheduleDestroy appends fn to the destroy list. The returned handle can be
// cancelled like any other.
func (e *SerialEngine) ScheduleDestroy(fn EventFunc) EventID {
	e.mustNotBeDestroyed()

	e.destroySeq++
	d := &destroyEvent{seq: e.destroySeq, fn: fn}
	e.destroyEvents = append(e.destroyEvents, d)

	// Destroy-time events never participate in time ordering.
	return EventID{Time: destroyMark, Seq: d.seq}
}

// Cancel marks the event cancelled in place. Stale handles are ignored.
func (e *SerialEngine) Cancel(id EventID) {
	if id.Time == destroyMark {
		e.cancelDestroyEvent(id.Seq)
		return
	}

	e.scheduler.Cancel(id)
}

// Remove evicts the event and reclaims its storage immediately. Stale
// handles are ignored.
func (e *SerialEngine) Remove(id EventID) {
	if id.Time == destroyMark {
		e.cancelDestroyEvent(id.Seq)
		return
	}

	e.scheduler.Remove(id)
}

func (e *SerialEngine) cancelDestroyEvent(seq uint64) {
	for _, d := range e.destroyEvents {
		if d.seq == seq {
			d.cancelled = true
			return
		}
	}
}

func (e *SerialEngine) readNow() VTime {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()
	return t
}

func (e *SerialEngine) writeNow(t VTime) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run processes events until the scheduler empties or Stop is called.
func (e *SerialEngine) Run() error {
	return e.RunUntil(MaxVTime)
}

// RunUntil processes events with timestamps up to and including the bound.
// Later events stay pending for a subsequent run.
func (e *SerialEngine) RunUntil(bound VTime) error {
	e.mustNotBeDestroyed()

	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	e.clearStop()

	for {
		if e.stopRequested() {
			return nil
		}

		next, ok := e.scheduler.Peek()
		if !ok || next.Time() > bound {
			return nil
		}

		e.pauseLock.Lock()
		e.runNextEvent()
		e.pauseLock.Unlock()
	}
}

func (e *SerialEngine) runNextEvent() {
	evt := e.scheduler.PopNext()
	if evt.State() == EventCancelled {
		return
	}

	now := e.readNow()
	if evt.Time() < now {
		log.Panicf("cannot run event in the past, evt %d @ %d, now %d",
			evt.Seq(), evt.Time(), now)
	}
	e.writeNow(evt.Time())

	prevContext := e.context
	e.context = evt.Context()

	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	evt.fn()
	evt.state = EventExecuted

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	e.context = prevContext
}

// Stop requests the run loop to end after the currently-executing event
// completes. Idempotent; safe to call from event code or another goroutine.
func (e *SerialEngine) Stop() {
	e.stopLock.Lock()
	e.stopped = true
	e.stopLock.Unlock()
}

func (e *SerialEngine) stopRequested() bool {
	e.stopLock.Lock()
	s := e.stopped
	e.stopLock.Unlock()
	return s
}

func (e *SerialEngine) clearStop() {
	e.stopLock.Lock()
	e.stopped = false
	e.stopLock.Unlock()
}

// Pause prevents the engine from triggering more events until Continue.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows a paused engine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Now returns the current simulated time.
func (e *SerialEngine) Now() VTime {
	return e.readNow()
}

// NextEventTime returns the timestamp of the earliest pending event, or
// false if the scheduler is empty. A cancelled event still counts; reporting
// its time is merely conservative.
func (e *SerialEngine) NextEventTime() (VTime, bool) {
	evt, ok := e.scheduler.Peek()
	if !ok {
		return 0, false
	}
	return evt.Time(), true
}

// Context returns the context of the event presently executing, or NoContext
// outside any event.
func (e *SerialEngine) Context() uint32 {
	return e.context
}

// Destroy drains and invalidates the remaining events, then runs the destroy
// list in registration order. The engine may not be used afterward; start a
// fresh engine to run again.
func (e *SerialEngine) Destroy() {
	e.mustNotBeDestroyed()

	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosEngineDestroy,
	}
	e.InvokeHook(hookCtx)

	for !e.scheduler.IsEmpty() {
		evt := e.scheduler.PopNext()
		if evt.State() == EventPending {
			evt.state = EventRemoved
		}
	}

	for _, d := range e.destroyEvents {
		if !d.cancelled {
			d.fn()
		}
	}
	e.destroyEvents = nil

	e.destroyed = true
}
