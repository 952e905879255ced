package sim

import (
	"container/heap"
	"log"
)

// An ArrayScheduler is a minimal binary-heap-on-array priority queue. It
// carries no per-event bookkeeping beyond the heap itself, so an arbitrary
// interior element cannot be removed efficiently: Remove degrades to
// cancel-in-place, and the slot is reclaimed when the event is eventually
// popped and skipped.
type ArrayScheduler struct {
	schedulerBase

	events plainEventHeap
}

// NewArrayScheduler creates an ArrayScheduler.
func NewArrayScheduler() *ArrayScheduler {
	s := &ArrayScheduler{
		schedulerBase: makeSchedulerBase(),
		events:        make(plainEventHeap, 0),
	}
	heap.Init(&s.events)

	return s
}

// Insert adds an event firing at time t.
func (s *ArrayScheduler) Insert(
	t VTime,
	context uint32,
	fn EventFunc,
) EventID {
	e := s.newEvent(t, context, fn)
	heap.Push(&s.events, e)

	return e.ID()
}

// Peek returns the minimum event without removing it.
func (s *ArrayScheduler) Peek() (*Event, bool) {
	if len(s.events) == 0 {
		return nil, false
	}
	return s.events[0], true
}

// PopNext removes and returns the minimum event.
func (s *ArrayScheduler) PopNext() *Event {
	if len(s.events) == 0 {
		log.Panic("popping an empty scheduler")
	}

	e := heap.Pop(&s.events).(*Event)
	s.forget(e)

	return e
}

// Remove cancels the event in place. True removal is not supported by this
// variant; the event stays in the heap until popped and discarded.
func (s *ArrayScheduler) Remove(id EventID) {
	s.Cancel(id)
}

// IsEmpty tells whether no events are stored.
func (s *ArrayScheduler) IsEmpty() bool {
	return len(s.events) == 0
}

// Len returns the number of stored events.
func (s *ArrayScheduler) Len() int {
	return len(s.events)
}

// plainEventHeap is the index-free min-heap behind ArrayScheduler.
type plainEventHeap []*Event

func (h plainEventHeap) Len() int {
	return len(h)
}

func (h plainEventHeap) Less(i, j int) bool {
	return h[i].before(h[j])
}

func (h plainEventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *plainEventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *plainEventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return e
}
