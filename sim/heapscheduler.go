package sim

import (
	"container/heap"
	"log"
)

// A HeapScheduler keeps events in a binary heap. Because every event tracks
// its own heap index, an arbitrary interior event can still be removed in
// logarithmic time. Insert and pop are logarithmic as well, with no fixed
// per-event memory overhead beyond the index.
type HeapScheduler struct {
	schedulerBase

	events indexedEventHeap
}

// NewHeapScheduler creates a HeapScheduler.
func NewHeapScheduler() *HeapScheduler {
	s := &HeapScheduler{
		schedulerBase: makeSchedulerBase(),
		events:        make(indexedEventHeap, 0),
	}
	heap.Init(&s.events)

	return s
}

// Insert adds an event firing at time t.
func (s *HeapScheduler) Insert(t VTime, context uint32, fn EventFunc) EventID {
	e := s.newEvent(t, context, fn)
	heap.Push(&s.events, e)

	return e.ID()
}

// Peek returns the minimum event without removing it.
func (s *HeapScheduler) Peek() (*Event, bool) {
	if len(s.events) == 0 {
		return nil, false
	}
	return s.events[0], true
}

// PopNext removes and returns the minimum event.
func (s *HeapScheduler) PopNext() *Event {
	if len(s.events) == 0 {
		log.Panic("popping an empty scheduler")
	}

	e := heap.Pop(&s.events).(*Event)
	s.forget(e)

	return e
}

// Remove evicts the event immediately, restoring the heap property around
// the vacated slot.
func (s *HeapScheduler) Remove(id EventID) {
	e := s.lookup(id)
	if e == nil {
		return
	}

	heap.Remove(&s.events, e.index)
	s.forget(e)
	e.state = EventRemoved
}

// IsEmpty tells whether no events are stored.
func (s *HeapScheduler) IsEmpty() bool {
	return len(s.events) == 0
}

// Len returns the number of stored events.
func (s *HeapScheduler) Len() int {
	return len(s.events)
}

// indexedEventHeap is a min-heap of events that maintains each event's index
// field so interior removal stays logarithmic.
type indexedEventHeap []*Event

func (h indexedEventHeap) Len() int {
	return len(h)
}

func (h indexedEventHeap) Less(i, j int) bool {
	return h[i].before(h[j])
}

func (h indexedEventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *indexedEventHeap) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *indexedEventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[0 : n-1]
	return e
}
