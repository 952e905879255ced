package sim

import (
	"container/list"
	"log"
)

// A ListScheduler keeps events in a sorted linked list. Insertion walks the
// list (linear), popping the minimum is constant. It performs well when few
// distinct future times are active at once.
type ListScheduler struct {
	schedulerBase

	l *list.List
}

// NewListScheduler creates a ListScheduler.
func NewListScheduler() *ListScheduler {
	return &ListScheduler{
		schedulerBase: makeSchedulerBase(),
		l:             list.New(),
	}
}

// Insert adds an event firing at time t, keeping the list sorted.
func (s *ListScheduler) Insert(t VTime, context uint32, fn EventFunc) EventID {
	e := s.newEvent(t, context, fn)

	var ele *list.Element
	for ele = s.l.Front(); ele != nil; ele = ele.Next() {
		if e.before(ele.Value.(*Event)) {
			break
		}
	}

	if ele != nil {
		s.l.InsertBefore(e, ele)
	} else {
		s.l.PushBack(e)
	}

	return e.ID()
}

// Peek returns the minimum event without removing it.
func (s *ListScheduler) Peek() (*Event, bool) {
	front := s.l.Front()
	if front == nil {
		return nil, false
	}
	return front.Value.(*Event), true
}

// PopNext removes and returns the minimum event.
func (s *ListScheduler) PopNext() *Event {
	front := s.l.Front()
	if front == nil {
		log.Panic("popping an empty scheduler")
	}

	e := s.l.Remove(front).(*Event)
	s.forget(e)

	return e
}

// Remove walks the list, evicts the event, and reclaims its storage.
func (s *ListScheduler) Remove(id EventID) {
	e := s.lookup(id)
	if e == nil {
		return
	}

	for ele := s.l.Front(); ele != nil; ele = ele.Next() {
		if ele.Value.(*Event) == e {
			s.l.Remove(ele)
			break
		}
	}

	s.forget(e)
	e.state = EventRemoved
}

// IsEmpty tells whether no events are stored.
func (s *ListScheduler) IsEmpty() bool {
	return s.l.Len() == 0
}

// Len returns the number of stored events.
func (s *ListScheduler) Len() int {
	return s.l.Len()
}
