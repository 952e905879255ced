package sim

import (
	"log"

	"github.com/google/btree"
)

// A MapScheduler keeps events in a balanced ordered map (a B-tree keyed by
// (time, seq)). Logarithmic insert and removal with a predictable worst
// case. This is the default scheduler.
type MapScheduler struct {
	schedulerBase

	tree *btree.BTreeG[*Event]
}

// NewMapScheduler creates a MapScheduler.
func NewMapScheduler() *MapScheduler {
	return &MapScheduler{
		schedulerBase: makeSchedulerBase(),
		tree: btree.NewG(16, func(a, b *Event) bool {
			return a.before(b)
		}),
	}
}

// Insert adds an event firing at time t.
func (s *MapScheduler) Insert(t VTime, context uint32, fn EventFunc) EventID {
	e := s.newEvent(t, context, fn)
	s.tree.ReplaceOrInsert(e)

	return e.ID()
}

// Peek returns the minimum event without removing it.
func (s *MapScheduler) Peek() (*Event, bool) {
	return s.tree.Min()
}

// PopNext removes and returns the minimum event.
func (s *MapScheduler) PopNext() *Event {
	e, ok := s.tree.DeleteMin()
	if !ok {
		log.Panic("popping an empty scheduler")
	}

	s.forget(e)

	return e
}

// Remove evicts the event immediately and reclaims its storage.
func (s *MapScheduler) Remove(id EventID) {
	e := s.lookup(id)
	if e == nil {
		return
	}

	s.tree.Delete(e)
	s.forget(e)
	e.state = EventRemoved
}

// IsEmpty tells whether no events are stored.
func (s *MapScheduler) IsEmpty() bool {
	return s.tree.Len() == 0
}

// Len returns the number of stored events.
func (s *MapScheduler) Len() int {
	return s.tree.Len()
}
