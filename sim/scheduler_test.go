package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var schedulerKinds = []SchedulerKind{
	SchedulerMap,
	SchedulerHeap,
	SchedulerList,
	SchedulerCalendar,
	SchedulerArray,
}

var _ = Describe("Scheduler", func() {
	for _, kind := range schedulerKinds {
		kind := kind

		Context("kind "+string(kind), func() {
			var s Scheduler

			BeforeEach(func() {
				s = NewScheduler(kind)
			})

			It("should pop in time order", func() {
				numEvents := 200
				for i := 0; i < numEvents; i++ {
					s.Insert(VTime(rand.Int63n(1000)), NoContext, func() {})
				}

				now := VTime(-1)
				for i := 0; i < numEvents; i++ {
					e := s.PopNext()
					Expect(e.Time() >= now).To(BeTrue())
					now = e.Time()
				}

				Expect(s.IsEmpty()).To(BeTrue())
			})

			It("should break time ties by insertion order", func() {
				first := s.Insert(100, NoContext, func() {})
				second := s.Insert(100, NoContext, func() {})
				third := s.Insert(50, NoContext, func() {})

				Expect(s.PopNext().ID()).To(Equal(third))
				Expect(s.PopNext().ID()).To(Equal(first))
				Expect(s.PopNext().ID()).To(Equal(second))
			})

			It("should peek without mutating", func() {
				id := s.Insert(10, NoContext, func() {})

				e1, ok1 := s.Peek()
				e2, ok2 := s.Peek()

				Expect(ok1).To(BeTrue())
				Expect(ok2).To(BeTrue())
				Expect(e1).To(BeIdenticalTo(e2))
				Expect(e1.ID()).To(Equal(id))
				Expect(s.Len()).To(Equal(1))
			})

			It("should report emptiness", func() {
				Expect(s.IsEmpty()).To(BeTrue())

				id := s.Insert(1, NoContext, func() {})
				Expect(s.IsEmpty()).To(BeFalse())

				s.Remove(id)
				if kind == SchedulerArray {
					// No arbitrary removal; the slot stays until popped.
					Expect(s.PopNext().State()).To(Equal(EventCancelled))
				}
				Expect(s.IsEmpty()).To(BeTrue())
			})

			It("should cancel in place", func() {
				id := s.Insert(5, NoContext, func() {})

				s.Cancel(id)

				Expect(s.Len()).To(Equal(1))
				e := s.PopNext()
				Expect(e.State()).To(Equal(EventCancelled))
			})

			It("should ignore stale handles", func() {
				id := s.Insert(5, NoContext, func() {})
				popped := s.PopNext()
				Expect(popped.ID()).To(Equal(id))

				s.Cancel(id)
				s.Remove(id)
				Expect(popped.State()).ToNot(Equal(EventCancelled))
			})

			It("should carry the context", func() {
				s.Insert(5, 42, func() {})

				Expect(s.PopNext().Context()).To(Equal(uint32(42)))
			})

			It("should panic when popping empty", func() {
				Expect(func() { s.PopNext() }).To(Panic())
			})
		})
	}
})

var _ = Describe("HeapScheduler removal", func() {
	It("should remove an interior event and keep order", func() {
		s := NewHeapScheduler()

		s.Insert(10, NoContext, func() {})
		mid := s.Insert(20, NoContext, func() {})
		s.Insert(30, NoContext, func() {})

		s.Remove(mid)

		Expect(s.Len()).To(Equal(2))
		Expect(s.PopNext().Time()).To(Equal(VTime(10)))
		Expect(s.PopNext().Time()).To(Equal(VTime(30)))
	})
})

var _ = Describe("CalendarScheduler", func() {
	It("should stay ordered across resizes", func() {
		s := NewCalendarScheduler()

		numEvents := 500
		for i := 0; i < numEvents; i++ {
			s.Insert(VTime(rand.Int63n(100000)), NoContext, func() {})
		}

		now := VTime(-1)
		for i := 0; i < numEvents; i++ {
			e := s.PopNext()
			Expect(e.Time() >= now).To(BeTrue())
			now = e.Time()
		}
	})

	It("should find events far beyond the current year", func() {
		s := NewCalendarScheduler()

		s.Insert(1000000, NoContext, func() {})
		s.Insert(3, NoContext, func() {})

		Expect(s.PopNext().Time()).To(Equal(VTime(3)))
		Expect(s.PopNext().Time()).To(Equal(VTime(1000000)))
	})

	It("should handle events near the latest representable time", func() {
		s := NewCalendarScheduler()

		// Spaced events first, so the resize widens the buckets and the
		// bucket-top arithmetic for the late events leaves the representable
		// range.
		for i := 0; i < 5; i++ {
			s.Insert(VTime(i*10), NoContext, func() {})
		}
		s.Insert(MaxVTime-100, NoContext, func() {})
		s.Insert(MaxVTime-50, NoContext, func() {})
		s.Insert(MaxVTime, NoContext, func() {})

		var popped []VTime
		for !s.IsEmpty() {
			popped = append(popped, s.PopNext().Time())
		}

		Expect(popped).To(Equal([]VTime{
			0, 10, 20, 30, 40, MaxVTime - 100, MaxVTime - 50, MaxVTime,
		}))
	})

	It("should handle an insertion earlier than the cursor", func() {
		s := NewCalendarScheduler()

		s.Insert(100, NoContext, func() {})
		Expect(s.PopNext().Time()).To(Equal(VTime(100)))

		s.Insert(150, NoContext, func() {})
		s.Insert(40, NoContext, func() {})

		Expect(s.PopNext().Time()).To(Equal(VTime(40)))
		Expect(s.PopNext().Time()).To(Equal(VTime(150)))
	})
})
