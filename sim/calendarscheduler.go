package sim

import (
	"log"
	"math"
	"sort"
)

// A CalendarScheduler keeps events in a calendar queue: a ring of buckets,
// each one "day" wide, that together cover one "year". An event at time t
// lives in the bucket of the day t falls on, sorted within the bucket. For
// steady, predictable event rates both insert and pop are amortized
// constant. The bucket count and width adapt to the observed population.
type CalendarScheduler struct {
	schedulerBase

	buckets    [][]*Event
	width      VTime
	lastBucket int
	bucketTop  VTime
	lastTime   VTime
	n          int
}

const calendarMinBuckets = 2
const calendarSampleSize = 25

// NewCalendarScheduler creates a CalendarScheduler.
func NewCalendarScheduler() *CalendarScheduler {
	s := &CalendarScheduler{
		schedulerBase: makeSchedulerBase(),
	}
	s.reinit(calendarMinBuckets, 1, 0)

	return s
}

// reinit sets up an empty bucket ring and points the cursor at startTime.
func (s *CalendarScheduler) reinit(nb int, width, startTime VTime) {
	s.buckets = make([][]*Event, nb)
	s.width = width
	s.n = 0
	s.setCursor(startTime)
}

func (s *CalendarScheduler) setCursor(t VTime) {
	day := s.dayOf(t)
	s.lastTime = t
	s.lastBucket = s.bucketOfDay(day)
	s.bucketTop = s.bucketTopOf(day)
}

// bucketTopOf returns the exclusive upper bound of a day's bucket, saturated
// at MaxVTime: the last representable day may be partial. A saturated top is
// safe because every stored event is at or after the cursor, so the scan can
// only meet events of that final day, all in one bucket.
func (s *CalendarScheduler) bucketTopOf(day int64) VTime {
	if day == math.MaxInt64 || day+1 > math.MaxInt64/int64(s.width) {
		return MaxVTime
	}
	return VTime((day + 1) * int64(s.width))
}

// dayOf maps a time to its day number, correct for negative times.
func (s *CalendarScheduler) dayOf(t VTime) int64 {
	d := int64(t) / int64(s.width)
	if t < 0 && int64(t)%int64(s.width) != 0 {
		d--
	}
	return d
}

func (s *CalendarScheduler) bucketOfDay(day int64) int {
	i := int(day % int64(len(s.buckets)))
	if i < 0 {
		i += len(s.buckets)
	}
	return i
}

// Insert adds an event firing at time t.
func (s *CalendarScheduler) Insert(
	t VTime,
	context uint32,
	fn EventFunc,
) EventID {
	e := s.newEvent(t, context, fn)
	s.insertEvent(e)

	s.n++
	if s.n > 2*len(s.buckets) {
		s.resize(2 * len(s.buckets))
	}

	return e.ID()
}

func (s *CalendarScheduler) insertEvent(e *Event) {
	i := s.bucketOfDay(s.dayOf(e.time))
	b := s.buckets[i]

	pos := sort.Search(len(b), func(k int) bool {
		return e.before(b[k])
	})

	b = append(b, nil)
	copy(b[pos+1:], b[pos:])
	b[pos] = e
	s.buckets[i] = b

	// An event earlier than the cursor would be missed by the forward scan;
	// rewind the cursor to it.
	if e.time < s.lastTime {
		s.setCursor(e.time)
	}
}

// findNext locates the minimum event. It returns the bucket holding it and
// the cursor state a pop should commit.
func (s *CalendarScheduler) findNext() (bucket, last int, top VTime) {
	i := s.lastBucket
	t := s.bucketTop

	for c := 0; c < len(s.buckets); c++ {
		b := s.buckets[i]
		if len(b) > 0 && b[0].time < t {
			return i, i, t
		}

		i = (i + 1) % len(s.buckets)
		if t > MaxVTime-s.width {
			t = MaxVTime
		} else {
			t += s.width
		}
	}

	// No event within the next year: direct search over bucket heads.
	min := -1
	for k, b := range s.buckets {
		if len(b) == 0 {
			continue
		}
		if min < 0 || b[0].before(s.buckets[min][0]) {
			min = k
		}
	}

	e := s.buckets[min][0]
	day := s.dayOf(e.time)

	return min, s.bucketOfDay(day), s.bucketTopOf(day)
}

// Peek returns the minimum event without removing it.
func (s *CalendarScheduler) Peek() (*Event, bool) {
	if s.n == 0 {
		return nil, false
	}

	i, _, _ := s.findNext()

	return s.buckets[i][0], true
}

// PopNext removes and returns the minimum event.
func (s *CalendarScheduler) PopNext() *Event {
	if s.n == 0 {
		log.Panic("popping an empty scheduler")
	}

	i, last, top := s.findNext()
	e := s.buckets[i][0]
	s.buckets[i] = s.buckets[i][1:]

	s.lastBucket = last
	s.bucketTop = top
	s.lastTime = e.time
	s.n--
	s.forget(e)

	if s.n < len(s.buckets)/2 && len(s.buckets) > calendarMinBuckets {
		s.resize(len(s.buckets) / 2)
	}

	return e
}

// Remove evicts the event immediately and reclaims its storage.
func (s *CalendarScheduler) Remove(id EventID) {
	e := s.lookup(id)
	if e == nil {
		return
	}

	i := s.bucketOfDay(s.dayOf(e.time))
	b := s.buckets[i]
	for k, stored := range b {
		if stored == e {
			s.buckets[i] = append(b[:k], b[k+1:]...)
			break
		}
	}

	s.n--
	s.forget(e)
	e.state = EventRemoved
}

// IsEmpty tells whether no events are stored.
func (s *CalendarScheduler) IsEmpty() bool {
	return s.n == 0
}

// Len returns the number of stored events.
func (s *CalendarScheduler) Len() int {
	return s.n
}

// resize rebuilds the bucket ring with a new size and a width re-estimated
// from the current population's inter-arrival times.
func (s *CalendarScheduler) resize(nb int) {
	events := make([]*Event, 0, s.n)
	for _, b := range s.buckets {
		events = append(events, b...)
	}

	width := s.estimateWidth(events)
	s.reinit(nb, width, s.lastTime)

	for _, e := range events {
		s.insertEvent(e)
		s.n++
	}
}

// estimateWidth picks the bucket width as three times the average separation
// of a sample of stored events, so that a typical day holds a small handful
// of events.
func (s *CalendarScheduler) estimateWidth(events []*Event) VTime {
	sample := events
	if len(sample) > calendarSampleSize {
		sample = sample[:calendarSampleSize]
	}

	times := make([]int64, len(sample))
	for i, e := range sample {
		times[i] = int64(e.time)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var sum, count int64
	for i := 1; i < len(times); i++ {
		gap := times[i] - times[i-1]
		if gap > 0 {
			sum += gap
			count++
		}
	}

	if count == 0 {
		return 1
	}

	width := 3 * sum / count
	if width < 1 {
		width = 1
	}

	return VTime(width)
}
