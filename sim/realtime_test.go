package sim

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RealtimeAdapter", func() {
	var (
		engine  *SerialEngine
		adapter *RealtimeAdapter
		wall    time.Time
		slept   []time.Duration
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		adapter = NewRealtimeAdapter(engine)

		wall = time.Unix(0, 0)
		slept = nil
		adapter.wallClock = func() time.Time { return wall }
		adapter.sleep = func(d time.Duration) {
			slept = append(slept, d)
			wall = wall.Add(d)
		}
	})

	It("should sleep off the lead over wall time", func() {
		engine.Schedule(NanoSeconds(100), func() {})
		engine.Schedule(NanoSeconds(300), func() {})

		Expect(adapter.Run()).To(Succeed())

		// The first event anchors the pacing; the second is 200ns of
		// simulated time later.
		Expect(slept).To(Equal([]time.Duration{200 * time.Nanosecond}))
	})

	It("should not sleep when the simulation lags", func() {
		engine.Schedule(NanoSeconds(100), func() {
			wall = wall.Add(time.Second)
		})
		engine.Schedule(NanoSeconds(300), func() {})

		Expect(adapter.Run()).To(Succeed())

		Expect(slept).To(BeEmpty())
	})

	It("should honor the speedup factor", func() {
		engine = NewSerialEngine()
		adapter = NewRealtimeAdapterWithSpeedup(engine, 2)

		wall = time.Unix(0, 0)
		slept = nil
		adapter.wallClock = func() time.Time { return wall }
		adapter.sleep = func(d time.Duration) {
			slept = append(slept, d)
			wall = wall.Add(d)
		}

		engine.Schedule(NanoSeconds(100), func() {})
		engine.Schedule(NanoSeconds(300), func() {})

		Expect(adapter.Run()).To(Succeed())

		Expect(slept).To(Equal([]time.Duration{100 * time.Nanosecond}))
	})
})
