package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("EngineAdapter", func() {
	var (
		mockCtrl *gomock.Controller
		delegate *MockEngine
		adapter  EngineAdapter
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		delegate = NewMockEngine(mockCtrl)
		adapter = MakeEngineAdapter(delegate)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should forward the whole contract unchanged", func() {
		fn := EventFunc(func() {})
		id := EventID{Time: 3, Seq: 9}

		delegate.EXPECT().Schedule(VTime(5), gomock.Any()).Return(id)
		delegate.EXPECT().ScheduleNow(gomock.Any()).Return(id)
		delegate.EXPECT().
			ScheduleWithContext(uint32(2), VTime(5), gomock.Any()).
			Return(id)
		delegate.EXPECT().ScheduleDestroy(gomock.Any()).Return(id)
		delegate.EXPECT().Cancel(id)
		delegate.EXPECT().Remove(id)
		delegate.EXPECT().Run().Return(nil)
		delegate.EXPECT().RunUntil(VTime(7)).Return(nil)
		delegate.EXPECT().Stop()
		delegate.EXPECT().Pause()
		delegate.EXPECT().Continue()
		delegate.EXPECT().Destroy()
		delegate.EXPECT().Now().Return(VTime(11))
		delegate.EXPECT().Context().Return(uint32(4))

		Expect(adapter.Schedule(5, fn)).To(Equal(id))
		Expect(adapter.ScheduleNow(fn)).To(Equal(id))
		Expect(adapter.ScheduleWithContext(2, 5, fn)).To(Equal(id))
		Expect(adapter.ScheduleDestroy(fn)).To(Equal(id))
		adapter.Cancel(id)
		adapter.Remove(id)
		Expect(adapter.Run()).To(Succeed())
		Expect(adapter.RunUntil(7)).To(Succeed())
		adapter.Stop()
		adapter.Pause()
		adapter.Continue()
		adapter.Destroy()
		Expect(adapter.Now()).To(Equal(VTime(11)))
		Expect(adapter.Context()).To(Equal(uint32(4)))
	})

	It("should register hooks on the delegate", func() {
		hook := &recordingHook{}
		delegate.EXPECT().AcceptHook(hook)

		adapter.AcceptHook(hook)
	})

	It("should chain down to one core engine", func() {
		core := NewSerialEngine()
		inner := NewSkewAdapter(core)
		outer := NewSkewAdapter(inner)

		var order []int
		outer.Schedule(2, func() { order = append(order, 2) })
		outer.Schedule(1, func() { order = append(order, 1) })

		Expect(outer.Run()).To(Succeed())
		Expect(order).To(Equal([]int{1, 2}))
	})
})

var _ = Describe("SkewAdapter", func() {
	var (
		mockCtrl *gomock.Controller
		delegate *MockEngine
		adapter  *SkewAdapter
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		delegate = NewMockEngine(mockCtrl)
		adapter = NewSkewAdapter(delegate)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should delay skewed contexts", func() {
		adapter.SetSkew(3, 10)

		delegate.EXPECT().
			ScheduleWithContext(uint32(3), VTime(15), gomock.Any())

		adapter.ScheduleWithContext(3, 5, func() {})
	})

	It("should leave unskewed contexts alone", func() {
		delegate.EXPECT().
			ScheduleWithContext(uint32(8), VTime(5), gomock.Any())

		adapter.ScheduleWithContext(8, 5, func() {})
	})

	It("should apply the executing context's skew on Schedule", func() {
		adapter.SetSkew(3, 10)

		delegate.EXPECT().Context().Return(uint32(3))
		delegate.EXPECT().
			ScheduleWithContext(uint32(3), VTime(15), gomock.Any())

		adapter.Schedule(5, func() {})
	})
})
