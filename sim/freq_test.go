package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	BeforeEach(func() {
		resetTimeResolution(NanoSecond)
	})

	AfterEach(func() {
		resetTimeResolution(NanoSecond)
	})

	It("should compute the period", func() {
		Expect((1 * GHz).Period()).To(Equal(VTime(1)))
		Expect((100 * MHz).Period()).To(Equal(VTime(10)))
		Expect((1 * MHz).Period()).To(Equal(VTime(1000)))
	})

	It("should panic on zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should panic when the period is below one tick", func() {
		Expect(func() { (10 * GHz).Period() }).To(Panic())
	})

	It("should find the tick at or after a time", func() {
		f := 100 * MHz

		Expect(f.ThisTick(0)).To(Equal(VTime(0)))
		Expect(f.ThisTick(1)).To(Equal(VTime(10)))
		Expect(f.ThisTick(10)).To(Equal(VTime(10)))
		Expect(f.ThisTick(11)).To(Equal(VTime(20)))
	})

	It("should find the tick strictly after a time", func() {
		f := 100 * MHz

		Expect(f.NextTick(0)).To(Equal(VTime(10)))
		Expect(f.NextTick(9)).To(Equal(VTime(10)))
		Expect(f.NextTick(10)).To(Equal(VTime(20)))
	})

	It("should find the time n cycles later", func() {
		f := 100 * MHz

		Expect(f.NCyclesLater(3, 0)).To(Equal(VTime(30)))
		Expect(f.NCyclesLater(3, 5)).To(Equal(VTime(40)))
	})

	It("should find the half tick", func() {
		f := 100 * MHz

		Expect(f.HalfTick(0)).To(Equal(VTime(5)))
		Expect(f.HalfTick(12)).To(Equal(VTime(25)))
	})
})
