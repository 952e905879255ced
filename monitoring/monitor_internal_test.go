package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Spencerx/ns-3-dev-git/sim"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		engine *sim.SerialEngine
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()

		m = NewMonitor()
		m.RegisterEngine(engine)
	})

	It("should report the simulated time", func() {
		engine.Schedule(42, func() {})
		Expect(engine.Run()).To(Succeed())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/now", nil)
		m.router().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(200))
		Expect(rec.Body.String()).To(Equal(`{"now":42}`))
	})

	It("should pause and continue the engine", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/pause", nil)
		m.router().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(200))

		rec = httptest.NewRecorder()
		req = httptest.NewRequest("GET", "/api/continue", nil)
		m.router().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(200))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("loading", 100)
		bar.IncrementFinished(30)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/progress", nil)
		m.router().ServeHTTP(rec, req)

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("loading"))
		Expect(bars[0]["total"]).To(BeNumerically("==", 100))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 30))
	})

	It("should remove completed progress bars", func() {
		bar1 := m.CreateProgressBar("a", 10)
		m.CreateProgressBar("b", 10)

		m.CompleteProgressBar(bar1)

		Expect(m.progressBars).To(HaveLen(1))
		Expect(m.progressBars[0].Name).To(Equal("b"))
	})

	It("should reject privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should keep regular port numbers", func() {
		m.WithPortNumber(8080)

		Expect(m.portNumber).To(Equal(8080))
	})

	It("should report process resources", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/resources", nil)
		m.router().ServeHTTP(rec, req)

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})
})
