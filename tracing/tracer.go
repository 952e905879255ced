// Package tracing records the events an engine executes. An EventTracer
// attaches to an engine as a hook and writes one row per executed event into
// a datarecording backend, grouped into sessions so that several tracing
// windows of the same run stay separable.
package tracing

import (
	"fmt"
	"sync"
	"time"

	"github.com/Spencerx/ns-3-dev-git/datarecording"
	"github.com/Spencerx/ns-3-dev-git/sim"
)

type eventTraceEntry struct {
	Seq     uint64
	Time    int64
	Context uint32
	WallNs  int64
}

type sessionEntry struct {
	TableName    string
	SessionStart int64
	SessionEnd   int64
}

const sessionTableName = "trace_sessions"

// An EventTracer is a hook that records executed events. It only records
// between StartTracing and StopTracing; each such window becomes one trace
// table plus a row in the session index table.
type EventTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	tracing      bool
	sessionCount int
	currentTable string
	sessionStart sim.VTime
	wallStart    time.Time
}

// NewEventTracer creates an EventTracer writing to the given backend. The
// time teller is usually the engine the tracer will attach to.
func NewEventTracer(
	timeTeller sim.TimeTeller,
	backend datarecording.DataRecorder,
) *EventTracer {
	t := &EventTracer{
		timeTeller: timeTeller,
		backend:    backend,
	}

	backend.CreateTable(sessionTableName, sessionEntry{})

	return t
}

// CollectTrace attaches the tracer to a hookable engine.
func CollectTrace(engine sim.Hookable, tracer *EventTracer) {
	engine.AcceptHook(tracer)
}

// StartTracing opens a recording session. Events executed from now on are
// recorded until StopTracing.
func (t *EventTracer) StartTracing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.tracing {
		return
	}

	t.sessionCount++
	t.currentTable = fmt.Sprintf("event_trace_%d", t.sessionCount)
	t.sessionStart = t.timeTeller.Now()
	t.wallStart = time.Now()

	t.backend.CreateTable(t.currentTable, eventTraceEntry{})

	t.tracing = true
}

// StopTracing closes the current session and writes its index row.
func (t *EventTracer) StopTracing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

func (t *EventTracer) stopLocked() {
	if !t.tracing {
		return
	}

	t.backend.InsertData(sessionTableName, sessionEntry{
		TableName:    t.currentTable,
		SessionStart: int64(t.sessionStart),
		SessionEnd:   int64(t.timeTeller.Now()),
	})

	t.tracing = false
	t.backend.Flush()
}

// IsTracing reports whether a session is open.
func (t *EventTracer) IsTracing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.tracing
}

// Func records executed events while a session is open, and closes any open
// session when the engine is destroyed.
func (t *EventTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterEvent:
		t.recordEvent(ctx.Item.(*sim.Event))
	case sim.HookPosEngineDestroy:
		t.mu.Lock()
		defer t.mu.Unlock()
		t.stopLocked()
	}
}

func (t *EventTracer) recordEvent(evt *sim.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.tracing {
		return
	}

	t.backend.InsertData(t.currentTable, eventTraceEntry{
		Seq:     evt.Seq(),
		Time:    int64(evt.Time()),
		Context: evt.Context(),
		WallNs:  time.Since(t.wallStart).Nanoseconds(),
	})
}
