package sim

import "time"

// A RealtimeAdapter paces event execution to wall-clock time: before each
// event fires, it sleeps until wall time has caught up with the event's
// simulated time. Pacing is advisory and best-effort; when the simulation
// falls behind the wall clock it simply runs as fast as it can. Correctness
// never depends on it.
type RealtimeAdapter struct {
	EngineAdapter

	// Speedup scales the pacing: 2 runs simulated time twice as fast as
	// wall time. 1 by default.
	speedup float64

	started   bool
	wallStart time.Time
	simStart  VTime
	sleep     func(d time.Duration)
	wallClock func() time.Time
	simToWall func(d VTime) time.Duration
}

// NewRealtimeAdapter wraps the delegate and hooks its run loop for pacing.
func NewRealtimeAdapter(delegate Engine) *RealtimeAdapter {
	return NewRealtimeAdapterWithSpeedup(delegate, 1)
}

// NewRealtimeAdapterWithSpeedup wraps the delegate with a custom
// simulated-to-wall speed ratio.
func NewRealtimeAdapterWithSpeedup(
	delegate Engine,
	speedup float64,
) *RealtimeAdapter {
	a := &RealtimeAdapter{
		EngineAdapter: MakeEngineAdapter(delegate),
		speedup:       speedup,
		sleep:         time.Sleep,
		wallClock:     time.Now,
	}
	a.simToWall = a.defaultSimToWall

	delegate.AcceptHook(a)

	return a
}

func (a *RealtimeAdapter) defaultSimToWall(d VTime) time.Duration {
	return time.Duration(d.In(Second) / a.speedup * float64(time.Second))
}

// Func implements Hook. Before each event, sleep off the wall-clock lead.
func (a *RealtimeAdapter) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	if !a.started {
		a.started = true
		a.wallStart = a.wallClock()
		a.simStart = evt.Time()
		return
	}

	target := a.wallStart.Add(a.simToWall(evt.Time().Sub(a.simStart)))
	lead := target.Sub(a.wallClock())
	if lead > 0 {
		a.sleep(lead)
	}
}
