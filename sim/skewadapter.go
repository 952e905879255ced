package sim

// A SkewAdapter injects a per-context clock skew: every event scheduled on
// behalf of a skewed context is delayed by that context's offset. It
// demonstrates how orthogonal behaviors compose through the adapter chain
// without touching the core run loop.
type SkewAdapter struct {
	EngineAdapter

	skew map[uint32]VTime
}

// NewSkewAdapter wraps the delegate with no skew configured.
func NewSkewAdapter(delegate Engine) *SkewAdapter {
	return &SkewAdapter{
		EngineAdapter: MakeEngineAdapter(delegate),
		skew:          make(map[uint32]VTime),
	}
}

// SetSkew fixes the extra delay applied to events of the given context.
func (a *SkewAdapter) SetSkew(context uint32, offset VTime) {
	a.skew[context] = offset
}

// Schedule applies the current context's skew before forwarding.
func (a *SkewAdapter) Schedule(delay VTime, fn EventFunc) EventID {
	return a.ScheduleWithContext(a.Context(), delay, fn)
}

// ScheduleNow applies the current context's skew before forwarding.
func (a *SkewAdapter) ScheduleNow(fn EventFunc) EventID {
	return a.ScheduleWithContext(a.Context(), 0, fn)
}

// ScheduleWithContext applies the target context's skew before forwarding.
func (a *SkewAdapter) ScheduleWithContext(
	context uint32,
	delay VTime,
	fn EventFunc,
) EventID {
	return a.Delegate().ScheduleWithContext(
		context, delay.Add(a.skew[context]), fn)
}
