package sim

// An EngineAdapter is a decorator composed in front of a delegate engine. It
// forwards the whole Engine contract unchanged; concrete adapters embed it
// and override the operations they customize. Adapters chain freely: the
// delegate may itself be an adapter, terminating at exactly one core engine.
type EngineAdapter struct {
	delegate Engine
}

// MakeEngineAdapter wraps a delegate engine.
func MakeEngineAdapter(delegate Engine) EngineAdapter {
	return EngineAdapter{delegate: delegate}
}

// Delegate returns the wrapped engine.
func (a *EngineAdapter) Delegate() Engine {
	return a.delegate
}

// AcceptHook registers the hook with the delegate, so that hooks always land
// on the core engine that runs the loop.
func (a *EngineAdapter) AcceptHook(hook Hook) {
	a.delegate.AcceptHook(hook)
}

// Now returns the delegate's current time.
func (a *EngineAdapter) Now() VTime {
	return a.delegate.Now()
}

// Context returns the delegate's current context.
func (a *EngineAdapter) Context() uint32 {
	return a.delegate.Context()
}

// Schedule forwards to the delegate.
func (a *EngineAdapter) Schedule(delay VTime, fn EventFunc) EventID {
	return a.delegate.Schedule(delay, fn)
}

// ScheduleNow forwards to the delegate.
func (a *EngineAdapter) ScheduleNow(fn EventFunc) EventID {
	return a.delegate.ScheduleNow(fn)
}

// ScheduleWithContext forwards to the delegate.
func (a *EngineAdapter) ScheduleWithContext(
	context uint32,
	delay VTime,
	fn EventFunc,
) EventID {
	return a.delegate.ScheduleWithContext(context, delay, fn)
}

// ScheduleDestroy forwards to the delegate.
func (a *EngineAdapter) ScheduleDestroy(fn EventFunc) EventID {
	return a.delegate.ScheduleDestroy(fn)
}

// Cancel forwards to the delegate.
func (a *EngineAdapter) Cancel(id EventID) {
	a.delegate.Cancel(id)
}

// Remove forwards to the delegate.
func (a *EngineAdapter) Remove(id EventID) {
	a.delegate.Remove(id)
}

// Run forwards to the delegate.
func (a *EngineAdapter) Run() error {
	return a.delegate.Run()
}

// RunUntil forwards to the delegate.
func (a *EngineAdapter) RunUntil(bound VTime) error {
	return a.delegate.RunUntil(bound)
}

// Stop forwards to the delegate.
func (a *EngineAdapter) Stop() {
	a.delegate.Stop()
}

// Pause forwards to the delegate.
func (a *EngineAdapter) Pause() {
	a.delegate.Pause()
}

// Continue forwards to the delegate.
func (a *EngineAdapter) Continue() {
	a.delegate.Continue()
}

// Destroy forwards to the delegate.
func (a *EngineAdapter) Destroy() {
	a.delegate.Destroy()
}
