package sim

import "log"

// EventLogger is a hook that prints each event as it fires.
type EventLogger struct {
	Logger *log.Logger
}

// NewEventLogger returns a new EventLogger that writes into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	if evt.Context() == NoContext {
		h.Logger.Printf("%s, evt %d", evt.Time(), evt.Seq())
		return
	}

	h.Logger.Printf("%s, ctx %d, evt %d",
		evt.Time(), evt.Context(), evt.Seq())
}
