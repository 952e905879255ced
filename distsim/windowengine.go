package distsim

import (
	"log"

	"github.com/Spencerx/ns-3-dev-git/sim"
)

// A WindowEngine advances one rank's engine in globally agreed windows. Each
// round, every rank contributes the earliest time at which it could still
// affect anyone (its next event plus lookahead, or a message already in
// flight); the global minimum becomes the horizon, and every rank runs its
// local events up to it. The round barrier doubles as the message flush
// point, so all cross-rank effects are delivered before the window that
// could observe them.
type WindowEngine struct {
	rank      int
	conn      Connector
	engine    *sim.SerialEngine
	lookahead sim.VTime

	minSent  sim.VTime
	receiver func(m Msg)
}

// NewWindowEngine wraps the rank's engine with window synchronization. The
// lookahead is the minimum delay guaranteed before any locally generated
// event can affect another rank; zero lookahead cannot guarantee progress
// and is a configuration error.
func NewWindowEngine(
	engine *sim.SerialEngine,
	rank int,
	lookahead sim.VTime,
	conn Connector,
) *WindowEngine {
	if lookahead <= 0 {
		log.Panicf("rank %d: lookahead must be positive, got %d",
			rank, lookahead)
	}

	return &WindowEngine{
		rank:      rank,
		conn:      conn,
		engine:    engine,
		lookahead: lookahead,
		minSent:   sim.MaxVTime,
	}
}

// Engine returns the rank's local engine, for scheduling model events.
func (e *WindowEngine) Engine() *sim.SerialEngine {
	return e.engine
}

// Rank returns the rank this engine drives.
func (e *WindowEngine) Rank() int {
	return e.rank
}

// Now returns the rank's local simulated time.
func (e *WindowEngine) Now() sim.VTime {
	return e.engine.Now()
}

// RegisterReceiver sets the callback invoked, in simulated time, for every
// message that arrives from another rank.
func (e *WindowEngine) RegisterReceiver(fn func(m Msg)) {
	e.receiver = fn
}

// SendRemote sends an effect to another rank, occurring there after the
// given delay. The delay must honor the lookahead promise.
func (e *WindowEngine) SendRemote(
	dst int,
	delay sim.VTime,
	context uint32,
	payload interface{},
) {
	if delay < e.lookahead {
		log.Panicf("rank %d: remote delay %d below lookahead %d",
			e.rank, delay, e.lookahead)
	}

	t := e.engine.Now().Add(delay)
	e.conn.Send(Msg{
		Src:     e.rank,
		Dst:     dst,
		Time:    t,
		Context: context,
		Payload: payload,
	})

	e.minSent = minTime(e.minSent, t)
}

// Run advances the rank window by window until every rank simultaneously
// reports no pending events and no in-flight messages.
func (e *WindowEngine) Run() error {
	for {
		horizon := e.conn.MinReduce(e.rank, e.contribution())
		e.minSent = sim.MaxVTime

		e.deliver(e.conn.Poll(e.rank))

		if horizon == sim.MaxVTime {
			return nil
		}

		if err := e.engine.RunUntil(horizon); err != nil {
			return err
		}
	}
}

// contribution is the earliest time this rank could still affect another:
// its next event plus lookahead, or a message sent in the window just
// finished and not yet delivered.
func (e *WindowEngine) contribution() sim.VTime {
	c := e.minSent

	if next, ok := e.engine.NextEventTime(); ok {
		c = minTime(c, addSat(next, e.lookahead))
	}

	return c
}

func (e *WindowEngine) deliver(msgs []Msg) {
	now := e.engine.Now()

	for _, m := range msgs {
		if m.Null {
			continue
		}

		if m.Time < now {
			log.Panicf(
				"rank %d: message from rank %d at %d arrived in the past, "+
					"now %d", e.rank, m.Src, m.Time, now)
		}

		m := m
		e.engine.ScheduleWithContext(m.Context, m.Time.Sub(now), func() {
			if e.receiver != nil {
				e.receiver(m)
			}
		})
	}
}
