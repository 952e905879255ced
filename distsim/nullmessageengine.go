package distsim

import (
	"log"

	"github.com/Spencerx/ns-3-dev-git/sim"
)

// A NullMessageEngine advances one rank's engine under the
// Chandy-Misra-Bryant protocol. Every incoming link carries a bound: the
// earliest time at which anything could still arrive on it. Local events
// strictly below the minimum bound are safe to run. To keep mutually
// waiting neighbors from deadlocking, each rank periodically promises, on
// every outgoing link, that it will send nothing below its own earliest
// possible output time. That promise is the null message.
type NullMessageEngine struct {
	rank   int
	conn   Connector
	engine *sim.SerialEngine

	// outLinks maps a neighbor rank to the link's lookahead: the minimum
	// delay guaranteed before this rank can cause an effect there.
	outLinks map[int]sim.VTime

	// inBounds maps an incoming neighbor to the latest promise received.
	inBounds map[int]sim.VTime

	lastNull map[int]sim.VTime
	receiver func(m Msg)
}

// NewNullMessageEngine wraps the rank's engine with null-message
// synchronization. outLookahead lists the outgoing links with their
// lookaheads; inLinks lists the ranks messages may arrive from. A link
// without positive lookahead cannot guarantee progress and is a
// configuration error.
func NewNullMessageEngine(
	engine *sim.SerialEngine,
	rank int,
	outLookahead map[int]sim.VTime,
	inLinks []int,
	conn Connector,
) *NullMessageEngine {
	e := &NullMessageEngine{
		rank:     rank,
		conn:     conn,
		engine:   engine,
		outLinks: make(map[int]sim.VTime),
		inBounds: make(map[int]sim.VTime),
		lastNull: make(map[int]sim.VTime),
	}

	for dst, la := range outLookahead {
		if la <= 0 {
			log.Panicf("rank %d: lookahead on link to %d must be positive, "+
				"got %d", rank, dst, la)
		}
		e.outLinks[dst] = la
	}

	for _, src := range inLinks {
		e.inBounds[src] = 0
	}

	return e
}

// Engine returns the rank's local engine, for scheduling model events.
func (e *NullMessageEngine) Engine() *sim.SerialEngine {
	return e.engine
}

// Rank returns the rank this engine drives.
func (e *NullMessageEngine) Rank() int {
	return e.rank
}

// Now returns the rank's local simulated time.
func (e *NullMessageEngine) Now() sim.VTime {
	return e.engine.Now()
}

// RegisterReceiver sets the callback invoked, in simulated time, for every
// message that arrives from another rank.
func (e *NullMessageEngine) RegisterReceiver(fn func(m Msg)) {
	e.receiver = fn
}

// SendRemote sends an effect to a neighboring rank, occurring there after
// the given delay. The delay must honor the link's lookahead promise.
func (e *NullMessageEngine) SendRemote(
	dst int,
	delay sim.VTime,
	context uint32,
	payload interface{},
) {
	la, ok := e.outLinks[dst]
	if !ok {
		log.Panicf("rank %d: no link to rank %d", e.rank, dst)
	}

	if delay < la {
		log.Panicf("rank %d: remote delay %d below link lookahead %d",
			e.rank, delay, la)
	}

	e.conn.Send(Msg{
		Src:     e.rank,
		Dst:     dst,
		Time:    e.engine.Now().Add(delay),
		Context: context,
		Payload: payload,
	})
}

// RunUntil advances the rank as far as the bound, executing only events the
// incoming promises have made safe, and blocking for neighbor promises when
// it cannot progress. It returns once no local event at or below the bound
// remains and nothing at or below the bound can still arrive.
func (e *NullMessageEngine) RunUntil(bound sim.VTime) error {
	for {
		for _, m := range e.conn.Poll(e.rank) {
			e.process(m)
		}

		safe := e.safeTime()

		runBound := minTime(safe.Sub(1), bound)
		if err := e.engine.RunUntil(runBound); err != nil {
			return err
		}

		e.sendNulls(safe)

		next, havePending := e.engine.NextEventTime()
		if safe > bound && (!havePending || next > bound) {
			return nil
		}

		// Blocked: nothing runnable until a neighbor raises its promise.
		m, ok := e.conn.Recv(e.rank)
		if !ok {
			return nil
		}
		e.process(m)
	}
}

// safeTime is the minimum promise across incoming links: local events
// strictly below it can no longer be preceded by anything in flight.
func (e *NullMessageEngine) safeTime() sim.VTime {
	safe := sim.MaxVTime

	for _, bound := range e.inBounds {
		safe = minTime(safe, bound)
	}

	return safe
}

// sendNulls promises each outgoing neighbor a floor under this rank's
// future output: the earliest event it could still execute, plus the link's
// lookahead. A promise is only sent when it improves on the last one.
func (e *NullMessageEngine) sendNulls(safe sim.VTime) {
	earliest := safe
	if next, ok := e.engine.NextEventTime(); ok {
		earliest = minTime(earliest, next)
	}

	for dst, la := range e.outLinks {
		promise := addSat(earliest, la)
		if promise <= e.lastNull[dst] {
			continue
		}

		e.lastNull[dst] = promise
		e.conn.Send(Msg{
			Src:  e.rank,
			Dst:  dst,
			Time: promise,
			Null: true,
		})
	}
}

func (e *NullMessageEngine) process(m Msg) {
	if m.Null {
		e.inBounds[m.Src] = maxTime(e.inBounds[m.Src], m.Time)
		return
	}

	now := e.engine.Now()
	if m.Time < now {
		log.Panicf("rank %d: message from rank %d at %d arrived in the "+
			"past, now %d", e.rank, m.Src, m.Time, now)
	}

	e.engine.ScheduleWithContext(m.Context, m.Time.Sub(now), func() {
		if e.receiver != nil {
			e.receiver(m)
		}
	})
}
