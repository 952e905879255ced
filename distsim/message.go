// Package distsim synchronizes multiple cooperating simulation processes.
// Each process owns one sequential engine; processes exchange only
// timestamped messages, never shared state, and a synchronization layer
// gates how far each process's local time may advance so that no process
// ever executes an event that a still-in-flight message could precede.
package distsim

import "github.com/Spencerx/ns-3-dev-git/sim"

// A Msg is a causally relevant effect crossing from one simulation process
// to another, or a null message carrying only a safe-advance bound.
type Msg struct {
	// Src and Dst are the ranks of the sending and receiving processes.
	Src int
	Dst int

	// Time is the simulated time at which the effect occurs at Dst. For a
	// null message it is the bound below which Src guarantees to send
	// nothing further.
	Time sim.VTime

	// Context is the entity at Dst on whose behalf the effect runs.
	Context uint32

	// Payload is the model-defined content. Nil for null messages.
	Payload interface{}

	// Null marks a synchronization-only message.
	Null bool
}

// A Connector is the inter-process channel: it carries timestamped messages
// between ranks and provides the consensus primitive the window variant
// needs. Concrete transports are external collaborators; LocalConnector is
// the in-memory one.
type Connector interface {
	// NumRanks returns the number of participating processes.
	NumRanks() int

	// Send enqueues the message for its destination. It never blocks the
	// simulation for correctness.
	Send(m Msg)

	// Poll drains and returns the messages pending for the rank without
	// blocking.
	Poll(rank int) []Msg

	// Recv blocks until a message arrives for the rank, returning false if
	// the connector is closed.
	Recv(rank int) (Msg, bool)

	// MinReduce blocks until every rank has contributed a value, then
	// returns the global minimum to all of them. It doubles as the barrier:
	// messages sent before a rank enters MinReduce are visible to every
	// rank's Poll after it returns.
	MinReduce(rank int, v sim.VTime) sim.VTime

	// Close shuts the connector down, releasing blocked receivers.
	Close()
}

func minTime(a, b sim.VTime) sim.VTime {
	if a < b {
		return a
	}
	return b
}

func maxTime(a, b sim.VTime) sim.VTime {
	if a > b {
		return a
	}
	return b
}

// addSat adds a delay to a time, saturating at MaxVTime instead of
// overflowing. Horizon arithmetic routinely adds lookahead to "no more
// events".
func addSat(t, d sim.VTime) sim.VTime {
	if t > sim.MaxVTime-d {
		return sim.MaxVTime
	}
	return t + d
}
