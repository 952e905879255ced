package distsim

import (
	"log"
	"sync"

	"github.com/Spencerx/ns-3-dev-git/sim"
)

// A LocalConnector connects the ranks of one OS process. It is the reference
// transport: each rank runs its engine on its own goroutine and all
// coordination flows through the connector. Every rank owns an unbounded
// inbox, so Send never blocks and a rank bursting messages between barriers
// cannot stall its peers.
type LocalConnector struct {
	n       int
	inboxes []*inbox

	mu         sync.Mutex
	cond       *sync.Cond
	arrived    int
	min        sim.VTime
	result     sim.VTime
	generation int
	closed     bool
}

// inbox is one rank's unbounded FIFO message queue.
type inbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	msgs   []Msg
	closed bool
}

func newInbox() *inbox {
	b := new(inbox)
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *inbox) put(m Msg) {
	b.mu.Lock()
	b.msgs = append(b.msgs, m)
	b.mu.Unlock()

	b.cond.Signal()
}

func (b *inbox) drain() []Msg {
	b.mu.Lock()
	msgs := b.msgs
	b.msgs = nil
	b.mu.Unlock()

	return msgs
}

func (b *inbox) take() (Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.msgs) == 0 && !b.closed {
		b.cond.Wait()
	}

	if len(b.msgs) == 0 {
		return Msg{}, false
	}

	m := b.msgs[0]
	b.msgs = b.msgs[1:]

	return m, true
}

func (b *inbox) shutdown() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.cond.Broadcast()
}

// NewLocalConnector creates a connector for n ranks.
func NewLocalConnector(n int) *LocalConnector {
	if n < 1 {
		log.Panicf("connector needs at least one rank, got %d", n)
	}

	c := &LocalConnector{
		n:       n,
		inboxes: make([]*inbox, n),
		min:     sim.MaxVTime,
	}
	c.cond = sync.NewCond(&c.mu)

	for i := range c.inboxes {
		c.inboxes[i] = newInbox()
	}

	return c
}

// NumRanks returns the number of participating ranks.
func (c *LocalConnector) NumRanks() int {
	return c.n
}

// Send enqueues the message for its destination rank. It never blocks.
func (c *LocalConnector) Send(m Msg) {
	if m.Dst < 0 || m.Dst >= c.n {
		log.Panicf("message for unknown rank %d", m.Dst)
	}

	c.inboxes[m.Dst].put(m)
}

// Poll drains the rank's inbox without blocking.
func (c *LocalConnector) Poll(rank int) []Msg {
	return c.inboxes[rank].drain()
}

// Recv blocks until a message arrives for the rank. It returns false once
// the connector is closed and the inbox is drained.
func (c *LocalConnector) Recv(rank int) (Msg, bool) {
	return c.inboxes[rank].take()
}

// MinReduce contributes v and blocks until all ranks have contributed,
// returning the global minimum.
func (c *LocalConnector) MinReduce(rank int, v sim.VTime) sim.VTime {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.generation

	if v < c.min {
		c.min = v
	}

	c.arrived++
	if c.arrived == c.n {
		c.result = c.min
		c.min = sim.MaxVTime
		c.arrived = 0
		c.generation++
		c.cond.Broadcast()

		return c.result
	}

	for gen == c.generation {
		c.cond.Wait()
	}

	return c.result
}

// Close shuts the inboxes down, releasing any blocked Recv.
func (c *LocalConnector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for _, inbox := range c.inboxes {
		inbox.shutdown()
	}
}
