// Package stimulus draws biased random inputs for one side of the queue.
//
// Each step a Generator draws an independent reset bit, an independent
// request bit (push or pop), and for the producer a payload. The weights
// come from a Table indexed by the sequencer phase, so the same generator
// builds occupancy in one phase and drains it in the next.
package stimulus

import (
	"math/rand/v2"

	"github.com/randomizedcoder/crossdomain-fifo/internal/sequencer"
)

// Weights are the relative weights of one table row.
type Weights struct {
	Reset   int // reset asserted
	NoReset int // reset deasserted
	Request int // push/pop requested
	Idle    int // no request
}

// Table maps each phase to its weights.
type Table map[sequencer.Phase]Weights

// broad is the unconstrained row, also used once DONE is reached.
var broad = Weights{Reset: 1, NoReset: 1, Request: 1, Idle: 1}

// ProducerTable biases the producer toward pushing while building
// occupancy and away from pushing while draining.
func ProducerTable(capacity int) Table {
	return Table{
		sequencer.OverflowFocus:  {Reset: 0, NoReset: 1, Request: capacity, Idle: 1},
		sequencer.UnderflowFocus: {Reset: 0, NoReset: 1, Request: 1, Idle: capacity},
		sequencer.BroadRandom:    broad,
	}
}

// ConsumerTable mirrors ProducerTable: the consumer holds back while the
// queue fills and pops eagerly while it drains.
func ConsumerTable(capacity int) Table {
	return Table{
		sequencer.OverflowFocus:  {Reset: 0, NoReset: 1, Request: 1, Idle: capacity},
		sequencer.UnderflowFocus: {Reset: 0, NoReset: 1, Request: capacity, Idle: 1},
		sequencer.BroadRandom:    broad,
	}
}

// Weights returns the row for p. Phases without a row use the
// BROAD_RANDOM row, or the unconstrained row if that is missing too.
func (t Table) Weights(p sequencer.Phase) Weights {
	if w, ok := t[p]; ok {
		return w
	}
	if w, ok := t[sequencer.BroadRandom]; ok {
		return w
	}
	return broad
}

// Input is one step's worth of stimulus.
type Input struct {
	Reset   bool
	Request bool
	Value   uint64
}

// Generator draws Inputs. A Generator is owned by one side's driver and is
// not safe for concurrent use.
type Generator struct {
	table Table
	rng   *rand.Rand
	mask  uint64 // payload mask; 0 for no payload
}

// New creates a Generator over table. Width is the payload size in bits
// (0 for no payload, at most 64).
func New(table Table, width int, seed uint64) *Generator {
	var mask uint64
	switch {
	case width >= 64:
		mask = ^uint64(0)
	case width > 0:
		mask = 1<<uint(width) - 1
	}
	return &Generator{
		table: table,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		mask:  mask,
	}
}

// Draw returns the next Input for phase p.
func (g *Generator) Draw(p sequencer.Phase) Input {
	w := g.table.Weights(p)
	in := Input{
		Reset:   g.weighted(w.Reset, w.NoReset),
		Request: g.weighted(w.Request, w.Idle),
	}
	if g.mask != 0 {
		in.Value = g.rng.Uint64() & g.mask
	}
	return in
}

// weighted returns true with probability yes/(yes+no).
func (g *Generator) weighted(yes, no int) bool {
	if yes <= 0 {
		return false
	}
	if no <= 0 {
		return true
	}
	return g.rng.IntN(yes+no) < yes
}
