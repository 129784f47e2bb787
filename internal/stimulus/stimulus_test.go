package stimulus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomizedcoder/crossdomain-fifo/internal/sequencer"
	"github.com/randomizedcoder/crossdomain-fifo/internal/stimulus"
)

// rates draws n inputs and returns the observed reset and request rates.
func rates(g *stimulus.Generator, p sequencer.Phase, n int) (reset, request float64) {
	var r, q int
	for i := 0; i < n; i++ {
		in := g.Draw(p)
		if in.Reset {
			r++
		}
		if in.Request {
			q++
		}
	}
	return float64(r) / float64(n), float64(q) / float64(n)
}

func TestGenerator_FocusedPhasesNeverReset(t *testing.T) {
	for _, table := range []stimulus.Table{stimulus.ProducerTable(8), stimulus.ConsumerTable(8)} {
		g := stimulus.New(table, 8, 1)
		for _, p := range []sequencer.Phase{sequencer.OverflowFocus, sequencer.UnderflowFocus} {
			reset, _ := rates(g, p, 20000)
			assert.Zero(t, reset, "reset drawn during %s", p)
		}
	}
}

func TestGenerator_Bias(t *testing.T) {
	const n = 40000
	prod := stimulus.New(stimulus.ProducerTable(8), 8, 7)
	cons := stimulus.New(stimulus.ConsumerTable(8), 0, 8)

	// 8:1 weights -> 8/9 request rate
	_, req := rates(prod, sequencer.OverflowFocus, n)
	assert.InDelta(t, 8.0/9.0, req, 0.02)
	_, req = rates(cons, sequencer.OverflowFocus, n)
	assert.InDelta(t, 1.0/9.0, req, 0.02)

	_, req = rates(prod, sequencer.UnderflowFocus, n)
	assert.InDelta(t, 1.0/9.0, req, 0.02)
	_, req = rates(cons, sequencer.UnderflowFocus, n)
	assert.InDelta(t, 8.0/9.0, req, 0.02)

	reset, req := rates(prod, sequencer.BroadRandom, n)
	assert.InDelta(t, 0.5, reset, 0.02)
	assert.InDelta(t, 0.5, req, 0.02)
}

func TestGenerator_DoneUsesBroadRow(t *testing.T) {
	table := stimulus.ProducerTable(4)
	assert.Equal(t, table[sequencer.BroadRandom], table.Weights(sequencer.Done))
	assert.Equal(t, stimulus.Weights{Reset: 1, NoReset: 1, Request: 1, Idle: 1},
		stimulus.Table{}.Weights(sequencer.OverflowFocus))
}

func TestGenerator_PayloadWidth(t *testing.T) {
	g := stimulus.New(stimulus.ProducerTable(4), 4, 3)
	var seen uint64
	for i := 0; i < 1000; i++ {
		v := g.Draw(sequencer.BroadRandom).Value
		assert.Less(t, v, uint64(16))
		seen |= v
	}
	assert.Equal(t, uint64(15), seen)

	none := stimulus.New(stimulus.ConsumerTable(4), 0, 3)
	for i := 0; i < 100; i++ {
		assert.Zero(t, none.Draw(sequencer.BroadRandom).Value)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := stimulus.New(stimulus.ProducerTable(16), 32, 42)
	b := stimulus.New(stimulus.ProducerTable(16), 32, 42)
	for i := 0; i < 1000; i++ {
		p := sequencer.Phase(i / 250)
		assert.Equal(t, a.Draw(p), b.Draw(p))
	}
}

func TestGenerator_ZeroWeights(t *testing.T) {
	g := stimulus.New(stimulus.Table{
		sequencer.BroadRandom: {Reset: 0, NoReset: 0, Request: 3, Idle: 0},
	}, 0, 1)
	for i := 0; i < 100; i++ {
		in := g.Draw(sequencer.BroadRandom)
		assert.False(t, in.Reset)
		assert.True(t, in.Request)
	}
}
