package harness

import (
	"log/slog"
	"sync/atomic"

	"github.com/randomizedcoder/crossdomain-fifo/internal/coverage"
	"github.com/randomizedcoder/crossdomain-fifo/internal/oracle"
	"github.com/randomizedcoder/crossdomain-fifo/internal/queue"
	"github.com/randomizedcoder/crossdomain-fifo/internal/sequencer"
	"github.com/randomizedcoder/crossdomain-fifo/internal/stimulus"
	"github.com/randomizedcoder/crossdomain-fifo/internal/trace"
)

// flow is one side's step loop body. Only the goroutine driving the side
// calls step; steps is read by the progress reporter.
type flow struct {
	h    *Harness
	side queue.Side
	gen  *stimulus.Generator

	steps atomic.Uint64
	flag  bool // primary's latched flag after the last step
	done  bool // this side has observed DONE

	prodCheck oracle.ProducerChecker
	consCheck oracle.ConsumerChecker[uint64]
}

func newFlow(h *Harness, side queue.Side, seed uint64) *flow {
	f := &flow{h: h, side: side}
	if side == queue.ProducerSide {
		f.gen = stimulus.New(stimulus.ProducerTable(h.cfg.Capacity), h.cfg.Width, seed)
	} else {
		f.gen = stimulus.New(stimulus.ConsumerTable(h.cfg.Capacity), 0, seed)
		f.flag = true
	}
	return f
}

func (f *flow) peer() queue.Side {
	if f.side == queue.ProducerSide {
		return queue.ConsumerSide
	}
	return queue.ProducerSide
}

// step runs one step of this side: draw, apply to both queues, check,
// sample coverage, re-evaluate the phase.
func (f *flow) step() error {
	h := f.h
	phase := h.seq.Phase()
	in := f.gen.Draw(phase)
	n := f.steps.Add(1)
	h.requests[f.side].Store(in.Request)

	before := f.flag
	var err error
	if f.side == queue.ProducerSide {
		err = f.produce(n, in)
	} else {
		err = f.consume(n, in)
	}

	h.rec.Record(trace.Event{
		Side:    f.side,
		Step:    n,
		Phase:   phase,
		Reset:   in.Reset,
		Request: in.Request,
		Value:   in.Value,
		Flag:    f.flag,
	})
	if err != nil {
		return err
	}

	h.cov.Observe(coverage.Snapshot{
		Side:        f.side,
		Reset:       in.Reset,
		Request:     in.Request,
		PeerRequest: h.requests[f.peer()].Load(),
		FlagBefore:  before,
		Flag:        f.flag,
	})

	next, advanced := h.seq.Evaluate(h.cov)
	if advanced {
		h.log.Info("phase advanced",
			slog.String("side", f.side.String()),
			slog.Uint64("step", n),
			slog.String("phase", next.String()),
		)
	}
	if next == sequencer.Done {
		f.done = true
	}
	return nil
}

func (f *flow) produce(n uint64, in stimulus.Input) error {
	h := f.h
	accepted := !in.Reset && in.Request && !f.flag

	h.gate.Lock()
	got := h.primary.ProducerStep(in.Reset, in.Request, in.Value)
	want := h.reference.ProducerStep(in.Reset, in.Request, in.Value)
	// Scoreboard updates stay inside the gate so the consumer can never
	// pop a value before its push is recorded.
	if in.Reset {
		h.board.Disarm()
	} else if accepted {
		h.board.Pushed(in.Value)
	}
	h.gate.Unlock()

	f.flag = got
	return f.prodCheck.Check(n, in.Reset, got, want)
}

func (f *flow) consume(n uint64, in stimulus.Input) error {
	h := f.h
	accepted := !in.Reset && in.Request && !f.flag

	h.gate.Lock()
	gotEmpty, got := h.primary.ConsumerStep(in.Reset, in.Request)
	wantEmpty, want := h.reference.ConsumerStep(in.Reset, in.Request)
	if in.Reset {
		h.board.Disarm()
	}
	h.gate.Unlock()

	f.flag = gotEmpty
	if err := f.consCheck.Check(n, in.Reset, in.Request, gotEmpty, wantEmpty, got, want); err != nil {
		return err
	}
	if accepted {
		return h.board.Popped(n, got)
	}
	return nil
}
