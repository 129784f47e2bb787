package harness

import (
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/crossdomain-fifo/internal/config"
	"github.com/randomizedcoder/crossdomain-fifo/internal/coverage"
	"github.com/randomizedcoder/crossdomain-fifo/internal/sequencer"
)

// Report summarizes a run.
type Report struct {
	RunID uuid.UUID
	Mode  config.Mode
	Seed  uint64
	Phase sequencer.Phase

	ProducerSteps uint64
	ConsumerSteps uint64

	// Percent of each goal group saturated, 0..100
	WritePercent float64
	ReadPercent  float64

	// Accepted pushes and pops
	Pushed uint64
	Popped uint64

	TraceDropped uint64
	Elapsed      time.Duration
}

// Done reports whether the run closed coverage.
func (r Report) Done() bool {
	return r.Phase == sequencer.Done
}

func (h *Harness) report(elapsed time.Duration) Report {
	pushed, popped := h.board.Counts()
	return Report{
		RunID:         h.id,
		Mode:          h.cfg.Mode,
		Seed:          h.seed,
		Phase:         h.seq.Phase(),
		ProducerSteps: h.producer.steps.Load(),
		ConsumerSteps: h.consumer.steps.Load(),
		WritePercent:  h.cov.PercentSaturated(coverage.GroupWrite),
		ReadPercent:   h.cov.PercentSaturated(coverage.GroupRead),
		Pushed:        pushed,
		Popped:        popped,
		TraceDropped:  h.rec.Dropped(),
		Elapsed:       elapsed,
	}
}
