package harness

import (
	"github.com/randomizedcoder/crossdomain-fifo/internal/cancel"
	"github.com/randomizedcoder/crossdomain-fifo/internal/clock"
)

// drainMask sets how often the lockstep loop empties the trace ring.
const drainMask = 256 - 1

// runLockstep interleaves both sides on the calling goroutine in virtual
// time. With a fixed seed the run is fully reproducible.
func (h *Harness) runLockstep(ext cancel.Canceler) error {
	sched := clock.NewSchedule(h.cfg.ProducerPeriod, h.cfg.ConsumerPeriod, h.cfg.PhaseOffset)
	flows := [2]*flow{clock.Domain0: h.producer, clock.Domain1: h.consumer}

	progress := clock.NewTicker(h.cfg.ProgressInterval)
	defer progress.Stop()
	defer h.rec.Drain()

	for n := uint64(0); !h.producer.done || !h.consumer.done; n++ {
		if n&pollMask == 0 && ext.Done() {
			return stopped(ext)
		}
		if n&drainMask == 0 {
			h.rec.Drain()
		}
		if progress.Tick() {
			h.logProgress()
		}

		d, _ := sched.Next()
		f := flows[d]
		if f.done {
			continue
		}
		if err := f.step(); err != nil {
			return err
		}
	}
	return nil
}
