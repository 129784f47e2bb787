package harness

import (
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/randomizedcoder/crossdomain-fifo/internal/cancel"
	"github.com/randomizedcoder/crossdomain-fifo/internal/clock"
)

// drainInterval is how often the monitor empties the trace ring.
const drainInterval = time.Millisecond

// runConcurrent runs each side on its own goroutine and joins them. The
// first failing side sets the abort flag so the other stops on its next
// iteration.
func (h *Harness) runConcurrent(ext cancel.Canceler) error {
	var flows errgroup.Group
	flows.Go(func() error {
		return h.loop(ext, h.producer, clock.New(h.cfg.ProducerPeriod, 0))
	})
	flows.Go(func() error {
		return h.loop(ext, h.consumer, clock.New(h.cfg.ConsumerPeriod, h.cfg.PhaseOffset))
	})

	stop := make(chan struct{})
	var monitor errgroup.Group
	monitor.Go(func() error {
		h.monitor(stop)
		return nil
	})

	err := flows.Wait()
	close(stop)
	_ = monitor.Wait()
	return err
}

// loop steps f whenever its ticker is due until f observes DONE.
func (h *Harness) loop(ext cancel.Canceler, f *flow, t clock.Ticker) error {
	defer t.Stop()

	for spins := uint64(0); !f.done; spins++ {
		// Sibling failed; its error is the one reported
		if h.abort.Done() {
			return nil
		}
		if spins&pollMask == 0 && ext.Done() {
			err := stopped(ext)
			h.abort.Cancel(err)
			return err
		}
		if !t.Tick() {
			runtime.Gosched()
			continue
		}
		if err := f.step(); err != nil {
			h.abort.Cancel(err)
			return err
		}
	}
	return nil
}

// monitor drains the trace ring and logs progress until stop is closed.
func (h *Harness) monitor(stop <-chan struct{}) {
	progress := clock.NewTicker(h.cfg.ProgressInterval)
	defer progress.Stop()
	drain := clock.NewTicker(drainInterval)
	defer drain.Stop()

	for {
		select {
		case <-stop:
			h.rec.Drain()
			return
		case <-drain.C():
			h.rec.Drain()
		case <-progress.C():
			h.logProgress()
		}
	}
}
