// Package harness runs the queue under test against the reference model.
//
// A run drives the producer and consumer sides with biased random stimulus,
// checks every step of the queue under test against the reference, samples
// coverage, and lets the sequencer pick the stimulus phase. It ends when
// both sides have observed DONE, on the first oracle mismatch, or when the
// caller's context ends.
//
// Two drivers share the same per-side flows:
//   - concurrent: one goroutine per side, each paced by its own ticker
//   - lockstep: one goroutine interleaving the sides by virtual time,
//     reproducible from the seed
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/randomizedcoder/crossdomain-fifo/internal/cancel"
	"github.com/randomizedcoder/crossdomain-fifo/internal/config"
	"github.com/randomizedcoder/crossdomain-fifo/internal/coverage"
	"github.com/randomizedcoder/crossdomain-fifo/internal/oracle"
	"github.com/randomizedcoder/crossdomain-fifo/internal/queue"
	"github.com/randomizedcoder/crossdomain-fifo/internal/sequencer"
	"github.com/randomizedcoder/crossdomain-fifo/internal/trace"
)

// ErrStopped is returned when the caller's context ends the run before DONE.
var ErrStopped = errors.New("harness: stopped before coverage closed")

// pollMask sets how often a step loop checks the external context.
const pollMask = 1024 - 1

// Options customizes a Harness.
type Options struct {
	// Logger receives run logs. Nil uses slog.Default().
	Logger *slog.Logger

	// Primary replaces the queue under test. Nil builds a CrossDomain of
	// the configured capacity.
	Primary queue.Queue[uint64]
}

// Harness owns the state shared by the two sides of one run.
type Harness struct {
	cfg  config.Config
	log  *slog.Logger
	id   uuid.UUID
	seed uint64

	primary   queue.Queue[uint64]
	reference queue.Queue[uint64]

	cov   *coverage.Tracker
	seq   *sequencer.Sequencer
	board *oracle.Scoreboard[uint64]
	rec   *trace.Recorder
	abort *cancel.AtomicCanceler

	// gate makes each side's primary+reference step pair atomic with
	// respect to the other side sampling their published counters.
	gate sync.Mutex

	// latest request per side, read by the other side's coverage sample
	requests [2]atomic.Bool

	producer *flow
	consumer *flow
}

// New validates cfg and builds a Harness.
func New(cfg config.Config, opts Options) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Harness{
		cfg:     cfg,
		log:     opts.Logger,
		id:      uuid.New(),
		seed:    cfg.ResolveSeed(),
		primary: opts.Primary,
		cov:     coverage.NewDefault(),
		seq:     sequencer.New(),
		board:   oracle.NewScoreboard[uint64](),
		abort:   cancel.NewAtomic(),
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	h.log = h.log.With(slog.String("run_id", h.id.String()))

	if h.primary == nil {
		q, err := queue.NewCrossDomain[uint64](cfg.Capacity)
		if err != nil {
			return nil, fmt.Errorf("harness: primary queue: %w", err)
		}
		h.primary = q
	}
	ref, err := queue.NewReference[uint64](cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("harness: reference queue: %w", err)
	}
	h.reference = ref

	rec, err := trace.New(cfg.TraceDepth)
	if err != nil {
		return nil, fmt.Errorf("harness: trace: %w", err)
	}
	h.rec = rec

	h.producer = newFlow(h, queue.ProducerSide, h.seed)
	h.consumer = newFlow(h, queue.ConsumerSide, h.seed+1)
	return h, nil
}

// Run drives the configured mode to completion. The returned Report is
// filled in whatever the outcome.
func (h *Harness) Run(ctx context.Context) (Report, error) {
	if h.cfg.Timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, h.cfg.Timeout)
		defer stop()
	}

	h.log.Info("run starting",
		slog.String("mode", string(h.cfg.Mode)),
		slog.Int("capacity", h.cfg.Capacity),
		slog.Int("width", h.cfg.Width),
		slog.Uint64("seed", h.seed),
		slog.Duration("producer_period", h.cfg.ProducerPeriod),
		slog.Duration("consumer_period", h.cfg.ConsumerPeriod),
		slog.Duration("phase_offset", h.cfg.PhaseOffset),
	)

	start := time.Now()
	ext := cancel.NewContext(ctx)
	defer ext.Cancel(nil)

	var err error
	switch h.cfg.Mode {
	case config.ModeLockstep:
		err = h.runLockstep(ext)
	default:
		err = h.runConcurrent(ext)
	}

	report := h.report(time.Since(start))
	switch {
	case errors.Is(err, oracle.ErrMismatch):
		h.log.Error("oracle mismatch", slog.Any("error", err))
		for _, e := range h.rec.Recent() {
			h.log.Error("trace", slog.Any("event", e))
		}
	case err != nil:
		h.log.Warn("run stopped", slog.Any("error", err), slog.String("phase", report.Phase.String()))
	default:
		h.log.Info("run complete",
			slog.Float64("write_percent", report.WritePercent),
			slog.Float64("read_percent", report.ReadPercent),
			slog.Duration("elapsed", report.Elapsed),
		)
	}
	return report, err
}

// stopped converts the end of the external context into ErrStopped.
func stopped(ext cancel.Canceler) error {
	return fmt.Errorf("%w: %w", ErrStopped, ext.Cause())
}

func (h *Harness) logProgress() {
	h.log.Info("progress",
		slog.String("phase", h.seq.Phase().String()),
		slog.Uint64("producer_steps", h.producer.steps.Load()),
		slog.Uint64("consumer_steps", h.consumer.steps.Load()),
		slog.Float64("write_percent", h.cov.PercentSaturated(coverage.GroupWrite)),
		slog.Float64("read_percent", h.cov.PercentSaturated(coverage.GroupRead)),
		slog.Uint64("trace_dropped", h.rec.Dropped()),
	)
}
