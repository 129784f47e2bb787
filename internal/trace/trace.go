// Package trace records recent step events from both sides of a run.
//
// Each side writes into its own shard of a lock-free ring, so recording
// never blocks a step loop. A single drainer moves events into a bounded
// history that is dumped when a check fails. If the drainer falls behind,
// events are dropped and counted rather than stalling the writer.
package trace

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	lfring "github.com/randomizedcoder/go-lock-free-ring"

	fifo "github.com/randomizedcoder/crossdomain-fifo/internal/queue"
	"github.com/randomizedcoder/crossdomain-fifo/internal/sequencer"
)

const (
	ringCapacity = 4096
	ringShards   = 2 // one per side
)

// Event is one step of one side.
type Event struct {
	Side    fifo.Side
	Step    uint64
	Phase   sequencer.Phase
	Reset   bool
	Request bool
	Value   uint64
	Flag    bool // full for the producer, empty for the consumer
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("side", e.Side.String()),
		slog.Uint64("step", e.Step),
		slog.String("phase", e.Phase.String()),
		slog.Bool("reset", e.Reset),
		slog.Bool("request", e.Request),
		slog.Uint64("value", e.Value),
		slog.Bool("flag", e.Flag),
	)
}

// Recorder collects Events. Record may be called concurrently by the two
// sides (one goroutine per side); Drain and Recent serialize internally.
type Recorder struct {
	ring    *lfring.ShardedRing
	depth   int
	dropped atomic.Uint64

	mu      sync.Mutex
	history *queue.Queue
	drained uint64
}

// New returns a Recorder keeping the last depth events. A depth of 0
// disables recording.
func New(depth int) (*Recorder, error) {
	r := &Recorder{depth: depth, history: queue.New()}
	if depth <= 0 {
		return r, nil
	}
	ring, err := lfring.NewShardedRing(ringCapacity, ringShards)
	if err != nil {
		return nil, err
	}
	r.ring = ring
	return r, nil
}

// Enabled reports whether events are kept.
func (r *Recorder) Enabled() bool {
	return r.ring != nil
}

// Record queues an event without blocking.
func (r *Recorder) Record(e Event) {
	if r.ring == nil {
		return
	}
	if !r.ring.Write(uint64(e.Side), e) {
		r.dropped.Add(1)
	}
}

// Drain moves queued events into the history and returns how many it moved.
func (r *Recorder) Drain() int {
	if r.ring == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for {
		v, ok := r.ring.TryRead()
		if !ok {
			break
		}
		e, ok := v.(Event)
		if !ok {
			continue
		}
		r.history.Add(e)
		for r.history.Length() > r.depth {
			r.history.Remove()
		}
		n++
	}
	r.drained += uint64(n)
	return n
}

// Recent drains and returns the kept events, oldest first.
func (r *Recorder) Recent() []Event {
	r.Drain()

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, r.history.Length())
	for i := range out {
		out[i] = r.history.Get(i).(Event)
	}
	return out
}

// Dropped returns the number of events lost to a full ring.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Drained returns the number of events moved into the history so far.
func (r *Recorder) Drained() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drained
}
