package oracle

import (
	"sync"

	"github.com/eapache/queue"

	fifo "github.com/randomizedcoder/crossdomain-fifo/internal/queue"
)

// Scoreboard checks that popped values come out in push order, exactly
// once. It is armed until the first reset on either side: a reset drops
// or replays occupancy, after which push order no longer predicts pops.
type Scoreboard[T comparable] struct {
	mu       sync.Mutex
	expected *queue.Queue
	armed    bool
	pushed   uint64
	popped   uint64
}

// NewScoreboard returns an armed Scoreboard.
func NewScoreboard[T comparable]() *Scoreboard[T] {
	return &Scoreboard[T]{
		expected: queue.New(),
		armed:    true,
	}
}

// Disarm stops checking and drops outstanding values.
func (s *Scoreboard[T]) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	for s.expected.Length() > 0 {
		s.expected.Remove()
	}
}

// Armed reports whether pops are still being checked.
func (s *Scoreboard[T]) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Pushed records an accepted push.
func (s *Scoreboard[T]) Pushed(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushed++
	if s.armed {
		s.expected.Add(v)
	}
}

// Popped checks an accepted pop against the oldest outstanding push.
func (s *Scoreboard[T]) Popped(step uint64, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popped++
	if !s.armed {
		return nil
	}
	if s.expected.Length() == 0 {
		return &Mismatch{Side: fifo.ConsumerSide, Check: CheckScoreboard, Step: step, Got: v, Want: "nothing outstanding"}
	}
	want := s.expected.Remove().(T)
	if v != want {
		return &Mismatch{Side: fifo.ConsumerSide, Check: CheckScoreboard, Step: step, Got: v, Want: want}
	}
	return nil
}

// Outstanding returns the number of pushed values not yet popped while armed.
func (s *Scoreboard[T]) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expected.Length()
}

// Counts returns the total accepted pushes and pops seen.
func (s *Scoreboard[T]) Counts() (pushed, popped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pushed, s.popped
}
