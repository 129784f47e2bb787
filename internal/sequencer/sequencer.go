// Package sequencer selects the active test phase from coverage status.
//
// The phase only ever moves forward:
//
//	OVERFLOW_FOCUS -> UNDERFLOW_FOCUS -> BROAD_RANDOM -> DONE
//
// A Sequencer is shared by the producer and consumer drivers; either may
// call Evaluate at any time.
package sequencer

import (
	"sync/atomic"

	"github.com/randomizedcoder/crossdomain-fifo/internal/coverage"
)

// Phase is the current directed-testing objective.
type Phase int32

const (
	OverflowFocus Phase = iota
	UnderflowFocus
	BroadRandom
	Done
)

func (p Phase) String() string {
	switch p {
	case OverflowFocus:
		return "OVERFLOW_FOCUS"
	case UnderflowFocus:
		return "UNDERFLOW_FOCUS"
	case BroadRandom:
		return "BROAD_RANDOM"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Coverage is the coverage state the sequencer reads.
type Coverage interface {
	Saturated(goal string) bool
	PercentSaturated(group string) float64
}

// Sequencer is a four-state phase machine.
type Sequencer struct {
	phase atomic.Int32
}

// New returns a Sequencer in OVERFLOW_FOCUS.
func New() *Sequencer {
	return &Sequencer{}
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return Phase(s.phase.Load())
}

// Evaluate applies at most one transition and returns the resulting phase
// and whether this call advanced it.
func (s *Sequencer) Evaluate(c Coverage) (Phase, bool) {
	for {
		cur := s.Phase()
		next := nextPhase(cur, c)
		if next == cur {
			return cur, false
		}
		// Lost the race: another driver advanced first, re-evaluate from there.
		if s.phase.CompareAndSwap(int32(cur), int32(next)) {
			return next, true
		}
	}
}

func nextPhase(p Phase, c Coverage) Phase {
	switch p {
	case OverflowFocus:
		if c.Saturated(coverage.GoalWriteWhileFull) {
			return UnderflowFocus
		}
	case UnderflowFocus:
		if c.Saturated(coverage.GoalEmptyDrainRefill) {
			return BroadRandom
		}
	case BroadRandom:
		if c.PercentSaturated(coverage.GroupWrite) >= 100 && c.PercentSaturated(coverage.GroupRead) >= 100 {
			return Done
		}
	}
	return p
}
