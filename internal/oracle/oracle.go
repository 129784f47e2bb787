// Package oracle compares the primary queue against the reference model.
//
// Each side has its own checker, owned by that side's driver. Every
// comparison is a hard check: the first divergence is returned as a
// *Mismatch and the run is expected to stop. There is no retry.
package oracle

import (
	"errors"
	"fmt"

	"github.com/randomizedcoder/crossdomain-fifo/internal/queue"
)

// ErrMismatch matches any *Mismatch via errors.Is.
var ErrMismatch = errors.New("oracle: mismatch")

// Check identifies which comparison failed.
type Check int

const (
	CheckResetRecovery Check = iota
	CheckFullFlag
	CheckEmptyFlag
	CheckDataValue
	CheckScoreboard
)

func (c Check) String() string {
	switch c {
	case CheckResetRecovery:
		return "reset-recovery"
	case CheckFullFlag:
		return "full-flag"
	case CheckEmptyFlag:
		return "empty-flag"
	case CheckDataValue:
		return "data-value"
	case CheckScoreboard:
		return "scoreboard"
	default:
		return "unknown"
	}
}

// Mismatch describes a failed check.
type Mismatch struct {
	Side  queue.Side
	Check Check
	Step  uint64
	Got   any
	Want  any
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("oracle: %s check failed on %s side at step %d: got %v, want %v",
		m.Check, m.Side, m.Step, m.Got, m.Want)
}

// Is reports whether target is ErrMismatch.
func (m *Mismatch) Is(target error) bool {
	return target == ErrMismatch
}

// grace tracks the one-step settling window after a reset.
type grace struct {
	pending bool
}

// enter records this step's reset and reports whether the step is graced.
func (g *grace) enter(reset bool) bool {
	graced := g.pending && !reset
	g.pending = reset
	return graced
}

// ProducerChecker compares the full flags of the two producer sides.
type ProducerChecker struct {
	grace grace
}

// Check compares one producer step. The step after a reset is not compared.
func (c *ProducerChecker) Check(step uint64, reset, got, want bool) error {
	if c.grace.enter(reset) {
		return nil
	}
	if reset {
		if got {
			return &Mismatch{Side: queue.ProducerSide, Check: CheckResetRecovery, Step: step, Got: got, Want: false}
		}
		return nil
	}
	if got != want {
		return &Mismatch{Side: queue.ProducerSide, Check: CheckFullFlag, Step: step, Got: got, Want: want}
	}
	return nil
}

// ConsumerChecker compares the empty flags and popped values of the two
// consumer sides.
type ConsumerChecker[T comparable] struct {
	grace grace
}

// Check compares one consumer step. Values are compared on steps with a
// pop request. The step after a reset is not compared.
func (c *ConsumerChecker[T]) Check(step uint64, reset, pop, gotEmpty, wantEmpty bool, got, want T) error {
	if c.grace.enter(reset) {
		return nil
	}
	if reset {
		if !gotEmpty {
			return &Mismatch{Side: queue.ConsumerSide, Check: CheckResetRecovery, Step: step, Got: gotEmpty, Want: true}
		}
		return nil
	}
	if gotEmpty != wantEmpty {
		return &Mismatch{Side: queue.ConsumerSide, Check: CheckEmptyFlag, Step: step, Got: gotEmpty, Want: wantEmpty}
	}
	if pop && got != want {
		return &Mismatch{Side: queue.ConsumerSide, Check: CheckDataValue, Step: step, Got: got, Want: want}
	}
	return nil
}
