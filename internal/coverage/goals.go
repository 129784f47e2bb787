package coverage

import "github.com/randomizedcoder/crossdomain-fifo/internal/queue"

// drainRefill is empty going true, false, true: the queue was drained,
// refilled, and drained again.
var drainRefill = []bool{true, false, true}

func flag(s Snapshot) bool { return s.Flag }

func boolBin(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteGroup returns the producer-side goals.
func WriteGroup() *Group {
	return NewGroup(GroupWrite, queue.ProducerSide,
		Condition(GoalWriteResetCollision, func(s Snapshot) bool {
			return s.Reset && s.Request
		}),
		Condition(GoalWriteWhileFull, func(s Snapshot) bool {
			return !s.Reset && s.Request && s.FlagBefore
		}),
		Values(GoalFullFlag, 2, func(s Snapshot) int {
			return boolBin(s.Flag)
		}),
		// simultaneous write and read request x full
		Values(GoalWriteReadFull, 4, func(s Snapshot) int {
			return 2*boolBin(s.Request && s.PeerRequest) + boolBin(s.Flag)
		}),
	)
}

// ReadGroup returns the consumer-side goals.
func ReadGroup() *Group {
	return NewGroup(GroupRead, queue.ConsumerSide,
		Condition(GoalReadResetCollision, func(s Snapshot) bool {
			return s.Reset && s.Request
		}),
		Values(GoalReadRequest, 2, func(s Snapshot) int {
			return boolBin(s.Request)
		}),
		Transition(GoalEmptyDrainRefill, flag, drainRefill...),
		CrossTransition(GoalReadEmptyDrain, flag, drainRefill, 2, func(s Snapshot) int {
			return boolBin(s.Request)
		}),
	)
}

// NewDefault returns a Tracker with the write and read groups.
func NewDefault() *Tracker {
	return NewTracker(WriteGroup(), ReadGroup())
}
