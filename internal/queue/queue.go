// Package queue provides bounded queues shared between two independently
// stepped contexts: a producer and a consumer.
//
// This package offers two implementations of the Queue interface:
//   - CrossDomain: Gray-coded position counters crossing through a
//     two-stage mirror, power-of-two capacity
//   - Reference: plain modulo index plus explicit wrap flag, any capacity
//
// Both model the cross-context visibility delay identically, so for a
// power-of-two capacity they produce the same flags and values step for
// step.
//
// # Stepping Contract (IMPORTANT)
//
// Each side advances in discrete steps. Exactly ONE goroutine may call
// ProducerStep and exactly ONE goroutine may call ConsumerStep. These may
// be the same goroutine or different goroutines. Neither side ever waits
// for the other: the only cross-context data path is the position counter
// each side publishes once per step.
//
// CrossDomain includes runtime guards that panic on concurrent misuse of
// one side.
package queue

// Producer is the write side of a cross-context queue.
type Producer[T any] interface {
	// ProducerStep advances the producer by one step and returns the
	// latched full flag.
	//
	// A push request while full is ignored. Reset clears the producer's
	// position counter and the full flag.
	ProducerStep(reset, push bool, v T) (full bool)
}

// Consumer is the read side of a cross-context queue.
type Consumer[T any] interface {
	// ConsumerStep advances the consumer by one step and returns the
	// latched empty flag along with the data register.
	//
	// A pop request while empty leaves the data register unchanged.
	// Reset clears the consumer's position counter and sets empty.
	ConsumerStep(reset, pop bool) (empty bool, v T)
}

// Queue is a bounded queue with a producer side and a consumer side.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// Cap returns the number of slots.
	Cap() int
}

// Side identifies one of the two contexts.
type Side int

const (
	ProducerSide Side = iota
	ConsumerSide
)

func (s Side) String() string {
	switch s {
	case ProducerSide:
		return "producer"
	case ConsumerSide:
		return "consumer"
	default:
		return "unknown"
	}
}
