package queue

import (
	"fmt"
	"sync/atomic"
)

// position is a slot index plus the wrap flag that toggles each time the
// index passes the last slot.
type position struct {
	index int
	wrap  bool
}

func (p position) next(capacity int) position {
	p.index++
	if p.index == capacity {
		p.index = 0
		p.wrap = !p.wrap
	}
	return p
}

func (p position) pack() uint64 {
	v := uint64(p.index) << 1
	if p.wrap {
		v |= 1
	}
	return v
}

func unpack(v uint64) position {
	return position{index: int(v >> 1), wrap: v&1 == 1}
}

// Reference is the oracle model of CrossDomain.
//
// It keeps an explicit slot index and wrap flag per side instead of a
// Gray-coded counter, so any positive capacity works. The other side's
// position reaches each side through the same two-stage delay CrossDomain
// uses, which makes the two implementations agree step for step.
type Reference[T any] struct {
	slots []T

	wpub atomic.Uint64 // producer position, packed
	rpub atomic.Uint64 // consumer position, packed

	// Producer-owned
	w        position
	full     bool
	rq1, rq2 position

	// Consumer-owned
	r        position
	empty    bool
	data     T
	wq1, wq2 position
}

// NewReference creates a Reference queue with any positive capacity.
func NewReference[T any](capacity int) (*Reference[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: %d", ErrCapacity, capacity)
	}
	return &Reference[T]{
		slots: make([]T, capacity),
		empty: true,
	}, nil
}

// ProducerStep advances the producer by one step.
func (q *Reference[T]) ProducerStep(reset, push bool, v T) bool {
	if reset {
		q.w = position{}
		q.full = false
		q.rq1, q.rq2 = position{}, position{}
		q.wpub.Store(0)
		return false
	}

	if push && !q.full {
		q.slots[q.w.index] = v
		q.w = q.w.next(len(q.slots))
	}

	q.full = q.w.index == q.rq2.index && q.w.wrap != q.rq2.wrap
	q.rq2 = q.rq1
	q.rq1 = unpack(q.rpub.Load())

	q.wpub.Store(q.w.pack())
	return q.full
}

// ConsumerStep advances the consumer by one step.
func (q *Reference[T]) ConsumerStep(reset, pop bool) (bool, T) {
	if reset {
		q.r = position{}
		q.empty = true
		q.wq1, q.wq2 = position{}, position{}
		q.rpub.Store(0)
		return true, q.data
	}

	if pop && !q.empty {
		q.data = q.slots[q.r.index]
		q.r = q.r.next(len(q.slots))
	}

	q.empty = q.r == q.wq2
	q.wq2 = q.wq1
	q.wq1 = unpack(q.wpub.Load())

	q.rpub.Store(q.r.pack())
	return q.empty, q.data
}

// Cap returns the capacity of the queue.
func (q *Reference[T]) Cap() int {
	return len(q.slots)
}
