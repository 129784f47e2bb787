package queue

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ErrCapacity is returned when a queue is created with an unsupported capacity.
var ErrCapacity = errors.New("queue: unsupported capacity")

// mirror is a two-stage shift register holding past values of the other
// side's published counter. Stage 2 is the only stage the owner compares
// against, so a foreign update becomes visible after exactly two local steps.
type mirror struct {
	stage1 uint64
	stage2 uint64
}

func (m *mirror) shift(sampled uint64) {
	m.stage2 = m.stage1
	m.stage1 = sampled
}

func (m *mirror) clear() {
	m.stage1 = 0
	m.stage2 = 0
}

// CrossDomain is a bounded SPSC queue whose two sides advance on unrelated
// step sequences.
//
// Each side owns a binary position counter with one bit more than the
// slot address needs; the top bit is the wrap parity. A side publishes its
// counter in Gray code once per step and sees the other side's counter
// only through its two-stage mirror. Full and empty are latched once per
// step from the local counter and mirror stage 2.
//
// WARNING: only ONE goroutine may call ProducerStep and only ONE goroutine
// may call ConsumerStep. Runtime guards panic if that contract is violated.
type CrossDomain[T any] struct {
	store    *Storage[T]
	capacity uint64
	ptrMask  uint64 // 2*capacity - 1

	_pad0 cpu.CacheLinePad

	wgray atomic.Uint64 // Written by producer, sampled by consumer

	_pad1 cpu.CacheLinePad

	rgray atomic.Uint64 // Written by consumer, sampled by producer

	_pad2 cpu.CacheLinePad

	// Producer-owned
	wbin  uint64
	full  bool
	rsync mirror

	_pad3 cpu.CacheLinePad

	// Consumer-owned
	rbin  uint64
	empty bool
	data  T
	wsync mirror

	_pad4 cpu.CacheLinePad

	// SPSC guards: detect concurrent misuse
	pushActive atomic.Uint32
	popActive  atomic.Uint32
}

// NewCrossDomain creates a CrossDomain queue with the given capacity.
// Capacity must be a positive power of 2.
func NewCrossDomain[T any](capacity int) (*CrossDomain[T], error) {
	if capacity < 1 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrCapacity, capacity)
	}
	n := uint64(capacity)
	return &CrossDomain[T]{
		store:    NewStorage[T](capacity),
		capacity: n,
		ptrMask:  2*n - 1,
		empty:    true,
	}, nil
}

// ProducerStep advances the producer by one step.
//
// SPSC CONTRACT: Only ONE goroutine may call ProducerStep().
func (q *CrossDomain[T]) ProducerStep(reset, push bool, v T) bool {
	if !q.pushActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent ProducerStep on CrossDomain - only one producer allowed")
	}
	defer q.pushActive.Store(0)

	if reset {
		q.wbin = 0
		q.full = false
		q.rsync.clear()
		q.wgray.Store(0)
		return false
	}

	if push && !q.full {
		q.store.Write(q.wbin, v)
		q.wbin = (q.wbin + 1) & q.ptrMask
	}

	// Same slot address, opposite wrap parity.
	q.full = q.wbin^fromGray(q.rsync.stage2) == q.capacity
	q.rsync.shift(q.rgray.Load())

	// Publish after the slot write (store-release via atomic)
	q.wgray.Store(toGray(q.wbin))

	return q.full
}

// ConsumerStep advances the consumer by one step.
//
// SPSC CONTRACT: Only ONE goroutine may call ConsumerStep().
func (q *CrossDomain[T]) ConsumerStep(reset, pop bool) (bool, T) {
	if !q.popActive.CompareAndSwap(0, 1) {
		panic("queue: concurrent ConsumerStep on CrossDomain - only one consumer allowed")
	}
	defer q.popActive.Store(0)

	if reset {
		q.rbin = 0
		q.empty = true
		q.wsync.clear()
		q.rgray.Store(0)
		return true, q.data
	}

	if pop && !q.empty {
		q.data = q.store.Read(q.rbin)
		q.rbin = (q.rbin + 1) & q.ptrMask
	}

	q.empty = q.rbin == fromGray(q.wsync.stage2)
	q.wsync.shift(q.wgray.Load())

	// Release the slot only after it has been read
	q.rgray.Store(toGray(q.rbin))

	return q.empty, q.data
}

// Cap returns the capacity of the queue.
func (q *CrossDomain[T]) Cap() int {
	return int(q.capacity)
}

// ProducerPosition returns the producer's binary position counter.
// Only the producer goroutine may call it.
func (q *CrossDomain[T]) ProducerPosition() uint64 {
	return q.wbin
}

// ProducerMirror returns the consumer counter currently visible to the
// producer. Only the producer goroutine may call it.
func (q *CrossDomain[T]) ProducerMirror() uint64 {
	return fromGray(q.rsync.stage2)
}

// ConsumerPosition returns the consumer's binary position counter.
// Only the consumer goroutine may call it.
func (q *CrossDomain[T]) ConsumerPosition() uint64 {
	return q.rbin
}

// ConsumerMirror returns the producer counter currently visible to the
// consumer. Only the consumer goroutine may call it.
func (q *CrossDomain[T]) ConsumerMirror() uint64 {
	return fromGray(q.wsync.stage2)
}
