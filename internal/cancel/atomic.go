package cancel

import (
	"errors"
	"sync/atomic"
)

// ErrCanceled is the cause reported when Cancel is called with nil.
var ErrCanceled = errors.New("cancel: canceled")

// AtomicCanceler uses an atomic.Bool for cancellation signaling and keeps
// the first cause.
//
// Each call to Done() performs a single atomic load, cheap enough to call
// on every step of a driver loop.
type AtomicCanceler struct {
	done  atomic.Bool
	cause atomic.Pointer[error]
}

// NewAtomic creates a new AtomicCanceler.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// Done returns true if cancellation has been triggered.
func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel triggers cancellation.
//
// Safe to call multiple times; only the first cause is kept.
func (a *AtomicCanceler) Cancel(cause error) {
	if cause == nil {
		cause = ErrCanceled
	}
	// Publish the cause before the flag so Done() implies Cause() != nil
	a.cause.CompareAndSwap(nil, &cause)
	a.done.Store(true)
}

// Cause returns the first cause passed to Cancel, or nil.
func (a *AtomicCanceler) Cause() error {
	if p := a.cause.Load(); p != nil {
		return *p
	}
	return nil
}

// Reset clears the cancellation flag and cause.
//
// Not safe to call concurrently with Done() or Cancel().
func (a *AtomicCanceler) Reset() {
	a.done.Store(false)
	a.cause.Store(nil)
}
