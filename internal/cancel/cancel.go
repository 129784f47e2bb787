// Package cancel provides abort signalling for the queue drivers.
//
// This package offers two implementations of the Canceler interface:
//   - AtomicCanceler: atomic flag polled on every step of a hot loop
//   - ContextCanceler: context.Context wrapper for external deadlines
//
// The atomic approach is what a driver checks per step; the context is
// polled only every few thousand steps because a channel select costs an
// order of magnitude more than an atomic load.
package cancel

// Canceler provides abort signalling to drivers.
//
// Implementations must be safe for concurrent use:
//   - Multiple goroutines may call Done() and Cause() concurrently
//   - Cancel() may be called concurrently with Done()
type Canceler interface {
	// Done returns true if cancellation has been triggered.
	Done() bool

	// Cancel triggers cancellation. Only the first cause is kept.
	Cancel(cause error)

	// Cause returns the first cause passed to Cancel, or nil.
	Cause() error
}
