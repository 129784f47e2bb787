package cancel

import "context"

// ContextCanceler wraps context.Context for cancellation signaling.
//
// It is done when Cancel is called or when the parent context ends, which
// is how an external deadline reaches a driver.
type ContextCanceler struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewContext creates a ContextCanceler from a parent context.
func NewContext(parent context.Context) *ContextCanceler {
	ctx, cancel := context.WithCancelCause(parent)
	return &ContextCanceler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Done returns true if the context has been cancelled.
//
// This performs a non-blocking select on ctx.Done().
func (c *ContextCanceler) Done() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Cancel triggers cancellation of the context.
func (c *ContextCanceler) Cancel(cause error) {
	if cause == nil {
		cause = ErrCanceled
	}
	c.cancel(cause)
}

// Cause returns why the context ended: the first Cancel cause, or the
// parent's cause such as context.DeadlineExceeded. Nil while not done.
func (c *ContextCanceler) Cause() error {
	return context.Cause(c.ctx)
}

// Context returns the underlying context.Context.
func (c *ContextCanceler) Context() context.Context {
	return c.ctx
}
