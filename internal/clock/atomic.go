package clock

import (
	"sync/atomic"
	"time"
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the current monotonic time in nanoseconds.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

// AtomicTicker uses runtime.nanotime and a CAS on the last tick time.
// It is the step source for a side's hot loop.
type AtomicTicker struct {
	period   int64 // nanoseconds
	lastTick atomic.Int64
}

// NewAtomicTicker creates an AtomicTicker with the given period. The first
// tick is due at now+offset+period, which lets two tickers with equal
// periods run out of phase.
func NewAtomicTicker(period, offset time.Duration) *AtomicTicker {
	t := &AtomicTicker{
		period: int64(period),
	}
	t.lastTick.Store(nanotime() + int64(offset))
	return t
}

// Tick returns true if the period has elapsed since the last tick.
func (a *AtomicTicker) Tick() bool {
	now := nanotime()
	last := a.lastTick.Load()

	if now-last >= a.period {
		// Advance by whole periods so a slow poller does not drift the phase
		next := last + a.period*((now-last)/a.period)
		if a.lastTick.CompareAndSwap(last, next) {
			return true
		}
	}
	return false
}

// Reset starts a new period from now. The start offset is not reapplied.
func (a *AtomicTicker) Reset() {
	a.lastTick.Store(nanotime())
}

// Stop is a no-op for AtomicTicker.
func (a *AtomicTicker) Stop() {}

// Period returns the ticker's period.
func (a *AtomicTicker) Period() time.Duration {
	return time.Duration(a.period)
}
