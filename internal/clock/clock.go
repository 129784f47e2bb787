// Package clock provides the step sources that pace each side of the queue.
//
// A Ticker tells a driver loop when its next step is due:
//   - AtomicTicker: atomic timestamp comparison using runtime.nanotime,
//     with an optional start offset so two sides run out of phase
//   - StdTicker: time.Ticker wrapper, used for low-rate progress reports
//   - FreeRun: always due; the side steps as fast as it can
//
// Schedule is the virtual-time counterpart used by the lockstep driver.
package clock

import "time"

// Ticker signals when a step is due.
//
// Tick is polled from one goroutine in a hot loop; Reset and Stop may be
// called from the same goroutine only.
type Ticker interface {
	// Tick returns true if the period has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset starts a new period from now.
	Reset()

	// Stop releases any resources held by the ticker.
	Stop()
}

// New returns the Ticker for a step period. A zero or negative period
// returns FreeRun; otherwise an AtomicTicker whose first tick is delayed
// by offset.
func New(period, offset time.Duration) Ticker {
	if period <= 0 {
		return FreeRun{}
	}
	return NewAtomicTicker(period, offset)
}

// FreeRun is always due.
type FreeRun struct{}

func (FreeRun) Tick() bool { return true }
func (FreeRun) Reset()     {}
func (FreeRun) Stop()      {}
