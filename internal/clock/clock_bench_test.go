package clock_test

import (
	"testing"
	"time"

	"github.com/randomizedcoder/crossdomain-fifo/internal/clock"
)

// Long interval so Tick() returns false (we're measuring check overhead)
const benchInterval = time.Hour

// Sink variable to prevent compiler from eliminating benchmark loops
var sinkTick bool

func BenchmarkTick_Std_Direct(b *testing.B) {
	t := clock.NewTicker(benchInterval)
	defer t.Stop()
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = t.Tick()
	}
	sinkTick = result
}

func BenchmarkTick_Atomic_Direct(b *testing.B) {
	t := clock.NewAtomicTicker(benchInterval, 0)
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = t.Tick()
	}
	sinkTick = result
}

func BenchmarkTick_Atomic_Interface(b *testing.B) {
	var t clock.Ticker = clock.NewAtomicTicker(benchInterval, 0)
	b.ReportAllocs()
	b.ResetTimer()

	var result bool
	for i := 0; i < b.N; i++ {
		result = t.Tick()
	}
	sinkTick = result
}

func BenchmarkSchedule_Next(b *testing.B) {
	s := clock.NewSchedule(3, 7, 1)
	b.ReportAllocs()
	b.ResetTimer()

	var d clock.Domain
	for i := 0; i < b.N; i++ {
		d, _ = s.Next()
	}
	sinkTick = d == clock.Domain1
}
