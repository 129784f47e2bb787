// Command stepbench measures step throughput of the queue implementations.
//
// Usage:
//
//	go run ./cmd/stepbench -n 10000000 -size 1024
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/randomizedcoder/crossdomain-fifo/internal/queue"
)

// stepPairs runs n producer+consumer step pairs, pushing and popping on
// every step.
func stepPairs(q queue.Queue[int], n int) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		q.ProducerStep(false, true, i)
		q.ConsumerStep(false, true)
	}
	return time.Since(start)
}

func main() {
	iterations := flag.Int("n", 10_000_000, "number of step pairs")
	size := flag.Int("size", 1024, "queue capacity (power of two)")
	flag.Parse()

	cd, err := queue.NewCrossDomain[int](*size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	ref, err := queue.NewReference[int](*size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Benchmarking queue steps (%d step pairs, size=%d)\n", *iterations, *size)
	fmt.Println("─────────────────────────────────────────────────")

	cdDur := stepPairs(cd, *iterations)
	refDur := stepPairs(ref, *iterations)

	cdPerOp := float64(cdDur.Nanoseconds()) / float64(*iterations)
	refPerOp := float64(refDur.Nanoseconds()) / float64(*iterations)

	fmt.Printf("\nResults (producer + consumer step per iteration):\n")
	fmt.Printf("  CrossDomain:  %v (%.2f ns/op)\n", cdDur, cdPerOp)
	fmt.Printf("  Reference:    %v (%.2f ns/op)\n", refDur, refPerOp)

	if cdPerOp < refPerOp {
		fmt.Printf("\n  Speedup:  %.2fx (CrossDomain faster)\n", refPerOp/cdPerOp)
	} else {
		fmt.Printf("\n  Speedup:  %.2fx (Reference faster)\n", cdPerOp/refPerOp)
	}

	fmt.Printf("\nThroughput:\n")
	fmt.Printf("  CrossDomain:  %.2f M step pairs/sec\n", 1000/cdPerOp)
	fmt.Printf("  Reference:    %.2f M step pairs/sec\n", 1000/refPerOp)
}
