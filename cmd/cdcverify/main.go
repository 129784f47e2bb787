// Command cdcverify runs the cross-domain queue against its reference
// model until coverage closes, a check fails, or the timeout expires.
//
// Usage:
//
//	go run ./cmd/cdcverify -capacity 8 -mode concurrent -timeout 1m
//	go run ./cmd/cdcverify -config run.yaml -seed 42 -v
//
// Exit status is 0 when coverage closes, 1 on an oracle mismatch, and 2 on
// a timeout or a bad configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/randomizedcoder/crossdomain-fifo/internal/config"
	"github.com/randomizedcoder/crossdomain-fifo/internal/harness"
	"github.com/randomizedcoder/crossdomain-fifo/internal/oracle"
)

const (
	exitDone     = 0
	exitMismatch = 1
	exitStopped  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "YAML configuration file")
	capacity := flag.Int("capacity", 0, "queue capacity, a power of two (overrides config)")
	width := flag.Int("width", 0, "payload width in bits (overrides config)")
	seed := flag.Uint64("seed", 0, "random seed, 0 for time-derived (overrides config)")
	mode := flag.String("mode", "", "driver: concurrent or lockstep (overrides config)")
	timeout := flag.Duration("timeout", -1, "run timeout, 0 for none (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitStopped
		}
	}
	if *capacity != 0 {
		cfg.Capacity = *capacity
	}
	if *width != 0 {
		cfg.Width = *width
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *mode != "" {
		cfg.Mode = config.Mode(*mode)
	}
	if *timeout >= 0 {
		cfg.Timeout = *timeout
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitStopped
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	h, err := harness.New(cfg, harness.Options{Logger: logger})
	if err != nil {
		slog.Error("setup failed", slog.Any("error", err))
		return exitStopped
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := h.Run(ctx)
	printReport(report)

	switch {
	case errors.Is(err, oracle.ErrMismatch):
		fmt.Printf("\nFAIL: %v\n", err)
		return exitMismatch
	case err != nil:
		fmt.Printf("\nSTOPPED: %v\n", err)
		return exitStopped
	}
	fmt.Println("\nPASS: coverage closed")
	return exitDone
}

func printReport(r harness.Report) {
	fmt.Printf("Cross-domain queue verification (%s, seed=%d)\n", r.Mode, r.Seed)
	fmt.Println("─────────────────────────────────────────────────")
	fmt.Printf("  Run ID:          %s\n", r.RunID)
	fmt.Printf("  Phase:           %s\n", r.Phase)
	fmt.Printf("  Producer steps:  %d\n", r.ProducerSteps)
	fmt.Printf("  Consumer steps:  %d\n", r.ConsumerSteps)
	fmt.Printf("  Pushes accepted: %d\n", r.Pushed)
	fmt.Printf("  Pops accepted:   %d\n", r.Popped)
	fmt.Printf("  Write coverage:  %6.2f%%\n", r.WritePercent)
	fmt.Printf("  Read coverage:   %6.2f%%\n", r.ReadPercent)
	if r.TraceDropped > 0 {
		fmt.Printf("  Trace dropped:   %d\n", r.TraceDropped)
	}
	fmt.Printf("  Elapsed:         %v\n", r.Elapsed.Round(time.Microsecond))
}
