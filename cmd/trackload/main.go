// trackload hammers a registry with tracking handles and reports the
// sustained throughput. Its main knob compares the two lookup styles: a
// tracker cached once per worker against a registry lookup per operation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"

	"github.com/momentohq/resourcetrack/core/report"
	"github.com/momentohq/resourcetrack/core/snapshot"
	"github.com/momentohq/resourcetrack/core/track"
)

var CLI struct {
	Categories int           `short:"c" help:"Number of categories to spread load over" default:"8"`
	Workers    int           `short:"w" help:"Number of worker goroutines" default:"8"`
	Duration   time.Duration `short:"d" help:"How long to run" default:"10s"`
	Sized      bool          `help:"Churn sized handles with add/set instead of plain counts"`
	Uncached   bool          `help:"Look the tracker up in the registry on every operation"`
	Report     time.Duration `help:"Interval for logging live counts while running (0 disables)" default:"1s"`
	Verbose    bool          `short:"v" help:"Enable verbose logging"`
}

const opsPerBatch = 256

func main() {
	ktx := kong.Parse(&CLI,
		kong.Name("trackload"),
		kong.Description("Load generator for live resource accounting."),
	)
	if CLI.Categories < 1 || CLI.Workers < 1 {
		ktx.Fatalf("categories and workers must be at least 1")
	}

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, CLI.Duration)
	defer cancelTimeout()

	fmt.Printf("categories: %d\n", CLI.Categories)
	fmt.Printf("   workers: %d\n", CLI.Workers)
	fmt.Printf("     sized: %t\n", CLI.Sized)
	fmt.Printf("  uncached: %t\n", CLI.Uncached)

	reg := track.NewRegistry[int]()
	trackers := make([]track.Tracker, CLI.Categories)
	for i := range trackers {
		trackers[i] = reg.Category(i)
	}

	// === live reporting ===

	var wgReport sync.WaitGroup
	if CLI.Report > 0 {
		r, err := report.New[int](report.Options[int]{
			Source:   snapshot.NewReader[int](reg, snapshot.WithMaxStaleness(CLI.Report/2)),
			Interval: CLI.Report,
			Log:      log,
		})
		if err != nil {
			log.Error("failed to create reporter", slog.Any("error", err))
			os.Exit(1)
		}
		wgReport.Add(1)
		go func() {
			defer wgReport.Done()
			_ = r.Run(ctx)
		}()
	}

	// === workers ===

	var ops atomic.Int64
	startAt := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < CLI.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for ctx.Err() == nil {
				// Batch the context check out of the hot loop.
				for i := 0; i < opsPerBatch; i++ {
					oneOp(reg, trackers, rng)
				}
				ops.Add(opsPerBatch)
			}
		}(int64(w) + 1)
	}
	wg.Wait()
	cancel()
	wgReport.Wait()

	// === stats ===

	took := time.Since(startAt)
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	println("")
	println("==========================================")
	fmt.Printf("total runtime: %.3f seconds\n", took.Seconds())
	fmt.Printf("    total ops: %d\n", ops.Load())
	fmt.Printf("   avg. ops/s: %d\n", int(float64(ops.Load())/took.Seconds()))
	fmt.Printf("    mem (sys): %d MiB\n", m.Sys/1024/1024)
	fmt.Printf(" final counts: %s\n", reg)
}

func oneOp(reg *track.Registry[int], trackers []track.Tracker, rng *rand.Rand) {
	i := rng.Intn(len(trackers))

	var tracker track.Tracker
	if CLI.Uncached {
		tracker = reg.Category(i)
	} else {
		tracker = trackers[i]
	}

	if CLI.Sized {
		s := tracker.TrackSized(int64(rng.Intn(4096)))
		s.Add(int64(rng.Intn(512)))
		s.Set(int64(rng.Intn(8192)))
		s.Release()
		return
	}

	tracker.Track().Release()
}
