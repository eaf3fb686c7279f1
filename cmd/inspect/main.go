// Command inspect runs a synthetic handle workload and displays the live
// control-block table, either as a final summary or as an interactive
// view. It exists to demonstrate and debug lifecycle tracking: every
// handle the workload creates reports into a track.Registry.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/sharedref"
	"github.com/wippyai/sharedref/track"
)

func main() {
	var (
		workers     = flag.Int("workers", 4, "Concurrent workers churning handles")
		duration    = flag.Duration("duration", 5*time.Second, "How long to run (non-interactive mode)")
		metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Log every lifecycle event (non-interactive mode)")
	)
	flag.Parse()

	if err := run(*workers, *duration, *metricsAddr, *interactive, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(workers int, duration time.Duration, metricsAddr string, interactive, debug bool) error {
	reg := track.NewRegistry()

	metrics := track.NewMetrics()
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	reg.Subscribe(metrics)

	if debug && !interactive {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer logger.Sync()
		sharedref.SetLogger(logger)
		reg.Subscribe(track.NewLogObserver(logger))
	}

	if metricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(metricsAddr, promhttp.Handler()); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
	}

	wl := newWorkload(reg, workers)
	wl.start()

	if interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			wl.stop()
			return fmt.Errorf("interactive mode needs a terminal")
		}
		err := runInteractive(reg)
		wl.stop()
		return err
	}

	time.Sleep(duration)
	wl.stop()

	stats := reg.Stats()
	fmt.Printf("Workers:        %d\n", workers)
	fmt.Printf("Allocated:      %d\n", stats.Allocated)
	fmt.Printf("Destroyed:      %d\n", stats.Destroyed)
	fmt.Printf("Freed:          %d\n", stats.Freed)
	fmt.Printf("Promoted:       %d\n", stats.Promoted)
	fmt.Printf("Promote misses: %d\n", stats.PromoteMisses)
	fmt.Printf("Live blocks:    %d\n", stats.Live)

	if stats.Live != 0 {
		fmt.Println("\nLeaked blocks:")
		for _, rec := range reg.Snapshot() {
			fmt.Printf("  #%d %s (%s, destroyed=%v)\n",
				rec.Block, rec.Label, rec.Mode, rec.Destroyed)
		}
		return fmt.Errorf("%d blocks still alive after shutdown", stats.Live)
	}
	return nil
}
