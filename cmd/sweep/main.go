// Command sweep runs the end-of-day attendance sweep once, for operators
// backfilling a missed night or running it from an external scheduler.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/app"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/config"
)

func main() {
	date := flag.String("date", "", "business day to sweep, YYYY-MM-DD (default: today)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid config:", err)
		os.Exit(1)
	}
	app.SetupLogger(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}

	day := a.Business.Local(a.Clock.Now())
	if *date != "" {
		day, err = a.Business.ParseDate(*date)
		if err != nil {
			a.Close()
			fmt.Fprintln(os.Stderr, "Invalid -date, expected YYYY-MM-DD:", err)
			os.Exit(2)
		}
	}

	report, err := a.Jobs.RunDailySweep(ctx, day)
	// Close flushes the alerts the sweep queued.
	a.Close()
	if err != nil {
		slog.Error("Daily sweep failed", "date", a.Business.DateKey(day), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		slog.Error("Failed to print sweep report", "error", err)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}
