package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/app"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/cron"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
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
	defer a.Close()

	scheduler := cron.NewScheduler()
	if err := a.Jobs.RegisterJobs(scheduler, cfg.Attendance.DailySweepAt, cfg.Attendance.ReminderInterval); err != nil {
		slog.Error("Failed to register cron jobs", "error", err)
		a.Close()
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(a.Attendance, a.Reports, a.Ledger, a.Clock, a.Business)
	adminHandler := appHTTP.NewAdminHandler(a.Reports, a.Ledger, a.Settings, a.Jobs, a.Clock, a.Business)
	notificationHandler := appHTTP.NewNotificationHandler(a.Notifications, a.JWT)

	uploadsDir := ""
	if cfg.Storage.Type == "local" {
		uploadsDir = cfg.Storage.BasePath
	}
	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
			UploadsDir:  uploadsDir,
		},
		a.JWT,
		attendanceHandler,
		adminHandler,
		notificationHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.Attendance.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
