// Package app wires configuration, storage and services into the object
// graph shared by the API server and the sweep command.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/config"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/service/file"
	notificationService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/notification"
	punishmentService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/punishment"
	reportService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/report"
	scheduleService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/schedule"
	settingsService "github.com/cmlabs-hris/chiko-attendance-go/internal/service/settings"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config   *config.Config
	DB       *database.DB
	Clock    clock.Clock
	Business clock.Business
	JWT      jwt.Service

	Attendance    attendance.AttendanceService
	Reports       report.ReportService
	Ledger        punishment.Ledger
	Settings      settings.SettingsService
	Notifications notification.Service
	Jobs          *cron.AttendanceJobs

	redis *redis.Client
}

// SetupLogger installs the default JSON slog handler at the configured level.
func SetupLogger(cfg config.AppConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "chiko-attendance"), slog.String("env", cfg.Env))
	slog.SetDefault(logger)
}

// New connects to Postgres (and Redis when configured) and builds every
// service. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	business, err := clock.NewBusiness(cfg.Attendance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load business timezone: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &App{
		Config:   cfg,
		DB:       db,
		Clock:    clock.SystemClock{},
		Business: business,
		JWT:      jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration),
	}

	var marker cache.ReminderMarker
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.redis = rdb
		marker = cache.NewRedisMarker(rdb)
	} else {
		slog.Warn("REDIS_ADDR not set, reminder markers are kept in memory")
		marker = cache.NewMemoryMarker()
	}

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
	default:
		a.Close()
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	userRepo := postgresql.NewUserRepository(db)
	branchRepo := postgresql.NewBranchRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db, business)
	punishmentRepo := postgresql.NewPunishmentRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	locker := postgresql.NewDayLocker(db, business)

	a.Notifications = notificationService.NewNotificationService(notificationRepo, sse.NewHub(), notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})
	dispatcher := notificationService.NewDispatcher(userRepo, a.Notifications)

	recorder := auditService.NewRecorder(auditRepo)
	a.Settings = settingsService.NewSettingsService(settingsRepo)
	a.Ledger = punishmentService.NewLedger(punishmentRepo, a.Settings, recorder, a.Clock)
	resolver := scheduleService.NewResolver(shiftRepo, branchRepo)
	fileService := file.NewFileService(fileStorage)

	a.Attendance = attendanceService.NewAttendanceService(
		locker,
		attendanceRepo,
		userRepo,
		branchRepo,
		resolver,
		a.Ledger,
		dispatcher,
		recorder,
		fileService,
		a.Clock,
		business,
	)
	a.Reports = reportService.NewReportService(
		attendanceRepo,
		userRepo,
		branchRepo,
		punishmentRepo,
		a.Settings,
		a.Clock,
		business,
	)
	a.Jobs = cron.NewAttendanceJobs(
		locker,
		attendanceRepo,
		userRepo,
		resolver,
		a.Ledger,
		dispatcher,
		recorder,
		marker,
		a.Clock,
		business,
		cfg.Attendance.SweepWorkers,
	)

	return a, nil
}

// Close flushes queued notifications and closes connections.
func (a *App) Close() {
	if a.Notifications != nil {
		a.Notifications.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
	a.DB.Close()
}
