package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the values that differ between deployments.
type RouterOptions struct {
	Env         string
	FrontendURL string
	// UploadsDir is served at /uploads when set.
	UploadsDir string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	adminHandler AdminHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "chiko-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{opts.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		// SSE authenticates with a short-lived query token
		r.Get("/notifications/stream", notificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceCreate))
					r.Post("/check-in", attendanceHandler.CheckIn)
					r.Post("/check-out", attendanceHandler.CheckOut)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionPermitSubmit))
					r.Post("/permits", attendanceHandler.SubmitPermit)
					r.Delete("/permits/{date}", attendanceHandler.CancelPermit)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/today", attendanceHandler.Today)
					r.Get("/calendar", attendanceHandler.Calendar)
					r.Get("/recap", attendanceHandler.Recap)
					r.Get("/history", attendanceHandler.History)
					r.Get("/stats", attendanceHandler.Stats)
					r.Get("/points", attendanceHandler.Points)
					r.Get("/leaderboard", attendanceHandler.Leaderboard)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionMonitoringView)).
					Get("/monitoring", adminHandler.Monitoring)
				r.With(middleware.RequirePermission(user.PermissionPunishmentManage)).
					Post("/punishments", adminHandler.AddPunishment)

				r.Route("/settings", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
					r.Get("/", adminHandler.GetSettings)
					r.Put("/", adminHandler.UpdateSettings)
				})

				r.Route("/reports/branches/{branchID}", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionReportsView))
					r.Get("/", adminHandler.BranchRecap)
					r.Get("/excel", adminHandler.ExportBranchExcel)
					r.Get("/pdf", adminHandler.ExportBranchPDF)
				})

				r.With(middleware.RequirePermission(user.PermissionSweepRun)).
					Post("/sweeps/daily", adminHandler.RunDailySweep)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Put("/read", notificationHandler.MarkAsRead)
				r.Put("/read-all", notificationHandler.MarkAllAsRead)
				r.Delete("/{id}", notificationHandler.Delete)
				r.Get("/sse-token", notificationHandler.GetSSEToken)
			})
		})
	})
	return r
}
