package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/cron"
	"github.com/go-chi/chi/v5"
)

// DailySweeper runs the end-of-day sweep for one business day.
type DailySweeper interface {
	RunDailySweep(ctx context.Context, day time.Time) (cron.SweepReport, error)
}

type AdminHandler interface {
	Monitoring(w http.ResponseWriter, r *http.Request)
	AddPunishment(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	BranchRecap(w http.ResponseWriter, r *http.Request)
	ExportBranchExcel(w http.ResponseWriter, r *http.Request)
	ExportBranchPDF(w http.ResponseWriter, r *http.Request)
	RunDailySweep(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	reportService   report.ReportService
	ledger          punishment.Ledger
	settingsService settings.SettingsService
	sweeper         DailySweeper
	clock           clock.Clock
	business        clock.Business
}

func NewAdminHandler(
	reportService report.ReportService,
	ledger punishment.Ledger,
	settingsService settings.SettingsService,
	sweeper DailySweeper,
	clk clock.Clock,
	business clock.Business,
) AdminHandler {
	return &adminHandlerImpl{
		reportService:   reportService,
		ledger:          ledger,
		settingsService: settingsService,
		sweeper:         sweeper,
		clock:           clk,
		business:        business,
	}
}

// Monitoring implements AdminHandler.
func (h *adminHandlerImpl) Monitoring(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.DailyMonitoring(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rows)
}

// AddPunishment implements AdminHandler.
func (h *adminHandlerImpl) AddPunishment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req punishment.ManualEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PerformedBy = p.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.ledger.AddManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Punishment recorded", entry)
}

// GetSettings implements AdminHandler.
func (h *adminHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	values, err := h.settingsService.All(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, values)
}

// UpdateSettings implements AdminHandler.
func (h *adminHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settings.UpsertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	setting, err := h.settingsService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Setting updated", setting)
}

// BranchRecap implements AdminHandler.
func (h *adminHandlerImpl) BranchRecap(w http.ResponseWriter, r *http.Request) {
	recap, err := h.reportService.BranchRecap(r.Context(), h.branchRecapRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, recap)
}

// ExportBranchExcel implements AdminHandler.
func (h *adminHandlerImpl) ExportBranchExcel(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportBranchExcel(r.Context(), h.branchRecapRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}

// ExportBranchPDF implements AdminHandler.
func (h *adminHandlerImpl) ExportBranchPDF(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportBranchPDF(r.Context(), h.branchRecapRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}

// RunDailySweep implements AdminHandler. ?date=YYYY-MM-DD defaults to the
// current business day.
func (h *adminHandlerImpl) RunDailySweep(w http.ResponseWriter, r *http.Request) {
	day := h.business.Local(h.clock.Now())
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := h.business.ParseDate(date)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		day = parsed
	}

	result, err := h.sweeper.RunDailySweep(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Manual daily sweep completed", "date", result.Date, "processed", result.Processed)
	response.SuccessWithMessage(w, "Daily sweep completed", result)
}

func (h *adminHandlerImpl) branchRecapRequest(r *http.Request) report.BranchRecapRequest {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.business.Local(h.clock.Now()).Format("2006-01")
	}
	return report.BranchRecapRequest{
		BranchID: chi.URLParam(r, "branchID"),
		Month:    month,
	}
}
