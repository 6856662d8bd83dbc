package http

import (
	"net/http"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	SubmitPermit(w http.ResponseWriter, r *http.Request)
	CancelPermit(w http.ResponseWriter, r *http.Request)

	Calendar(w http.ResponseWriter, r *http.Request)
	Recap(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Points(w http.ResponseWriter, r *http.Request)
	Leaderboard(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
	ledger            punishment.Ledger
	clock             clock.Clock
	business          clock.Business
}

func NewAttendanceHandler(
	attendanceService attendance.AttendanceService,
	reportService report.ReportService,
	ledger punishment.Ledger,
	clk clock.Clock,
	business clock.Business,
) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
		ledger:            ledger,
		clock:             clk,
		business:          business,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.CheckInRequest
	photo, cleanup, ok := decodeAttendanceForm(w, r, &req)
	defer cleanup()
	if !ok {
		return
	}
	req.UserID = p.UserID
	req.Photo = photo

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.CheckOutRequest
	photo, cleanup, ok := decodeAttendanceForm(w, r, &req)
	defer cleanup()
	if !ok {
		return
	}
	req.UserID = p.UserID
	req.Photo = photo

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	status, err := h.attendanceService.TodayStatus(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// SubmitPermit implements AttendanceHandler.
func (h *attendanceHandlerImpl) SubmitPermit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req attendance.PermitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = p.UserID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.SubmitPermit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Permit submitted", result)
}

// CancelPermit implements AttendanceHandler.
func (h *attendanceHandlerImpl) CancelPermit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	req := attendance.CancelPermitRequest{UserID: p.UserID, Date: chi.URLParam(r, "date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.CancelPermit(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Permit cancelled", nil)
}

// Calendar implements AttendanceHandler.
func (h *attendanceHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	entries, err := h.reportService.Calendar(r.Context(), p.UserID, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}

// Recap implements AttendanceHandler.
func (h *attendanceHandlerImpl) Recap(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	recaps, err := h.reportService.Recap(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, recaps)
}

// History implements AttendanceHandler. month defaults to the current
// business month.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.business.Local(h.clock.Now()).Format("2006-01")
	}

	history, err := h.reportService.MonthlyHistory(r.Context(), report.HistoryRequest{
		UserID: p.UserID,
		Role:   p.Role,
		Month:  month,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, history)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	stats, err := h.reportService.DashboardStats(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// Points implements AttendanceHandler.
func (h *attendanceHandlerImpl) Points(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.ledger.Summary(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// Leaderboard implements AttendanceHandler.
func (h *attendanceHandlerImpl) Leaderboard(w http.ResponseWriter, r *http.Request) {
	boards, err := h.reportService.Leaderboard(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, boards)
}
