package http

import (
	"context"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/cron"
)

type fakeAttendanceService struct {
	checkIns  []attendance.CheckInRequest
	checkOuts []attendance.CheckOutRequest
	permits   []attendance.PermitRequest
	cancelled []attendance.CancelPermitRequest
	err       error
}

func (f *fakeAttendanceService) CheckIn(_ context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	f.checkIns = append(f.checkIns, req)
	if f.err != nil {
		return attendance.CheckInResponse{}, f.err
	}
	return attendance.CheckInResponse{
		Record:   attendance.RecordResponse{UserID: req.UserID, Type: attendance.TypeCheckIn},
		Schedule: "08:00 - 17:00",
	}, nil
}

func (f *fakeAttendanceService) CheckOut(_ context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	f.checkOuts = append(f.checkOuts, req)
	if f.err != nil {
		return attendance.CheckOutResponse{}, f.err
	}
	return attendance.CheckOutResponse{Record: attendance.RecordResponse{UserID: req.UserID, Type: attendance.TypeCheckOut}}, nil
}

func (f *fakeAttendanceService) SubmitPermit(_ context.Context, req attendance.PermitRequest) (attendance.PermitResponse, error) {
	f.permits = append(f.permits, req)
	return attendance.PermitResponse{Record: attendance.RecordResponse{UserID: req.UserID, Type: req.Type}}, f.err
}

func (f *fakeAttendanceService) CancelPermit(_ context.Context, req attendance.CancelPermitRequest) error {
	f.cancelled = append(f.cancelled, req)
	return f.err
}

func (f *fakeAttendanceService) TodayStatus(_ context.Context, userID string) (attendance.TodayStatusResponse, error) {
	return attendance.TodayStatusResponse{Date: "2025-03-10"}, f.err
}

type fakeReportService struct {
	historyReqs []report.HistoryRequest
	recapReqs   []report.BranchRecapRequest
	calendarFor string
	err         error
}

func (f *fakeReportService) Calendar(_ context.Context, userID, month string) ([]report.CalendarEntry, error) {
	f.calendarFor = userID
	return []report.CalendarEntry{}, f.err
}

func (f *fakeReportService) Recap(context.Context, string) ([]report.MonthRecap, error) {
	return []report.MonthRecap{}, f.err
}

func (f *fakeReportService) MonthlyHistory(_ context.Context, req report.HistoryRequest) ([]report.DayHistory, error) {
	f.historyReqs = append(f.historyReqs, req)
	return []report.DayHistory{}, f.err
}

func (f *fakeReportService) DashboardStats(context.Context, string) (report.DashboardStats, error) {
	return report.DashboardStats{}, f.err
}

func (f *fakeReportService) Leaderboard(context.Context, string) ([]report.BranchLeaderboard, error) {
	return []report.BranchLeaderboard{}, f.err
}

func (f *fakeReportService) DailyMonitoring(context.Context) ([]report.MonitoringRow, error) {
	return []report.MonitoringRow{}, f.err
}

func (f *fakeReportService) BranchRecap(_ context.Context, req report.BranchRecapRequest) (report.BranchRecap, error) {
	f.recapReqs = append(f.recapReqs, req)
	return report.BranchRecap{BranchID: req.BranchID}, f.err
}

func (f *fakeReportService) ExportBranchExcel(_ context.Context, req report.BranchRecapRequest) (report.ExportFile, error) {
	f.recapReqs = append(f.recapReqs, req)
	if f.err != nil {
		return report.ExportFile{}, f.err
	}
	return report.ExportFile{
		Filename:    "Rekap_Outlet_Sudirman_" + req.Month + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("xlsx"),
	}, nil
}

func (f *fakeReportService) ExportBranchPDF(_ context.Context, req report.BranchRecapRequest) (report.ExportFile, error) {
	f.recapReqs = append(f.recapReqs, req)
	if f.err != nil {
		return report.ExportFile{}, f.err
	}
	return report.ExportFile{Filename: "rekap.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
}

type fakeLedger struct {
	manual []punishment.ManualEntryRequest
}

func (f *fakeLedger) Append(_ context.Context, e punishment.Entry) (punishment.Entry, error) {
	return e, nil
}

func (f *fakeLedger) TotalPoints(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeLedger) IsHighRisk(context.Context, string, time.Time, time.Time, int) (bool, error) {
	return false, nil
}

func (f *fakeLedger) Threshold(context.Context) int { return 50 }

func (f *fakeLedger) Summary(context.Context, string) (punishment.SummaryResponse, error) {
	return punishment.SummaryResponse{TotalPoints: 7, History: []punishment.EntryResponse{}}, nil
}

func (f *fakeLedger) AddManual(_ context.Context, req punishment.ManualEntryRequest) (punishment.EntryResponse, error) {
	f.manual = append(f.manual, req)
	return punishment.EntryResponse{ID: "entry-1", UserID: req.UserID, Points: req.Points, Reason: req.Reason}, nil
}

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettings) All(context.Context) (map[string]string, error) {
	return f.values, nil
}

func (f *fakeSettings) Upsert(_ context.Context, req settings.UpsertRequest) (settings.Setting, error) {
	f.values[req.Key] = *req.Value
	return settings.Setting{Key: req.Key, Value: *req.Value}, nil
}

func (f *fakeSettings) MaxPunishmentPoints(context.Context) int { return 50 }

type fakeSweeper struct {
	days []time.Time
}

func (f *fakeSweeper) RunDailySweep(_ context.Context, day time.Time) (cron.SweepReport, error) {
	f.days = append(f.days, day)
	return cron.SweepReport{Date: day.Format("2006-01-02"), Processed: 3}, nil
}

type fakeNotifications struct {
	marked []notification.MarkAsReadRequest
}

func (f *fakeNotifications) QueueNotification(context.Context, notification.CreateNotificationRequest) error {
	return nil
}

func (f *fakeNotifications) QueueBulkNotification(context.Context, []notification.CreateNotificationRequest) error {
	return nil
}

func (f *fakeNotifications) GetNotifications(_ context.Context, _ string, page, pageSize int, _ bool) (*notification.NotificationListResponse, error) {
	return &notification.NotificationListResponse{Notifications: []notification.NotificationResponse{}, Page: page, PageSize: pageSize}, nil
}

func (f *fakeNotifications) GetUnreadCount(context.Context, string) (int, error) {
	return 4, nil
}

func (f *fakeNotifications) MarkAsRead(_ context.Context, _ string, req notification.MarkAsReadRequest) error {
	f.marked = append(f.marked, req)
	return nil
}

func (f *fakeNotifications) MarkAllAsRead(context.Context, string) error { return nil }

func (f *fakeNotifications) Delete(context.Context, string, string) error { return nil }

func (f *fakeNotifications) Subscribe(context.Context, string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	close(ch)
	return ch, func() {}
}

func (f *fakeNotifications) Stop() {}
