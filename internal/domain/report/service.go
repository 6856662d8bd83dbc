package report

import "context"

// ReportService builds read-only views over attendance records and the
// punishment ledger. An empty month means the current business month.
type ReportService interface {
	// Calendar lists check-ins and permits of one month for a user
	Calendar(ctx context.Context, userID, month string) ([]CalendarEntry, error)

	// Recap summarizes the last six months, newest first
	Recap(ctx context.Context, userID string) ([]MonthRecap, error)

	// MonthlyHistory groups a month of records by day, newest first
	MonthlyHistory(ctx context.Context, req HistoryRequest) ([]DayHistory, error)

	// DashboardStats counts this month's records by kind
	DashboardStats(ctx context.Context, userID string) (DashboardStats, error)

	// Leaderboard ranks staff per branch for a month
	Leaderboard(ctx context.Context, month string) ([]BranchLeaderboard, error)

	// DailyMonitoring shows everyone's status today with month-to-date points
	DailyMonitoring(ctx context.Context) ([]MonitoringRow, error)

	// BranchRecap counts hadir/telat/izin/alpha per employee of a branch
	BranchRecap(ctx context.Context, req BranchRecapRequest) (BranchRecap, error)

	// ExportBranchExcel renders BranchRecap as a spreadsheet
	ExportBranchExcel(ctx context.Context, req BranchRecapRequest) (ExportFile, error)

	// ExportBranchPDF renders BranchRecap as a PDF table
	ExportBranchPDF(ctx context.Context, req BranchRecapRequest) (ExportFile, error)
}
