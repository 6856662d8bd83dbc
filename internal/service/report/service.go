package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/export"
)

const recapMonths = 6

type ReportServiceImpl struct {
	records     attendance.AttendanceRepository
	users       user.UserRepository
	branches    branch.BranchRepository
	punishments punishment.PunishmentRepository
	settings    settings.SettingsService
	clock       clock.Clock
	business    clock.Business
}

func NewReportService(
	records attendance.AttendanceRepository,
	users user.UserRepository,
	branches branch.BranchRepository,
	punishments punishment.PunishmentRepository,
	settingsService settings.SettingsService,
	clk clock.Clock,
	business clock.Business,
) report.ReportService {
	return &ReportServiceImpl{
		records:     records,
		users:       users,
		branches:    branches,
		punishments: punishments,
		settings:    settingsService,
		clock:       clk,
		business:    business,
	}
}

// monthRange resolves "YYYY-MM" or, when empty, the current business month.
func (s *ReportServiceImpl) monthRange(month string) (time.Time, time.Time, error) {
	if month == "" {
		start, end := s.business.MonthRange(s.clock.Now())
		return start, end, nil
	}
	start, err := s.business.ParseMonth(month)
	if err != nil {
		return time.Time{}, time.Time{}, report.ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

// Calendar implements report.ReportService.
func (s *ReportServiceImpl) Calendar(ctx context.Context, userID, month string) ([]report.CalendarEntry, error) {
	from, to, err := s.monthRange(month)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	entries := make([]report.CalendarEntry, 0, len(records))
	for _, r := range records {
		entry := report.CalendarEntry{
			Date:      s.business.DateKey(r.Timestamp),
			IsHalfDay: r.IsHalfDay,
			IsLate:    r.IsLate,
			Notes:     r.Notes,
		}
		var fallback string
		switch r.Type {
		case attendance.TypeCheckIn:
			entry.Status = report.StatusOnTime
			entry.Time = s.business.Local(r.Timestamp).Format("15:04")
			fallback = "Tepat Waktu"
			if r.IsLate {
				entry.Status = report.StatusLate
				fallback = "Terlambat"
			}
		case attendance.TypePermit:
			entry.Status, entry.Time, fallback = report.StatusOff, "-", "Izin (Cuti/Keperluan)"
		case attendance.TypeSick:
			entry.Status, entry.Time, fallback = report.StatusOff, "-", "Sakit"
		default:
			continue
		}
		if entry.Notes == nil || *entry.Notes == "" {
			entry.Notes = &fallback
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Recap implements report.ReportService.
func (s *ReportServiceImpl) Recap(ctx context.Context, userID string) ([]report.MonthRecap, error) {
	current, end := s.business.MonthRange(s.clock.Now())
	oldest := current.AddDate(0, -(recapMonths - 1), 0)

	records, err := s.records.ListByUserAndRange(ctx, userID, oldest, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	recaps := make([]report.MonthRecap, 0, recapMonths)
	for i := 0; i < recapMonths; i++ {
		monthStart := current.AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var inMonth []attendance.Record
		for _, r := range records {
			if !r.Timestamp.Before(monthStart) && r.Timestamp.Before(monthEnd) {
				inMonth = append(inMonth, r)
			}
		}

		recap := recapMonth(inMonth, s.business)
		recap.Month = s.business.MonthLabel(monthStart)
		recap.MonthCode = monthStart.Format("2006-01")
		recaps = append(recaps, recap)
	}
	return recaps, nil
}

// MonthlyHistory implements report.ReportService.
func (s *ReportServiceImpl) MonthlyHistory(ctx context.Context, req report.HistoryRequest) ([]report.DayHistory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, to, err := s.monthRange(req.Month)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListByUserAndRange(ctx, req.UserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	buckets := groupByDay(records, s.business)
	history := make([]report.DayHistory, 0, len(buckets))
	for i := len(buckets) - 1; i >= 0; i-- {
		b := buckets[i]
		h := report.DayHistory{
			Date:   b.date,
			Events: make([]attendance.RecordResponse, 0, len(b.day)),
		}
		for _, r := range b.day {
			h.Events = append(h.Events, attendance.ToRecordResponse(r))
		}

		in, out := b.day.Find(attendance.TypeCheckIn), b.day.Find(attendance.TypeCheckOut)
		if in != nil {
			rr := attendance.ToRecordResponse(*in)
			h.CheckIn = &rr
		}
		if out != nil {
			rr := attendance.ToRecordResponse(*out)
			if req.Role == user.RoleHead && in != nil {
				rr.Notes = headDurationNote(in.Timestamp, out.Timestamp, rr.Notes)
			}
			h.CheckOut = &rr
		}
		history = append(history, h)
	}
	return history, nil
}

// headDurationNote appends a short-shift warning for a HEAD who worked
// under eight hours.
func headDurationNote(in, out time.Time, notes *string) *string {
	hours := out.Sub(in).Hours()
	if hours >= headMinimumHours {
		return notes
	}
	msg := fmt.Sprintf("Durasi Kurang 8 jam (%.1fjam)", hours)
	if notes != nil && *notes != "" {
		msg = *notes + " | " + msg
	}
	return &msg
}

// DashboardStats implements report.ReportService.
func (s *ReportServiceImpl) DashboardStats(ctx context.Context, userID string) (report.DashboardStats, error) {
	from, to := s.business.MonthRange(s.clock.Now())
	records, err := s.records.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return report.DashboardStats{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	var stats report.DashboardStats
	for _, r := range records {
		switch r.Type {
		case attendance.TypeCheckIn:
			if r.IsLate {
				stats.Telat++
			} else {
				stats.Hadir++
			}
		case attendance.TypePermit, attendance.TypeSick:
			stats.Izin++
		case attendance.TypeAlpha:
			stats.Alpha++
		}
		if r.IsOvertime {
			stats.Lembur++
		}
	}
	return stats, nil
}

// Leaderboard implements report.ReportService.
func (s *ReportServiceImpl) Leaderboard(ctx context.Context, month string) ([]report.BranchLeaderboard, error) {
	from, to, err := s.monthRange(month)
	if err != nil {
		return nil, err
	}

	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	staff, err := s.users.ListExcludingRoles(ctx, user.RoleOwner, user.RoleSupervisor)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	records, err := s.records.ListByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	byUser := groupByUser(records)

	staffByBranch := map[string][]user.User{}
	for _, u := range staff {
		if u.HasBranch() {
			staffByBranch[*u.BranchID] = append(staffByBranch[*u.BranchID], u)
		}
	}

	result := []report.BranchLeaderboard{}
	for _, br := range branches {
		members := staffByBranch[br.ID]
		if len(members) == 0 {
			continue
		}

		entries := make([]report.LeaderboardEntry, 0, len(members))
		for _, u := range members {
			var present, late int
			for _, r := range byUser[u.ID] {
				if r.Type != attendance.TypeCheckIn {
					continue
				}
				present++
				if r.IsLate {
					late++
				}
			}
			entry := report.LeaderboardEntry{
				UserID:  u.ID,
				Name:    u.Name,
				Present: present,
				Late:    late,
				Score:   score(present, late),
			}
			if present > 0 {
				entry.LatePercentage = float64(late) / float64(present) * 100
			}
			entries = append(entries, entry)
		}

		best, worst := podium(entries)
		result = append(result, report.BranchLeaderboard{
			BranchID:   br.ID,
			BranchName: br.Name,
			Best:       best,
			Worst:      worst,
		})
	}
	return result, nil
}

// DailyMonitoring implements report.ReportService.
func (s *ReportServiceImpl) DailyMonitoring(ctx context.Context) ([]report.MonitoringRow, error) {
	now := s.clock.Now()
	dayStart, dayEnd := s.business.DayRange(now)
	monthStart, monthEnd := s.business.MonthRange(now)

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	records, err := s.records.ListByRange(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}
	points, err := s.punishments.SumByRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to sum punishment points: %w", err)
	}
	threshold := s.settings.MaxPunishmentPoints(ctx)
	byUser := groupByUser(records)

	rows := make([]report.MonitoringRow, 0, len(users))
	for _, u := range users {
		day := attendance.Day(byUser[u.ID])
		row := report.MonitoringRow{
			UserID:      u.ID,
			Name:        u.Name,
			Role:        u.Role,
			Branch:      "-",
			Status:      report.MonitoringAbsent,
			TotalPoints: points[u.ID],
			IsHighRisk:  points[u.ID] > threshold,
		}
		if u.BranchName != nil && *u.BranchName != "" {
			row.Branch = *u.BranchName
		}
		if in := day.Find(attendance.TypeCheckIn); in != nil {
			row.Status = report.MonitoringPresent
			if in.IsLate {
				row.Status = report.MonitoringLate
			}
			ts := in.Timestamp.Format(time.RFC3339)
			row.CheckInTime = &ts
			row.Notes = in.Notes
			row.PhotoURL = in.PhotoURL
		}
		if out := day.Find(attendance.TypeCheckOut); out != nil {
			ts := out.Timestamp.Format(time.RFC3339)
			row.CheckOutTime = &ts
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// BranchRecap implements report.ReportService.
func (s *ReportServiceImpl) BranchRecap(ctx context.Context, req report.BranchRecapRequest) (report.BranchRecap, error) {
	if err := req.Validate(); err != nil {
		return report.BranchRecap{}, err
	}
	from, to, err := s.monthRange(req.Month)
	if err != nil {
		return report.BranchRecap{}, err
	}

	br, err := s.branches.GetByID(ctx, req.BranchID)
	if err != nil {
		return report.BranchRecap{}, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return report.BranchRecap{}, fmt.Errorf("failed to list users: %w", err)
	}
	records, err := s.records.ListByRange(ctx, from, to)
	if err != nil {
		return report.BranchRecap{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	byUser := groupByUser(records)

	var members []user.User
	for _, u := range users {
		if u.HasBranch() && *u.BranchID == br.ID {
			members = append(members, u)
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	rows := make([]report.BranchRecapRow, 0, len(members))
	for _, u := range members {
		hadir, telat, izin, alpha := branchCounts(byUser[u.ID], s.business)
		rows = append(rows, report.BranchRecapRow{
			UserID:       u.ID,
			Name:         u.Name,
			Role:         u.Role,
			Hadir:        hadir,
			Telat:        telat,
			Izin:         izin,
			Alpha:        alpha,
			TotalRecords: len(byUser[u.ID]),
		})
	}

	return report.BranchRecap{
		BranchID:    br.ID,
		BranchName:  br.Name,
		Month:       from.Format("2006-01"),
		PeriodLabel: s.business.MonthLabel(from),
		GeneratedAt: s.clock.Now().Format(time.RFC3339),
		Rows:        rows,
	}, nil
}

// ExportBranchExcel implements report.ReportService.
func (s *ReportServiceImpl) ExportBranchExcel(ctx context.Context, req report.BranchRecapRequest) (report.ExportFile, error) {
	recap, err := s.BranchRecap(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}
	data, err := export.BranchRecapExcel(recap)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}
	return report.ExportFile{
		Filename:    export.Filename(recap.BranchName, recap.Month, "xlsx"),
		ContentType: export.ExcelContentType,
		Data:        data,
	}, nil
}

// ExportBranchPDF implements report.ReportService.
func (s *ReportServiceImpl) ExportBranchPDF(ctx context.Context, req report.BranchRecapRequest) (report.ExportFile, error) {
	recap, err := s.BranchRecap(ctx, req)
	if err != nil {
		return report.ExportFile{}, err
	}
	data, err := export.BranchRecapPDF(recap)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("%w: %w", report.ErrExportFailed, err)
	}
	return report.ExportFile{
		Filename:    export.Filename(recap.BranchName, recap.Month, "pdf"),
		ContentType: export.PDFContentType,
		Data:        data,
	}, nil
}
