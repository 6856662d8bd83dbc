package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/cache"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	auditsvc "github.com/cmlabs-hris/chiko-attendance-go/internal/service/audit"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// alphaFallbackOffset places a swept ALPHA at 23:55 when the sweep runs
	// for a day other than today.
	alphaFallbackOffset = 23*time.Hour + 55*time.Minute

	reminderCheckout = "checkout"
	reminderOvertime = "overtime"

	checkoutReminderWindow = 5
	overtimePromptStart    = 180
	overtimePromptEnd      = 185
)

// dayOutcome is what the nightly sweep decides for one user and day.
type dayOutcome int

const (
	outcomeSkip dayOutcome = iota
	outcomeComplete
	outcomeNoShow
	outcomeForgotCheckout
)

// classifyDay applies the reconciliation rules to one user's day.
func classifyDay(day attendance.Day) dayOutcome {
	switch {
	case day.Marker() != nil:
		return outcomeSkip
	case !day.Has(attendance.TypeCheckIn):
		return outcomeNoShow
	case !day.Has(attendance.TypeCheckOut):
		return outcomeForgotCheckout
	}
	return outcomeComplete
}

// SweepReport summarizes one daily sweep run.
type SweepReport struct {
	Date           string `json:"date"`
	Processed      int    `json:"processed"`
	NoShow         int    `json:"no_show"`
	ForgotCheckout int    `json:"forgot_checkout"`
	Skipped        int    `json:"skipped"`
	Failed         int    `json:"failed"`
}

// ReminderReport summarizes one reminder sweep run.
type ReminderReport struct {
	Open              int `json:"open"`
	CheckoutReminders int `json:"checkout_reminders"`
	OvertimePrompts   int `json:"overtime_prompts"`
}

type AttendanceJobs struct {
	locker     attendance.DayLocker
	records    attendance.AttendanceRepository
	users      user.UserRepository
	resolver   schedule.Resolver
	ledger     punishment.Ledger
	dispatcher notification.Dispatcher
	audit      *auditsvc.Recorder
	marker     cache.ReminderMarker
	clock      clock.Clock
	business   clock.Business
	workers    int
}

func NewAttendanceJobs(
	locker attendance.DayLocker,
	records attendance.AttendanceRepository,
	users user.UserRepository,
	resolver schedule.Resolver,
	ledger punishment.Ledger,
	dispatcher notification.Dispatcher,
	recorder *auditsvc.Recorder,
	marker cache.ReminderMarker,
	clk clock.Clock,
	business clock.Business,
	workers int,
) *AttendanceJobs {
	if workers < 1 {
		workers = 1
	}
	return &AttendanceJobs{
		locker:     locker,
		records:    records,
		users:      users,
		resolver:   resolver,
		ledger:     ledger,
		dispatcher: dispatcher,
		audit:      recorder,
		marker:     marker,
		clock:      clk,
		business:   business,
		workers:    workers,
	}
}

// RegisterJobs schedules the nightly sweep at dailyAt ("HH:mm" business
// time) and the reminder sweep every reminderInterval.
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, dailyAt string, reminderInterval time.Duration) error {
	err := scheduler.AddDailyJob("daily_alpha_sweep", dailyAt, j.business.Location, func(ctx context.Context) error {
		_, err := j.RunDailySweep(ctx, j.clock.Now())
		return err
	})
	if err != nil {
		return err
	}
	scheduler.AddJob("checkout_reminder_sweep", reminderInterval, func(ctx context.Context) error {
		_, err := j.RunReminderSweep(ctx)
		return err
	})
	return nil
}

// RunDailySweep marks every non-OWNER user without a closed day as ALPHA for
// the business day containing day. Running it twice for the same day is a
// no-op the second time.
func (j *AttendanceJobs) RunDailySweep(ctx context.Context, day time.Time) (SweepReport, error) {
	now := j.clock.Now()
	dayStart, dayEnd := j.business.DayRange(day)
	report := SweepReport{Date: j.business.DateKey(dayStart)}

	stamp := now
	if now.Before(dayStart) || !now.Before(dayEnd) {
		stamp = dayStart.Add(alphaFallbackOffset)
	}

	users, err := j.users.ListExcludingRoles(ctx, user.RoleOwner)
	if err != nil {
		return report, fmt.Errorf("failed to list users for sweep: %w", err)
	}

	slog.Info("Cron: Starting daily alpha sweep", "date", report.Date, "users", len(users))

	var noShow, forgot, skipped, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.workers)

	for _, u := range users {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome, err := j.sweepUser(gctx, u, dayStart, dayEnd, stamp)
			if err != nil {
				failed.Add(1)
				slog.Error("Cron: Failed to sweep user", "user_id", u.ID, "date", report.Date, "error", err)
				return nil
			}
			switch outcome {
			case outcomeNoShow:
				noShow.Add(1)
			case outcomeForgotCheckout:
				forgot.Add(1)
			case outcomeSkip:
				skipped.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Processed = len(users)
	report.NoShow = int(noShow.Load())
	report.ForgotCheckout = int(forgot.Load())
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())

	slog.Info("Cron: Daily alpha sweep completed",
		"date", report.Date,
		"processed", report.Processed,
		"no_show", report.NoShow,
		"forgot_checkout", report.ForgotCheckout,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("daily sweep interrupted: %w", err)
	}
	return report, nil
}

func (j *AttendanceJobs) sweepUser(ctx context.Context, u user.User, dayStart, dayEnd, stamp time.Time) (dayOutcome, error) {
	var (
		outcome dayOutcome
		created attendance.Record
	)
	err := j.locker.WithDayLock(ctx, u.ID, dayStart, func(txCtx context.Context) error {
		records, err := j.records.ListByUserAndRange(txCtx, u.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		outcome = classifyDay(attendance.Day(records))

		var (
			notes  string
			reason string
			points int
		)
		switch outcome {
		case outcomeNoShow:
			notes = "Tidak Absen (Auto Alpha)"
			reason = "Alpha (Tidak Masuk Tanpa Keterangan)"
			points = punishment.PointsNoShow
		case outcomeForgotCheckout:
			notes = "Lupa Absen Pulang (Auto Alpha)"
			reason = "Alpha (Lupa Absen Pulang)"
			points = punishment.PointsForgotCheckout
		default:
			return nil
		}

		created, err = j.records.Create(txCtx, attendance.Record{
			ID:        uuid.New().String(),
			UserID:    u.ID,
			Type:      attendance.TypeAlpha,
			Timestamp: stamp,
			DeviceID:  attendance.DeviceScheduler,
			Notes:     &notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create alpha record: %w", err)
		}
		if _, err := j.ledger.Append(txCtx, punishment.Entry{
			UserID: u.ID,
			Points: points,
			Reason: reason,
			Date:   stamp,
		}); err != nil {
			return fmt.Errorf("failed to append alpha punishment: %w", err)
		}
		return nil
	})
	if err != nil {
		return outcome, err
	}

	switch outcome {
	case outcomeNoShow:
		j.audit.Record(ctx, audit.ActionDailySweepAlpha, attendance.DeviceScheduler, &created.ID, "no show: "+u.ID)
		j.dispatcher.NotifyUsers(ctx, []string{u.ID}, notification.Message{
			Type:  notification.TypeAlphaAlert,
			Title: "Terhitung Alpha",
			Body:  fmt.Sprintf("Anda tidak melakukan absensi hari ini. Sistem mencatat sebagai Alpha (-%d Poin).", punishment.PointsNoShow),
			Data:  map[string]interface{}{"type": "ALPHA_ALERT", "attendance_id": created.ID},
		})
	case outcomeForgotCheckout:
		j.audit.Record(ctx, audit.ActionDailySweepAlpha, attendance.DeviceScheduler, &created.ID, "forgot checkout: "+u.ID)
		j.dispatcher.NotifyUsers(ctx, []string{u.ID}, notification.Message{
			Type:  notification.TypeAlphaAlert,
			Title: "Lupa Absen Pulang",
			Body:  fmt.Sprintf("Anda tidak melakukan absen pulang hari ini. Sistem mencatat sebagai Alpha (-%d Poin).", punishment.PointsForgotCheckout),
			Data:  map[string]interface{}{"type": "ALPHA_ALERT", "attendance_id": created.ID},
		})
	}
	return outcome, nil
}

// reminderKind picks the reminder due delta minutes after the shift end.
func reminderKind(delta int) string {
	switch {
	case delta >= 0 && delta <= checkoutReminderWindow:
		return reminderCheckout
	case delta >= overtimePromptStart && delta <= overtimePromptEnd:
		return reminderOvertime
	}
	return ""
}

// RunReminderSweep nudges users who are still checked in around the end of
// their shift. Each kind fires at most once per user and day.
func (j *AttendanceJobs) RunReminderSweep(ctx context.Context) (ReminderReport, error) {
	now := j.clock.Now()
	dayStart, dayEnd := j.business.DayRange(now)
	// Yesterday's check-ins stay in scope for shifts whose windows cross midnight.
	yesterdayStart, _ := j.business.DayRange(dayStart.Add(-time.Hour))

	open, err := j.records.ListOpenCheckIns(ctx, yesterdayStart, dayEnd)
	if err != nil {
		return ReminderReport{}, fmt.Errorf("failed to list open check-ins: %w", err)
	}
	report := ReminderReport{Open: len(open)}

	for _, checkIn := range open {
		hours, err := j.reminderHours(ctx, checkIn)
		if err != nil {
			slog.Error("Cron: Failed to resolve hours for reminder", "user_id", checkIn.UserID, "error", err)
			continue
		}

		checkInDay, _ := j.business.DayRange(checkIn.Timestamp)
		shiftEnd := checkInDay.Add(time.Duration(hours.End) * time.Minute)
		kind := reminderKind(int(now.Sub(shiftEnd).Minutes()))
		if kind == "" {
			continue
		}
		date := j.business.DateKey(checkIn.Timestamp)

		first, err := j.marker.MarkOnce(ctx, cache.ReminderKey(checkIn.UserID, date, kind), cache.ReminderTTL)
		if err != nil {
			// Fail open: a duplicate reminder beats a missed one.
			slog.Warn("Cron: Reminder marker unavailable", "user_id", checkIn.UserID, "kind", kind, "error", err)
		} else if !first {
			continue
		}

		switch kind {
		case reminderCheckout:
			report.CheckoutReminders++
			j.dispatcher.NotifyUsers(ctx, []string{checkIn.UserID}, notification.Message{
				Type:  notification.TypeCheckoutReminder,
				Title: "Waktunya Pulang",
				Body:  fmt.Sprintf("Shift %s berakhir jam %s. Jangan lupa Absen Pulang!", hours.Label, hours.EndHour),
				Data:  map[string]interface{}{"type": "CHECKOUT_REMINDER", "date": date},
			})
		case reminderOvertime:
			report.OvertimePrompts++
			j.dispatcher.NotifyUsers(ctx, []string{checkIn.UserID}, notification.Message{
				Type:  notification.TypeOvertimePrompt,
				Title: "Klaim Lembur?",
				Body:  fmt.Sprintf("Anda masih tercatat bekerja 3 jam setelah shift %s berakhir (%s). Absen pulang untuk mencatat lembur.", hours.Label, hours.EndHour),
				Data:  map[string]interface{}{"type": "OVERTIME_PROMPT", "date": date},
			})
		}
	}

	if report.CheckoutReminders > 0 || report.OvertimePrompts > 0 {
		slog.Info("Cron: Reminder sweep sent notifications",
			"checkout_reminders", report.CheckoutReminders,
			"overtime_prompts", report.OvertimePrompts,
		)
	}
	return report, nil
}

// reminderHours uses the shift nearest to the check-in and falls back to the
// user's effective hours when no shift is declared.
func (j *AttendanceJobs) reminderHours(ctx context.Context, checkIn attendance.Record) (schedule.Hours, error) {
	_, hours, ok, err := j.resolver.NearestShift(ctx, j.business.MinuteOfDay(checkIn.Timestamp))
	if err != nil {
		return schedule.Hours{}, err
	}
	if ok {
		return hours, nil
	}
	u, err := j.users.GetByID(ctx, checkIn.UserID)
	if err != nil {
		return schedule.Hours{}, fmt.Errorf("failed to get user: %w", err)
	}
	return j.resolver.EffectiveHours(ctx, u)
}
