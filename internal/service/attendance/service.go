package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/geo"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
	auditsvc "github.com/cmlabs-hris/chiko-attendance-go/internal/service/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/service/file"
	"github.com/google/uuid"
)

const (
	noteLate     = "Terlambat"
	noteOvertime = "Lembur"
	halfDayInfo  = "Anda dianggap masuk setengah hari."
)

type AttendanceServiceImpl struct {
	locker     attendance.DayLocker
	records    attendance.AttendanceRepository
	users      user.UserRepository
	branches   branch.BranchRepository
	resolver   schedule.Resolver
	ledger     punishment.Ledger
	dispatcher notification.Dispatcher
	audit      *auditsvc.Recorder
	files      file.FileService
	clock      clock.Clock
	business   clock.Business
}

func NewAttendanceService(
	locker attendance.DayLocker,
	records attendance.AttendanceRepository,
	users user.UserRepository,
	branches branch.BranchRepository,
	resolver schedule.Resolver,
	ledger punishment.Ledger,
	dispatcher notification.Dispatcher,
	recorder *auditsvc.Recorder,
	files file.FileService,
	clk clock.Clock,
	business clock.Business,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		locker:     locker,
		records:    records,
		users:      users,
		branches:   branches,
		resolver:   resolver,
		ledger:     ledger,
		dispatcher: dispatcher,
		audit:      recorder,
		files:      files,
		clock:      clk,
		business:   business,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	now := s.clock.Now()

	if !validator.IsValidCoordinate(req.Latitude, req.Longitude) {
		return attendance.CheckInResponse{}, attendance.ErrInvalidCoordinates
	}
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	u, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	if !u.HasBranch() && !u.Role.BypassesBranchRequirement() {
		return attendance.CheckInResponse{}, attendance.ErrBranchRequired
	}

	visited, err := s.checkGeofence(ctx, u, geo.Point{Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	hours, err := s.resolver.EffectiveHours(ctx, u)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to resolve working hours: %w", err)
	}
	lateness := ClassifyLateness(u.Role, s.business.MinuteOfDay(now), hours)

	dayStart, dayEnd := s.business.DayRange(now)
	monthStart, monthEnd := s.business.MonthRange(now)

	var (
		created    attendance.Record
		points     int
		lateCount  int
		overLimit  bool
		lateReason string
		photoKey   *string
	)
	err = s.locker.WithDayLock(ctx, u.ID, dayStart, func(txCtx context.Context) error {
		records, err := s.records.ListByUserAndRange(txCtx, u.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list today's attendance: %w", err)
		}
		day := attendance.Day(records)
		if day.Marker() != nil {
			return attendance.ErrDayClosed
		}
		if day.Has(attendance.TypeCheckIn) {
			return attendance.ErrAlreadyCheckedIn
		}

		if lateness.IsLate {
			lateReason = fmt.Sprintf("Terlambat %d menit. Shift: %s (%s)", lateness.Minutes, hours.Label, hours.StartHour)
			if _, err := s.ledger.Append(txCtx, punishment.Entry{
				UserID: u.ID,
				Points: punishment.PointsLate,
				Reason: lateReason,
				Date:   now,
			}); err != nil {
				return err
			}
			points = punishment.PointsLate

			prior, err := s.records.CountLateCheckIns(txCtx, u.ID, monthStart, monthEnd)
			if err != nil {
				return fmt.Errorf("failed to count late check-ins: %w", err)
			}
			lateCount = prior + 1
			overLimit = ExceedsLateWarning(prior)
		}

		photoKey, err = s.uploadPhoto(ctx, u.ID, attendance.TypeCheckIn, now, req.Photo)
		if err != nil {
			return err
		}

		created, err = s.records.Create(txCtx, attendance.Record{
			ID:        uuid.New().String(),
			UserID:    u.ID,
			Type:      attendance.TypeCheckIn,
			Timestamp: now,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			DeviceID:  deviceOrDefault(req.DeviceID),
			IsLate:    lateness.IsLate,
			IsHalfDay: lateness.IsHalfDay,
			Notes:     checkInNotes(req.Notes, visited, lateness.IsLate),
			PhotoURL:  photoKey,
		})
		if err != nil {
			return fmt.Errorf("failed to create check-in: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardPhoto(ctx, photoKey)
		return attendance.CheckInResponse{}, err
	}

	s.audit.Record(ctx, audit.ActionCheckIn, u.ID, &created.ID,
		fmt.Sprintf("Check-in success. Shift: %s. Late: %t", hours.Label, lateness.IsLate))

	resp := attendance.CheckInResponse{
		Record:           attendance.ToRecordResponse(created),
		IsLate:           lateness.IsLate,
		IsHalfDay:        lateness.IsHalfDay,
		LateMinutes:      lateness.Minutes,
		PunishmentPoints: points,
		Schedule:         fmt.Sprintf("%s (%s - %s)", hours.Label, hours.StartHour, hours.EndHour),
	}
	if lateness.IsHalfDay {
		info := halfDayInfo
		resp.HalfDayInfo = &info
	}
	if visited != nil {
		name := visited.Name
		resp.VisitedBranchName = &name
	}
	if overLimit {
		warning := fmt.Sprintf("PERINGATAN: Anda terlambat > %d kali bulan ini (%dx). Gaji dipotong Rp 50.000.", LateWarningAfter, lateCount)
		resp.Warning = &warning

		slog.Warn("late check-ins exceeded monthly limit", "user_id", u.ID, "count", lateCount, "month", monthStart.Format("2006-01"))
		s.dispatcher.NotifySuperior(ctx, u, notification.Message{
			Type:  notification.TypeLateThresholdExceeded,
			Title: "Batas Keterlambatan Terlampaui",
			Body:  fmt.Sprintf("%s sudah terlambat %d kali bulan ini.", u.Name, lateCount),
			Data: map[string]interface{}{
				"type":       "LATE_THRESHOLD_EXCEEDED",
				"user_id":    u.ID,
				"late_count": lateCount,
				"month":      monthStart.Format("2006-01"),
			},
		})
	}

	return resp, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	now := s.clock.Now()

	if !validator.IsValidCoordinate(req.Latitude, req.Longitude) {
		return attendance.CheckOutResponse{}, attendance.ErrInvalidCoordinates
	}
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	u, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if !u.HasBranch() && !u.Role.BypassesBranchRequirement() {
		return attendance.CheckOutResponse{}, attendance.ErrBranchRequired
	}
	if _, err := s.checkGeofence(ctx, u, geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	var hours schedule.Hours
	if u.Role != user.RoleHead {
		hours, err = s.resolver.EffectiveHours(ctx, u)
		if err != nil {
			return attendance.CheckOutResponse{}, fmt.Errorf("failed to resolve working hours: %w", err)
		}
	}

	dayStart, dayEnd := s.business.DayRange(now)

	var (
		created  attendance.Record
		overtime bool
		worked   *int
		photoKey *string
	)
	err = s.locker.WithDayLock(ctx, u.ID, dayStart, func(txCtx context.Context) error {
		records, err := s.records.ListByUserAndRange(txCtx, u.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list today's attendance: %w", err)
		}
		day := attendance.Day(records)
		if day.Marker() != nil {
			return attendance.ErrDayClosed
		}
		if day.Has(attendance.TypeCheckOut) {
			return attendance.ErrAlreadyCheckedOut
		}

		checkIn := day.Find(attendance.TypeCheckIn)
		if u.Role == user.RoleHead {
			if checkIn == nil {
				return attendance.ErrNotCheckedIn
			}
			overtime = IsHeadOvertime(checkIn.Timestamp, now)
		} else {
			// Other roles may check out without a check-in.
			overtime = IsShiftOvertime(s.business.MinuteOfDay(now), hours)
		}
		if checkIn != nil {
			m := int(now.Sub(checkIn.Timestamp).Minutes())
			worked = &m
		}

		photoKey, err = s.uploadPhoto(ctx, u.ID, attendance.TypeCheckOut, now, req.Photo)
		if err != nil {
			return err
		}

		created, err = s.records.Create(txCtx, attendance.Record{
			ID:         uuid.New().String(),
			UserID:     u.ID,
			Type:       attendance.TypeCheckOut,
			Timestamp:  now,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			DeviceID:   deviceOrDefault(req.DeviceID),
			IsOvertime: overtime,
			Notes:      checkOutNotes(req.Notes, overtime),
			PhotoURL:   photoKey,
		})
		if err != nil {
			return fmt.Errorf("failed to create check-out: %w", err)
		}
		return nil
	})
	if err != nil {
		s.discardPhoto(ctx, photoKey)
		return attendance.CheckOutResponse{}, err
	}

	s.audit.Record(ctx, audit.ActionCheckOut, u.ID, &created.ID,
		fmt.Sprintf("Check-out success. Overtime: %t", overtime))

	return attendance.CheckOutResponse{
		Record:        attendance.ToRecordResponse(created),
		IsOvertime:    overtime,
		WorkedMinutes: worked,
	}, nil
}

// SubmitPermit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SubmitPermit(ctx context.Context, req attendance.PermitRequest) (attendance.PermitResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PermitResponse{}, err
	}

	u, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return attendance.PermitResponse{}, err
	}

	dayStart, err := s.business.ParseDate(req.Date)
	if err != nil {
		return attendance.PermitResponse{}, attendance.ErrInvalidDate
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	var created attendance.Record
	err = s.locker.WithDayLock(ctx, u.ID, dayStart, func(txCtx context.Context) error {
		records, err := s.records.ListByUserAndRange(txCtx, u.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list attendance for %s: %w", req.Date, err)
		}
		if len(records) > 0 {
			return attendance.ErrDayAlreadyRecorded
		}

		reason := req.Reason
		created, err = s.records.Create(txCtx, attendance.Record{
			ID:        uuid.New().String(),
			UserID:    u.ID,
			Type:      req.Type,
			Timestamp: dayStart.Add(12 * time.Hour),
			DeviceID:  attendance.DevicePermit,
			Notes:     &reason,
		})
		if err != nil {
			return fmt.Errorf("failed to create permit: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.PermitResponse{}, err
	}

	s.audit.Record(ctx, audit.ActionPermitSubmit, u.ID, &created.ID,
		fmt.Sprintf("%s for %s", req.Type, req.Date))

	notified := s.dispatcher.NotifySuperior(ctx, u, notification.Message{
		Type:  notification.TypePermitRequest,
		Title: "Pengajuan Izin Masuk",
		Body:  fmt.Sprintf("%s mengajukan %s pada %s. Alasan: %s", u.Name, req.Type.Label(), req.Date, req.Reason),
		Data: map[string]interface{}{
			"type":          "PERMIT_REQUEST",
			"attendance_id": created.ID,
			"user_id":       u.ID,
			"date":          req.Date,
		},
	})
	s.dispatcher.NotifyUsers(ctx, []string{u.ID}, notification.Message{
		Type:  notification.TypePermitConfirmation,
		Title: "Pengajuan Izin Terkirim",
		Body:  fmt.Sprintf("Pengajuan %s untuk tanggal %s berhasil dikirim. Menunggu persetujuan.", req.Type.Label(), req.Date),
		Data: map[string]interface{}{
			"type":          "PERMIT_CONFIRMATION",
			"attendance_id": created.ID,
			"date":          req.Date,
		},
	})

	if notified == nil {
		notified = []string{}
	}
	return attendance.PermitResponse{
		Record:     attendance.ToRecordResponse(created),
		NotifiedTo: notified,
	}, nil
}

// CancelPermit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CancelPermit(ctx context.Context, req attendance.CancelPermitRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return err
	}

	dayStart, err := s.business.ParseDate(req.Date)
	if err != nil {
		return attendance.ErrInvalidDate
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	var removed attendance.Record
	err = s.locker.WithDayLock(ctx, u.ID, dayStart, func(txCtx context.Context) error {
		records, err := s.records.ListByUserAndRange(txCtx, u.ID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list attendance for %s: %w", req.Date, err)
		}
		var permit *attendance.Record
		for i := range records {
			if records[i].Type == attendance.TypePermit || records[i].Type == attendance.TypeSick {
				permit = &records[i]
				break
			}
		}
		if permit == nil {
			return attendance.ErrPermitNotFound
		}
		if err := s.records.Delete(txCtx, permit.ID); err != nil {
			return fmt.Errorf("failed to delete permit: %w", err)
		}
		removed = *permit
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.ActionPermitCancel, u.ID, &removed.ID,
		fmt.Sprintf("%s for %s cancelled", removed.Type, req.Date))

	s.dispatcher.NotifySuperior(ctx, u, notification.Message{
		Type:  notification.TypePermitCancel,
		Title: "Pembatalan Izin",
		Body:  fmt.Sprintf("%s membatalkan pengajuan izin untuk tanggal %s.", u.Name, req.Date),
		Data: map[string]interface{}{
			"type":    "PERMIT_CANCEL",
			"user_id": u.ID,
			"date":    req.Date,
		},
	})
	s.dispatcher.NotifyUsers(ctx, []string{u.ID}, notification.Message{
		Type:  notification.TypePermitCancel,
		Title: "Izin Dibatalkan",
		Body:  fmt.Sprintf("Pengajuan izin untuk tanggal %s telah dibatalkan.", req.Date),
		Data: map[string]interface{}{
			"type": "PERMIT_CANCEL",
			"date": req.Date,
		},
	})
	return nil
}

// TodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodayStatus(ctx context.Context, userID string) (attendance.TodayStatusResponse, error) {
	now := s.clock.Now()

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}
	hours, err := s.resolver.EffectiveHours(ctx, u)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to resolve working hours: %w", err)
	}

	dayStart, dayEnd := s.business.DayRange(now)
	records, err := s.records.ListByUserAndRange(ctx, u.ID, dayStart, dayEnd)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}
	day := attendance.Day(records)

	resp := attendance.TodayStatusResponse{
		Date:     s.business.DateKey(now),
		State:    day.State(),
		Schedule: fmt.Sprintf("%s (%s - %s)", hours.Label, hours.StartHour, hours.EndHour),
	}
	if r := day.Find(attendance.TypeCheckIn); r != nil {
		rr := attendance.ToRecordResponse(*r)
		resp.CheckIn = &rr
	}
	if r := day.Find(attendance.TypeCheckOut); r != nil {
		rr := attendance.ToRecordResponse(*r)
		resp.CheckOut = &rr
	}
	if r := day.Marker(); r != nil {
		rr := attendance.ToRecordResponse(*r)
		resp.Marker = &rr
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) getUser(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// checkGeofence applies the role's location rule. For a supervisor it
// returns the branch being visited.
func (s *AttendanceServiceImpl) checkGeofence(ctx context.Context, u user.User, p geo.Point) (*branch.Branch, error) {
	switch u.Role {
	case user.RoleHead, user.RoleOwner:
		return nil, nil

	case user.RoleSupervisor:
		branches, err := s.branches.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches: %w", err)
		}
		match, ok, nearest, hasNearest := MatchAnyBranch(p, branches)
		if ok {
			return &match, nil
		}
		gerr := &attendance.GeofenceError{}
		if hasNearest {
			gerr.NearestDistance = &nearest
		}
		return nil, gerr

	default:
		if !u.HasBranch() {
			return nil, attendance.ErrBranchRequired
		}
		br, err := s.branches.GetByID(ctx, *u.BranchID)
		if err != nil {
			if errors.Is(err, branch.ErrBranchNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to get branch: %w", err)
		}
		radius := br.AllowedRadius(geo.DefaultAssignedBranchRadius)
		distance := geo.DistanceMeters(p, br.Center())
		if distance > radius {
			return nil, &attendance.GeofenceError{Distance: &distance, MaxRadius: &radius}
		}
		return nil, nil
	}
}

func (s *AttendanceServiceImpl) uploadPhoto(ctx context.Context, userID string, kind attendance.Type, now time.Time, photo *attendance.Photo) (*string, error) {
	if photo == nil || photo.File == nil || s.files == nil {
		return nil, nil
	}
	key, err := s.files.UploadAttendancePhoto(ctx, userID, string(kind), s.business.Local(now), photo.File, photo.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attendance photo: %w", err)
	}
	return &key, nil
}

// discardPhoto removes a stored photo whose attendance row was never committed.
func (s *AttendanceServiceImpl) discardPhoto(ctx context.Context, key *string) {
	if key == nil || s.files == nil {
		return
	}
	if err := s.files.DeleteFile(context.WithoutCancel(ctx), *key); err != nil {
		slog.Error("failed to discard attendance photo", "key", *key, "error", err)
	}
}

func deviceOrDefault(deviceID *string) string {
	if deviceID == nil || *deviceID == "" {
		return attendance.DeviceUnknown
	}
	return *deviceID
}

func checkInNotes(explicit *string, visited *branch.Branch, late bool) *string {
	var note string
	switch {
	case explicit != nil && *explicit != "":
		note = *explicit
	case visited != nil:
		note = "Visit: " + visited.Name
	case late:
		note = noteLate
	default:
		return nil
	}
	return &note
}

func checkOutNotes(explicit *string, overtime bool) *string {
	var note string
	switch {
	case explicit != nil && *explicit != "":
		note = *explicit
	case overtime:
		note = noteOvertime
	default:
		return nil
	}
	return &note
}
