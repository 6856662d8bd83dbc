package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
)

type ResolverImpl struct {
	shifts   schedule.ShiftRepository
	branches branch.BranchRepository
}

func NewResolver(shifts schedule.ShiftRepository, branches branch.BranchRepository) schedule.Resolver {
	return &ResolverImpl{shifts: shifts, branches: branches}
}

// EffectiveHours implements schedule.Resolver.
func (r *ResolverImpl) EffectiveHours(ctx context.Context, u user.User) (schedule.Hours, error) {
	var shift *schedule.Shift
	if u.ShiftID != nil && *u.ShiftID != "" {
		s, err := r.shifts.GetByID(ctx, *u.ShiftID)
		switch {
		case err == nil:
			shift = &s
		case errors.Is(err, schedule.ErrShiftNotFound):
			slog.Warn("assigned shift not found, using branch hours", "user_id", u.ID, "shift_id", *u.ShiftID)
		default:
			return schedule.Hours{}, fmt.Errorf("failed to get shift: %w", err)
		}
	}

	var br *branch.Branch
	if u.BranchID != nil && *u.BranchID != "" {
		b, err := r.branches.GetByID(ctx, *u.BranchID)
		switch {
		case err == nil:
			br = &b
		case errors.Is(err, branch.ErrBranchNotFound):
			slog.Warn("assigned branch not found, using default hours", "user_id", u.ID, "branch_id", *u.BranchID)
		default:
			return schedule.Hours{}, fmt.Errorf("failed to get branch: %w", err)
		}
	}

	return Resolve(shift, br), nil
}

// NearestShift implements schedule.Resolver.
func (r *ResolverImpl) NearestShift(ctx context.Context, minuteOfDay int) (schedule.Shift, schedule.Hours, bool, error) {
	shifts, err := r.shifts.List(ctx)
	if err != nil {
		return schedule.Shift{}, schedule.Hours{}, false, fmt.Errorf("failed to list shifts: %w", err)
	}
	s, ok := Nearest(minuteOfDay, shifts)
	if !ok {
		return schedule.Shift{}, schedule.Hours{}, false, nil
	}
	return s, Resolve(&s, nil), true, nil
}

type candidate struct {
	value  string
	source schedule.Source
}

// pick returns the first candidate that parses as HH:mm.
func pick(candidates ...candidate) (int, candidate) {
	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if m, err := clock.ParseHHMM(c.value); err == nil {
			return m, c
		}
	}
	return -1, candidate{}
}

// Resolve applies shift, then branch, then the 09:00-17:00 fallback. Start
// and end resolve independently so a shift with a broken end still uses
// the branch end. Either argument may be nil.
func Resolve(shift *schedule.Shift, br *branch.Branch) schedule.Hours {
	var startCands, endCands []candidate
	if shift != nil {
		startCands = append(startCands, candidate{shift.StartHour, schedule.SourceShift})
		endCands = append(endCands, candidate{shift.EndHour, schedule.SourceShift})
	}
	if br != nil {
		startCands = append(startCands, candidate{br.StartHour, schedule.SourceBranch})
		endCands = append(endCands, candidate{br.EndHour, schedule.SourceBranch})
	}
	startCands = append(startCands, candidate{schedule.FallbackStartHour, schedule.SourceFallback})
	endCands = append(endCands, candidate{schedule.FallbackEndHour, schedule.SourceFallback})

	start, sc := pick(startCands...)
	end, _ := pick(endCands...)

	h := schedule.Hours{
		Start:     start,
		End:       end,
		StartHour: clock.FormatMinutes(start),
		EndHour:   clock.FormatMinutes(end),
		Source:    sc.source,
	}
	switch sc.source {
	case schedule.SourceShift:
		h.Label = shift.Name
	case schedule.SourceBranch:
		h.Label = br.Name
	default:
		h.Label = "Default"
	}
	return h
}

// Nearest returns the shift whose start is closest to minuteOfDay. Ties go
// to the earlier shift in the list. Shifts with an unparseable start are
// ignored.
func Nearest(minuteOfDay int, shifts []schedule.Shift) (schedule.Shift, bool) {
	best := -1
	bestDiff := 0
	for i, s := range shifts {
		start, err := clock.ParseHHMM(s.StartHour)
		if err != nil {
			continue
		}
		diff := minuteOfDay - start
		if diff < 0 {
			diff = -diff
		}
		if best == -1 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best == -1 {
		return schedule.Shift{}, false
	}
	return shifts[best], true
}
