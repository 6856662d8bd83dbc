package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShifts struct {
	shifts []schedule.Shift
	err    error
}

func (f *fakeShifts) GetByID(ctx context.Context, id string) (schedule.Shift, error) {
	if f.err != nil {
		return schedule.Shift{}, f.err
	}
	for _, s := range f.shifts {
		if s.ID == id {
			return s, nil
		}
	}
	return schedule.Shift{}, schedule.ErrShiftNotFound
}

func (f *fakeShifts) List(ctx context.Context) ([]schedule.Shift, error) {
	return f.shifts, f.err
}

type fakeBranches struct {
	branches []branch.Branch
}

func (f *fakeBranches) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	for _, b := range f.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return branch.Branch{}, branch.ErrBranchNotFound
}

func (f *fakeBranches) List(ctx context.Context) ([]branch.Branch, error) {
	return f.branches, nil
}

func strPtr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	morning := &schedule.Shift{ID: "s1", Name: "Pagi", StartHour: "07:00", EndHour: "15:00"}
	broken := &schedule.Shift{ID: "s2", Name: "Rusak", StartHour: "7am", EndHour: ""}
	br := &branch.Branch{ID: "b1", Name: "Outlet Sudirman", StartHour: "10:00", EndHour: "18:00"}
	brEmpty := &branch.Branch{ID: "b2", Name: "Outlet Baru"}

	tests := []struct {
		name       string
		shift      *schedule.Shift
		branch     *branch.Branch
		wantStart  int
		wantEnd    int
		wantSource schedule.Source
		wantLabel  string
	}{
		{"shift wins", morning, br, 7 * 60, 15 * 60, schedule.SourceShift, "Pagi"},
		{"branch when no shift", nil, br, 10 * 60, 18 * 60, schedule.SourceBranch, "Outlet Sudirman"},
		{"fallback when nothing", nil, nil, 9 * 60, 17 * 60, schedule.SourceFallback, "Default"},
		{"fallback when branch has no hours", nil, brEmpty, 9 * 60, 17 * 60, schedule.SourceFallback, "Default"},
		{"unparseable shift falls through", broken, br, 10 * 60, 18 * 60, schedule.SourceBranch, "Outlet Sudirman"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Resolve(tt.shift, tt.branch)
			assert.Equal(t, tt.wantStart, h.Start)
			assert.Equal(t, tt.wantEnd, h.End)
			assert.Equal(t, tt.wantSource, h.Source)
			assert.Equal(t, tt.wantLabel, h.Label)
		})
	}
}

func TestNearest(t *testing.T) {
	shifts := []schedule.Shift{
		{ID: "a", Name: "Pagi", StartHour: "08:00", EndHour: "16:00"},
		{ID: "b", Name: "Siang", StartHour: "12:00", EndHour: "20:00"},
		{ID: "c", Name: "Duplikat Siang", StartHour: "12:00", EndHour: "21:00"},
		{ID: "d", Name: "Rusak", StartHour: "xx"},
	}

	s, ok := Nearest(8*60+20, shifts)
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)

	s, ok = Nearest(11*60+50, shifts)
	require.True(t, ok)
	assert.Equal(t, "b", s.ID, "ties resolve to the earlier shift")

	// 10:00 is exactly between 08:00 and 12:00
	s, ok = Nearest(10*60, shifts)
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)

	_, ok = Nearest(600, nil)
	assert.False(t, ok)
}

func TestResolver_EffectiveHours(t *testing.T) {
	shifts := &fakeShifts{shifts: []schedule.Shift{{ID: "s1", Name: "Pagi", StartHour: "07:00", EndHour: "15:00"}}}
	branches := &fakeBranches{branches: []branch.Branch{{ID: "b1", Name: "Outlet", StartHour: "10:00", EndHour: "18:00"}}}
	r := NewResolver(shifts, branches)
	ctx := context.Background()

	h, err := r.EffectiveHours(ctx, user.User{ID: "u1", ShiftID: strPtr("s1"), BranchID: strPtr("b1")})
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceShift, h.Source)

	h, err = r.EffectiveHours(ctx, user.User{ID: "u2", ShiftID: strPtr("missing"), BranchID: strPtr("b1")})
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceBranch, h.Source)
	assert.Equal(t, "10:00", h.StartHour)

	h, err = r.EffectiveHours(ctx, user.User{ID: "u3"})
	require.NoError(t, err)
	assert.Equal(t, schedule.SourceFallback, h.Source)
	assert.Equal(t, "17:00", h.EndHour)
}

func TestResolver_EffectiveHoursPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(&fakeShifts{err: boom}, &fakeBranches{})

	_, err := r.EffectiveHours(context.Background(), user.User{ID: "u1", ShiftID: strPtr("s1")})
	assert.ErrorIs(t, err, boom)
}

func TestResolver_NearestShift(t *testing.T) {
	shifts := &fakeShifts{shifts: []schedule.Shift{
		{ID: "a", Name: "Pagi", StartHour: "08:00", EndHour: "16:00"},
		{ID: "b", Name: "Malam", StartHour: "20:00", EndHour: "04:00"},
	}}
	r := NewResolver(shifts, &fakeBranches{})

	s, h, ok, err := r.NearestShift(context.Background(), 19*60)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", s.ID)
	assert.Equal(t, 4*60, h.End)

	_, _, ok, err = NewResolver(&fakeShifts{}, &fakeBranches{}).NearestShift(context.Background(), 600)
	require.NoError(t, err)
	assert.False(t, ok)
}
