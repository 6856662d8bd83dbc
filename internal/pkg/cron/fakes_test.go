package cron

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
)

var wib = time.FixedZone("WIB", 7*60*60)

var errBoom = errors.New("boom")

type memStore struct {
	mu      sync.Mutex
	records []attendance.Record
	locks   sync.Map
	// failFor makes every read for that user fail.
	failFor string
}

func (m *memStore) WithDayLock(ctx context.Context, userID string, day time.Time, fn func(ctx context.Context) error) error {
	v, _ := m.locks.LoadOrStore(userID+":"+day.Format("2006-01-02"), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}

func (m *memStore) add(userID string, t attendance.Type, at time.Time) {
	m.records = append(m.records, attendance.Record{ID: string(t) + "-" + userID, UserID: userID, Type: t, Timestamp: at})
}

func (m *memStore) Create(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return r, nil
}

func (m *memStore) filter(keep func(attendance.Record) bool) []attendance.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Record
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func inRange(t, from, to time.Time) bool { return !t.Before(from) && t.Before(to) }

func (m *memStore) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	if userID == m.failFor {
		return nil, errBoom
	}
	return m.filter(func(r attendance.Record) bool { return r.UserID == userID && inRange(r.Timestamp, from, to) }), nil
}

func (m *memStore) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool { return inRange(r.Timestamp, from, to) }), nil
}

func (m *memStore) CountLateCheckIns(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return 0, nil
}

func (m *memStore) ListOpenCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	all, _ := m.ListByRange(ctx, from, to)
	dayKey := func(r attendance.Record) string {
		return r.UserID + ":" + r.Timestamp.In(wib).Format("2006-01-02")
	}
	closed := map[string]bool{}
	for _, r := range all {
		if r.Type != attendance.TypeCheckIn {
			closed[dayKey(r)] = true
		}
	}
	var out []attendance.Record
	for _, r := range all {
		if r.Type == attendance.TypeCheckIn && !closed[dayKey(r)] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error { return nil }

func (m *memStore) byUser(userID string, t attendance.Type) []attendance.Record {
	return m.filter(func(r attendance.Record) bool { return r.UserID == userID && r.Type == t })
}

type fakeUsers struct{ users []user.User }

func (f *fakeUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUsers) List(ctx context.Context) ([]user.User, error) { return f.users, nil }

func (f *fakeUsers) ListByRole(ctx context.Context, role user.Role, branchID *string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUsers) ListExcludingRoles(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		excluded := false
		for _, r := range roles {
			excluded = excluded || u.Role == r
		}
		if !excluded {
			out = append(out, u)
		}
	}
	return out, nil
}

type stubResolver struct {
	nearest   *schedule.Hours
	effective schedule.Hours
}

func (s stubResolver) EffectiveHours(ctx context.Context, u user.User) (schedule.Hours, error) {
	return s.effective, nil
}

func (s stubResolver) NearestShift(ctx context.Context, minuteOfDay int) (schedule.Shift, schedule.Hours, bool, error) {
	if s.nearest == nil {
		return schedule.Shift{}, schedule.Hours{}, false, nil
	}
	return schedule.Shift{Name: s.nearest.Label}, *s.nearest, true, nil
}

type fakeLedger struct {
	mu      sync.Mutex
	entries []punishment.Entry
}

func (f *fakeLedger) Append(ctx context.Context, e punishment.Entry) (punishment.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLedger) TotalPoints(ctx context.Context, userID string, from, to time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, e := range f.entries {
		if e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

func (f *fakeLedger) IsHighRisk(ctx context.Context, userID string, from, to time.Time, threshold int) (bool, error) {
	return false, nil
}

func (f *fakeLedger) Threshold(ctx context.Context) int { return 50 }

func (f *fakeLedger) Summary(ctx context.Context, userID string) (punishment.SummaryResponse, error) {
	return punishment.SummaryResponse{}, nil
}

func (f *fakeLedger) AddManual(ctx context.Context, req punishment.ManualEntryRequest) (punishment.EntryResponse, error) {
	return punishment.EntryResponse{}, nil
}

type delivered struct {
	recipients []string
	msg        notification.Message
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []delivered
}

func (f *fakeDispatcher) NotifySuperior(ctx context.Context, sender user.User, msg notification.Message) []string {
	return nil
}

func (f *fakeDispatcher) NotifyUsers(ctx context.Context, ids []string, msg notification.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, delivered{recipients: ids, msg: msg})
}

func (f *fakeDispatcher) ofType(t notification.NotificationType) []delivered {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []delivered
	for _, d := range f.sent {
		if d.msg.Type == t {
			out = append(out, d)
		}
	}
	return out
}

type movableClock struct {
	mu sync.Mutex
	at time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

func (c *movableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = t
}

type failingMarker struct{}

func (failingMarker) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return false, errBoom
}
