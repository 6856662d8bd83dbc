package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
)

// wib is a fixed +07:00 zone so tests do not depend on the host tzdata.
var wib = time.FixedZone("WIB", 7*60*60)

type memStore struct {
	mu        sync.Mutex
	records   []attendance.Record
	locks     sync.Map // key -> *sync.Mutex
	createErr error
}

func (m *memStore) WithDayLock(ctx context.Context, userID string, day time.Time, fn func(ctx context.Context) error) error {
	v, _ := m.locks.LoadOrStore(userID+":"+day.Format("2006-01-02"), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn(ctx)
}

func (m *memStore) Create(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return attendance.Record{}, m.createErr
	}
	r.CreatedAt = r.Timestamp
	m.records = append(m.records, r)
	return r, nil
}

type fakeFiles struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeFiles) UploadAttendancePhoto(ctx context.Context, userID string, kind string, at time.Time, file io.Reader, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("attendance/%s/%s-%s.jpg", at.Format("2006-01-02"), userID, kind)
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFiles) FileURL(ctx context.Context, key string) (string, error) {
	return "https://files.local/" + key, nil
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

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (m *memStore) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool {
		return r.UserID == userID && inRange(r.Timestamp, from, to)
	}), nil
}

func (m *memStore) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return m.filter(func(r attendance.Record) bool { return inRange(r.Timestamp, from, to) }), nil
}

func (m *memStore) CountLateCheckIns(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return len(m.filter(func(r attendance.Record) bool {
		return r.UserID == userID && r.Type == attendance.TypeCheckIn && r.IsLate && inRange(r.Timestamp, from, to)
	})), nil
}

func (m *memStore) ListOpenCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	all, _ := m.ListByRange(ctx, from, to)
	closed := map[string]bool{}
	for _, r := range all {
		if r.Type != attendance.TypeCheckIn {
			closed[r.UserID] = true
		}
	}
	var out []attendance.Record
	for _, r := range all {
		if r.Type == attendance.TypeCheckIn && !closed[r.UserID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return attendance.ErrRecordNotFound
}

func (m *memStore) count(userID string, t attendance.Type) int {
	return len(m.filter(func(r attendance.Record) bool { return r.UserID == userID && r.Type == t }))
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
	var out []user.User
	for _, u := range f.users {
		if u.Role == role && (branchID == nil || (u.BranchID != nil && *u.BranchID == *branchID)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListExcludingRoles(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	var out []user.User
next:
	for _, u := range f.users {
		for _, r := range roles {
			if u.Role == r {
				continue next
			}
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeBranches struct{ branches []branch.Branch }

func (f *fakeBranches) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	for _, b := range f.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return branch.Branch{}, branch.ErrBranchNotFound
}

func (f *fakeBranches) List(ctx context.Context) ([]branch.Branch, error) { return f.branches, nil }

type fixedResolver struct{ hours schedule.Hours }

func (f fixedResolver) EffectiveHours(ctx context.Context, u user.User) (schedule.Hours, error) {
	return f.hours, nil
}

func (f fixedResolver) NearestShift(ctx context.Context, minuteOfDay int) (schedule.Shift, schedule.Hours, bool, error) {
	return schedule.Shift{}, schedule.Hours{}, false, nil
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
		if e.UserID == userID && inRange(e.Date, from, to) {
			total += e.Points
		}
	}
	return total, nil
}

func (f *fakeLedger) IsHighRisk(ctx context.Context, userID string, from, to time.Time, threshold int) (bool, error) {
	total, _ := f.TotalPoints(ctx, userID, from, to)
	return total > threshold, nil
}

func (f *fakeLedger) Threshold(ctx context.Context) int { return 50 }

func (f *fakeLedger) Summary(ctx context.Context, userID string) (punishment.SummaryResponse, error) {
	return punishment.SummaryResponse{}, nil
}

func (f *fakeLedger) AddManual(ctx context.Context, req punishment.ManualEntryRequest) (punishment.EntryResponse, error) {
	return punishment.EntryResponse{}, nil
}

type sentMessage struct {
	superior   bool
	sender     string
	recipients []string
	msg        notification.Message
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMessage
	// superiors answers NotifySuperior for every sender.
	superiors []string
}

func (f *fakeDispatcher) NotifySuperior(ctx context.Context, sender user.User, msg notification.Message) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{superior: true, sender: sender.ID, recipients: f.superiors, msg: msg})
	return f.superiors
}

func (f *fakeDispatcher) NotifyUsers(ctx context.Context, ids []string, msg notification.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{recipients: ids, msg: msg})
}

func (f *fakeDispatcher) ofType(t notification.NotificationType) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, s := range f.sent {
		if s.msg.Type == t {
			out = append(out, s)
		}
	}
	return out
}

type fakeAudit struct {
	mu   sync.Mutex
	logs []audit.Log
	err  error
}

func (f *fakeAudit) Create(ctx context.Context, l audit.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, l)
	return nil
}

// movableClock lets a test advance time between operations.
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

var errBoom = errors.New("boom")
