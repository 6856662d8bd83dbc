package report

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
)

var wib = time.FixedZone("WIB", 7*60*60)

type recordStore struct {
	records []attendance.Record
}

func (s *recordStore) add(userID string, t attendance.Type, at time.Time, mutate ...func(*attendance.Record)) {
	r := attendance.Record{ID: userID + "-" + string(t) + "-" + at.Format(time.RFC3339), UserID: userID, Type: t, Timestamp: at}
	for _, m := range mutate {
		m(&r)
	}
	s.records = append(s.records, r)
}

func (s *recordStore) list(keep func(attendance.Record) bool) []attendance.Record {
	var out []attendance.Record
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func within(t, from, to time.Time) bool { return !t.Before(from) && t.Before(to) }

func (s *recordStore) Create(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	s.records = append(s.records, r)
	return r, nil
}

func (s *recordStore) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	return s.list(func(r attendance.Record) bool { return r.UserID == userID && within(r.Timestamp, from, to) }), nil
}

func (s *recordStore) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return s.list(func(r attendance.Record) bool { return within(r.Timestamp, from, to) }), nil
}

func (s *recordStore) CountLateCheckIns(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return 0, nil
}

func (s *recordStore) ListOpenCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (s *recordStore) Delete(ctx context.Context, id string) error { return nil }

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
		keep := true
		for _, r := range roles {
			if u.Role == r {
				keep = false
			}
		}
		if keep {
			out = append(out, u)
		}
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

type fakePunishments struct{ entries []punishment.Entry }

func (f *fakePunishments) Create(ctx context.Context, e punishment.Entry) (punishment.Entry, error) {
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakePunishments) SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return f.sum(func(e punishment.Entry) bool { return e.UserID == userID && within(e.Date, from, to) }), nil
}

func (f *fakePunishments) SumByRange(ctx context.Context, from, to time.Time) (map[string]int, error) {
	out := map[string]int{}
	for _, e := range f.entries {
		if within(e.Date, from, to) {
			out[e.UserID] += e.Points
		}
	}
	return out, nil
}

func (f *fakePunishments) SumByUser(ctx context.Context, userID string) (int, error) {
	return f.sum(func(e punishment.Entry) bool { return e.UserID == userID }), nil
}

func (f *fakePunishments) ListRecentByUser(ctx context.Context, userID string, limit int) ([]punishment.Entry, error) {
	return nil, nil
}

func (f *fakePunishments) sum(keep func(punishment.Entry) bool) int {
	total := 0
	for _, e := range f.entries {
		if keep(e) {
			total += e.Points
		}
	}
	return total
}

type fixedSettings struct{ max int }

func (f fixedSettings) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (f fixedSettings) All(ctx context.Context) (map[string]string, error) { return nil, nil }

func (f fixedSettings) Upsert(ctx context.Context, req settings.UpsertRequest) (settings.Setting, error) {
	return settings.Setting{}, nil
}

func (f fixedSettings) MaxPunishmentPoints(ctx context.Context) int { return f.max }
