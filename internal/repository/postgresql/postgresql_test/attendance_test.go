package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jakarta = clock.Business{Location: time.FixedZone("WIB", 7*60*60)}

func createBranch(t *testing.T, s *TestDatabaseSetup, name string) string {
	var id string
	err := s.DB.QueryRow(context.Background(), `
		INSERT INTO branches (name, latitude, longitude, radius, start_hour, end_hour)
		VALUES ($1, -6.2, 106.8166, 100, '09:00', '17:00')
		RETURNING id
	`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func createUser(t *testing.T, s *TestDatabaseSetup, name string, role user.Role, branchID *string) string {
	var id string
	err := s.DB.QueryRow(context.Background(), `
		INSERT INTO users (name, email, role, branch_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, name, name+"@example.com", string(role), branchID).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestAttendanceRepository_UniqueDailyEvent(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(s.DB, jakarta)
	userID := createUser(t, s, "budi", user.RoleEmployee, nil)

	at := time.Date(2025, 3, 3, 9, 0, 0, 0, jakarta.Location)
	_, err := repo.Create(ctx, attendance.Record{UserID: userID, Type: attendance.TypeCheckIn, Timestamp: at, DeviceID: attendance.DeviceUnknown})
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.Record{UserID: userID, Type: attendance.TypeCheckIn, Timestamp: at.Add(time.Hour), DeviceID: attendance.DeviceUnknown})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	_, err = repo.Create(ctx, attendance.Record{UserID: userID, Type: attendance.TypeCheckOut, Timestamp: at.Add(8 * time.Hour), DeviceID: attendance.DeviceUnknown})
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.Record{UserID: userID, Type: attendance.TypeCheckOut, Timestamp: at.Add(9 * time.Hour), DeviceID: attendance.DeviceUnknown})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	// next business day is a fresh slot
	_, err = repo.Create(ctx, attendance.Record{UserID: userID, Type: attendance.TypeCheckIn, Timestamp: at.AddDate(0, 0, 1), DeviceID: attendance.DeviceUnknown})
	assert.NoError(t, err)
}

func TestAttendanceRepository_Queries(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(s.DB, jakarta)
	ani := createUser(t, s, "ani", user.RoleEmployee, nil)
	budi := createUser(t, s, "budi", user.RoleEmployee, nil)

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, jakarta.Location)
	mustCreate := func(r attendance.Record) attendance.Record {
		r.DeviceID = attendance.DeviceUnknown
		created, err := repo.Create(ctx, r)
		require.NoError(t, err)
		return created
	}

	mustCreate(attendance.Record{UserID: ani, Type: attendance.TypeCheckIn, Timestamp: day.Add(9*time.Hour + 15*time.Minute), IsLate: true})
	mustCreate(attendance.Record{UserID: budi, Type: attendance.TypeCheckIn, Timestamp: day.Add(8 * time.Hour)})
	mustCreate(attendance.Record{UserID: budi, Type: attendance.TypeCheckOut, Timestamp: day.Add(17 * time.Hour)})
	permit := mustCreate(attendance.Record{UserID: ani, Type: attendance.TypePermit, Timestamp: day.AddDate(0, 0, 1).Add(12 * time.Hour)})

	from, to := jakarta.DayRange(day)
	records, err := repo.ListByRange(ctx, from, to)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	late, err := repo.CountLateCheckIns(ctx, ani, day, day.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, late)

	open, err := repo.ListOpenCheckIns(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, ani, open[0].UserID)

	mine, err := repo.ListByUserAndRange(ctx, ani, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, attendance.TypePermit, mine[1].Type)

	require.NoError(t, repo.Delete(ctx, permit.ID))
	assert.ErrorIs(t, repo.Delete(ctx, permit.ID), attendance.ErrRecordNotFound)
}

func TestDayLocker_SerializesConcurrentCheckIns(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(s.DB, jakarta)
	locker := postgresql.NewDayLocker(s.DB, jakarta)
	userID := createUser(t, s, "citra", user.RoleEmployee, nil)
	at := time.Date(2025, 3, 4, 9, 0, 0, 0, jakarta.Location)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithDayLock(ctx, userID, at, func(txCtx context.Context) error {
				day, err := repo.ListByUserAndRange(txCtx, userID, at.Add(-9*time.Hour), at.Add(15*time.Hour))
				if err != nil {
					return err
				}
				if len(day) > 0 {
					return attendance.ErrAlreadyCheckedIn
				}
				_, err = repo.Create(txCtx, attendance.Record{UserID: userID, Type: attendance.TypeCheckIn, Timestamp: at, DeviceID: attendance.DeviceUnknown})
				return err
			})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestUserRepository_Lists(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(s.DB)

	sudirman := createBranch(t, s, "Sudirman")
	kemang := createBranch(t, s, "Kemang")
	createUser(t, s, "owner", user.RoleOwner, nil)
	headID := createUser(t, s, "head", user.RoleHead, &sudirman)
	createUser(t, s, "head2", user.RoleHead, &kemang)
	empID := createUser(t, s, "emp", user.RoleEmployee, &sudirman)

	u, err := repo.GetByID(ctx, empID)
	require.NoError(t, err)
	require.NotNil(t, u.BranchName)
	assert.Equal(t, "Sudirman", *u.BranchName)

	heads, err := repo.ListByRole(ctx, user.RoleHead, &sudirman)
	require.NoError(t, err)
	require.Len(t, heads, 1)
	assert.Equal(t, headID, heads[0].ID)

	allHeads, err := repo.ListByRole(ctx, user.RoleHead, nil)
	require.NoError(t, err)
	assert.Len(t, allHeads, 2)

	staff, err := repo.ListExcludingRoles(ctx, user.RoleOwner)
	require.NoError(t, err)
	assert.Len(t, staff, 3)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestPunishmentRepository_Sums(t *testing.T) {
	s := setupDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewPunishmentRepository(s.DB)
	userID := createUser(t, s, "dewi", user.RoleEmployee, nil)

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, jakarta.Location)
	for _, e := range []punishment.Entry{
		{UserID: userID, Points: 5, Reason: "Terlambat", Date: march.AddDate(0, 0, 2)},
		{UserID: userID, Points: 20, Reason: "Alpha", Date: march.AddDate(0, 0, 10)},
		{UserID: userID, Points: -5, Reason: "Koreksi", Date: march.AddDate(0, 0, 11)},
		{UserID: userID, Points: 2, Reason: "Alpha (Lupa Absen Pulang)", Date: march.AddDate(0, 1, 0)},
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	total, err := repo.SumByUserAndRange(ctx, userID, march, march.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 20, total)

	byUser, err := repo.SumByRange(ctx, march, march.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{userID: 20}, byUser)

	all, err := repo.SumByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 22, all)

	recent, err := repo.ListRecentByUser(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].Points)
}
