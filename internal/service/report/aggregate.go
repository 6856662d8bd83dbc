package report

import (
	"sort"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
)

const (
	presentScore = 10
	latePenalty  = 5
	podiumSize   = 3

	// headMinimumHours is slightly under 8h so that millisecond drift does
	// not flag a full shift.
	headMinimumHours = 7.9
)

type dayBucket struct {
	date string
	day  attendance.Day
}

// groupByDay buckets records by business date, keeping first-seen order.
func groupByDay(records []attendance.Record, b clock.Business) []dayBucket {
	index := map[string]int{}
	var buckets []dayBucket
	for _, r := range records {
		key := b.DateKey(r.Timestamp)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, dayBucket{date: key})
		}
		buckets[i].day = append(buckets[i].day, r)
	}
	return buckets
}

// groupByUser splits records by user id.
func groupByUser(records []attendance.Record) map[string][]attendance.Record {
	out := map[string][]attendance.Record{}
	for _, r := range records {
		out[r.UserID] = append(out[r.UserID], r)
	}
	return out
}

type dayStatus int

const (
	dayEmpty dayStatus = iota
	dayOnTime
	dayLate
	dayOff
	dayAlpha
)

// statusOf applies the recap precedence: alpha, then permit or sick, then
// check-in. A day with only a check-out counts as empty.
func statusOf(day attendance.Day) dayStatus {
	switch {
	case day.Has(attendance.TypeAlpha):
		return dayAlpha
	case day.Has(attendance.TypePermit), day.Has(attendance.TypeSick):
		return dayOff
	}
	if in := day.Find(attendance.TypeCheckIn); in != nil {
		if in.IsLate {
			return dayLate
		}
		return dayOnTime
	}
	return dayEmpty
}

// recapMonth counts day statuses for one month of a user's records.
func recapMonth(records []attendance.Record, b clock.Business) report.MonthRecap {
	var r report.MonthRecap
	for _, bucket := range groupByDay(records, b) {
		switch statusOf(bucket.day) {
		case dayAlpha:
			r.Alpha++
		case dayOff:
			r.Off++
		case dayLate:
			r.Late++
		case dayOnTime:
			r.OnTime++
		}
	}
	return r
}

// branchCounts fills hadir/telat/izin/alpha. Hadir includes late days.
func branchCounts(records []attendance.Record, b clock.Business) (hadir, telat, izin, alpha int) {
	for _, bucket := range groupByDay(records, b) {
		switch statusOf(bucket.day) {
		case dayAlpha:
			alpha++
		case dayOff:
			izin++
		case dayLate:
			hadir++
			telat++
		case dayOnTime:
			hadir++
		}
	}
	return hadir, telat, izin, alpha
}

func score(present, late int) int {
	return present*presentScore - late*latePenalty
}

// podium returns the best three by score and the worst three by late
// count among staff with at least one check-in. Ties keep input order.
func podium(entries []report.LeaderboardEntry) (best, worst []report.LeaderboardEntry) {
	var active []report.LeaderboardEntry
	for _, e := range entries {
		if e.Present > 0 {
			active = append(active, e)
		}
	}

	best = append([]report.LeaderboardEntry{}, active...)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Score > best[j].Score })
	worst = append([]report.LeaderboardEntry{}, active...)
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].Late > worst[j].Late })

	if len(best) > podiumSize {
		best = best[:podiumSize]
	}
	if len(worst) > podiumSize {
		worst = worst[:podiumSize]
	}
	return best, worst
}
