package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) Business {
	t.Helper()
	b, err := NewBusiness("Asia/Jakarta")
	require.NoError(t, err)
	return b
}

func TestBusiness_DayRange(t *testing.T) {
	b := jakarta(t)

	// 2025-03-10 18:30 UTC is 2025-03-11 01:30 in Jakarta.
	instant := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	start, end := b.DayRange(instant)

	assert.Equal(t, "2025-03-11 00:00", start.Format("2006-01-02 15:04"))
	assert.Equal(t, "2025-03-12 00:00", end.Format("2006-01-02 15:04"))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, "2025-03-11", b.DateKey(instant))
}

func TestBusiness_MonthRange(t *testing.T) {
	b := jakarta(t)
	instant := time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC) // 2026-01-01 03:00 WIB

	start, end := b.MonthRange(instant)
	assert.Equal(t, "2026-01-01", start.Format("2006-01-02"))
	assert.Equal(t, "2026-02-01", end.Format("2006-01-02"))
}

func TestBusiness_MinuteOfDay(t *testing.T) {
	b := jakarta(t)
	// 02:15 UTC is 09:15 WIB regardless of the host timezone.
	instant := time.Date(2025, 3, 10, 2, 15, 0, 0, time.UTC)
	assert.Equal(t, 9*60+15, b.MinuteOfDay(instant))
}

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		input string
		want  int
		ok    bool
	}{
		{"09:00", 540, true},
		{"17:30", 1050, true},
		{"00:00", 0, true},
		{"23:59:59", 1439, true},
		{" 08:05 ", 485, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := ParseHHMM(c.input)
		if c.ok {
			assert.NoError(t, err, c.input)
			assert.Equal(t, c.want, got, c.input)
		} else {
			assert.Error(t, err, c.input)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "09:05", FormatMinutes(545))
	assert.Equal(t, "00:00", FormatMinutes(0))
}

func TestBusiness_MonthLabel(t *testing.T) {
	b := jakarta(t)

	assert.Equal(t, "Maret 2025", b.MonthLabel(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)))
	// last evening of December UTC is already January in Jakarta
	assert.Equal(t, "Januari 2026", b.MonthLabel(time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC)))
}
