package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var ashgabat = time.FixedZone("+05", 5*3600)

func TestFormatDate(t *testing.T) {
	require.Equal(t, NotSet, FormatDate("", ashgabat))
	require.Equal(t, "02.01.2025", FormatDate("2025-01-02", ashgabat))
	require.Equal(t, "02.01.2025", FormatDate("2025-01-02T08:30:00", ashgabat))
	require.Equal(t, "15.06.2025", FormatDate("2025-06-15T10:00:00.123456+00:00", ashgabat))
}

func TestFormatDateFallback(t *testing.T) {
	// Короткий мусор возвращается как есть, длинный режется до 10 знаков.
	require.Equal(t, "bad-date", FormatDate("bad-date", ashgabat))
	require.Equal(t, "0123456789", FormatDate("0123456789garbage", ashgabat))
}

func TestFormatDateTime(t *testing.T) {
	require.Equal(t, NotSet, FormatDateTime("", ashgabat))
	require.Equal(t, "02.01.2025 08:30", FormatDateTime("2025-01-02T08:30:00", ashgabat))
	require.Equal(t, "0123456789abcdef", FormatDateTime("0123456789abcdefgarbage", ashgabat))
}

func TestFormatDateConvertsOffset(t *testing.T) {
	// 21:00 UTC уже следующий день в Ашхабаде.
	require.Equal(t, "11.03.2025", FormatDate("2025-03-10T21:00:00Z", ashgabat))
}

func TestDaysUntilDateOnly(t *testing.T) {
	// Ровно сутки вперёд дают 1 в любое время дня.
	for _, hhmm := range []string{"00:30", "12:00", "23:30"} {
		now, err := time.ParseInLocation("2006-01-02 15:04", "2025-05-10 "+hhmm, ashgabat)
		require.NoError(t, err)

		target := now.Add(24 * time.Hour).Format("2006-01-02T15:04:05")
		d, ok := DaysUntil(target, now, ashgabat)
		require.True(t, ok)
		require.Equal(t, 1, d, "now=%s", hhmm)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 5, 10, 17, 45, 0, 0, ashgabat)

	d, ok := DaysUntil("2025-05-10", now, ashgabat)
	require.True(t, ok)
	require.Equal(t, 0, d)

	d, ok = DaysUntil("2025-05-09T23:59:00", now, ashgabat)
	require.True(t, ok)
	require.Equal(t, -1, d)

	d, ok = DaysUntil("2025-05-13", now, ashgabat)
	require.True(t, ok)
	require.Equal(t, 3, d)

	_, ok = DaysUntil("", now, ashgabat)
	require.False(t, ok)

	_, ok = DaysUntil("not-a-date", now, ashgabat)
	require.False(t, ok)
}

func TestDaysUntilCrossZone(t *testing.T) {
	// now 21:00 UTC = 02:00 следующего дня по Ашхабаду.
	now := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	d, ok := DaysUntil("2025-03-11", now, ashgabat)
	require.True(t, ok)
	require.Equal(t, 0, d)
}

func TestParseTimestamp(t *testing.T) {
	_, ok := ParseTimestamp("", ashgabat)
	require.False(t, ok)

	got, ok := ParseTimestamp("2025-07-01 09:15:00", ashgabat)
	require.True(t, ok)
	require.Equal(t, 9, got.Hour())
	require.Equal(t, ashgabat, got.Location())
}
