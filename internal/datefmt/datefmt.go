package datefmt

import "time"

// NotSet рисуем вместо отсутствующих дат.
const NotSet = "not set"

// Бэкенд отдаёт время строками в нескольких вариантах ISO-8601,
// от самого подробного к голой дате.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses a raw backend timestamp. Values without an
// explicit offset are taken in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders DD.MM.YYYY in loc. Absent input becomes NotSet,
// unparseable input degrades to its first 10 characters.
func FormatDate(raw string, loc *time.Location) string {
	if raw == "" {
		return NotSet
	}
	t, ok := ParseTimestamp(raw, loc)
	if !ok {
		return clip(raw, 10)
	}
	return t.In(loc).Format("02.01.2006")
}

// FormatDateTime renders DD.MM.YYYY HH:MM, degrading to the first
// 16 characters.
func FormatDateTime(raw string, loc *time.Location) string {
	if raw == "" {
		return NotSet
	}
	t, ok := ParseTimestamp(raw, loc)
	if !ok {
		return clip(raw, 16)
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

// DaysUntil returns the whole calendar days from now to the target,
// both taken as dates in loc. Time of day never shifts the result.
func DaysUntil(raw string, now time.Time, loc *time.Location) (int, bool) {
	t, ok := ParseTimestamp(raw, loc)
	if !ok {
		return 0, false
	}
	target := midnight(t.In(loc))
	today := midnight(now.In(loc))
	return int(target.Sub(today).Hours() / 24), true
}

// midnight пересобирает дату в UTC, чтобы сутки всегда были ровно 24 часа.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
