package daterange

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidRange  = errors.New("daterange: end must be after start")
	ErrInvalidDayKey = errors.New("daterange: day key must be formatted as YYYY-MM-DD")
)

// KeyLayout is the canonical layout of a day key.
const KeyLayout = "2006-01-02"

// DateRange represents a half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: start.UTC(), End: end.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Horizon returns the range covering days calendar days beginning at the day of start.
func Horizon(start time.Time, days int) DateRange {
	from := StartOfDay(start)
	if days < 0 {
		days = 0
	}
	return DateRange{Start: from, End: from.AddDate(0, 0, days)}
}

func (dr DateRange) Validate() error {
	if dr.End.IsZero() || dr.Start.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days counts the calendar days touched by the range.
func (dr DateRange) Days() int {
	if !dr.End.After(dr.Start) {
		return 0
	}
	first := StartOfDay(dr.Start)
	last := StartOfDay(dr.End.Add(-time.Nanosecond))
	return int(last.Sub(first).Hours()/24) + 1
}

// EachDay returns the midnight of every calendar day touched by the range, in order.
func (dr DateRange) EachDay() []time.Time {
	n := dr.Days()
	out := make([]time.Time, 0, n)
	first := StartOfDay(dr.Start)
	for i := 0; i < n; i++ {
		out = append(out, first.AddDate(0, 0, i))
	}
	return out
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return (t.Equal(dr.Start) || t.After(dr.Start)) && t.Before(dr.End)
}

// StartOfDay truncates t to midnight of its UTC calendar day. Day keys are
// timezone-naive calendar dates; UTC is the only reference used.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats the calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(KeyLayout)
}

// ParseDayKey parses a YYYY-MM-DD key into UTC midnight.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, strings.TrimSpace(key), time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDayKey
	}
	return t, nil
}

func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return DayKey(a) == DayKey(b)
}

// IsWithinWindow reports whether the day of t lies in [start, end]; the end day
// is inclusive.
func IsWithinWindow(t, start, end time.Time) bool {
	day := StartOfDay(t)
	return !day.Before(StartOfDay(start)) && !day.After(StartOfDay(end))
}

// DayOfWeekName returns the lower-cased English weekday of t.
func DayOfWeekName(t time.Time) string {
	return strings.ToLower(t.UTC().Weekday().String())
}
