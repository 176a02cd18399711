package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tartampluch/go-agewidget/internal/config"
)

var (
	// ErrInvalidDateFormat reports text that is not shaped YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New(config.ErrDateFormat)

	// ErrImpossibleDate reports a well-formed date that does not exist (2024-02-30).
	ErrImpossibleDate = errors.New(config.ErrDateImpossible)
)

var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// CalendarDate is a civil date without time of day or zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD string. It reports false for any
// other shape and for dates that do not exist in the Gregorian calendar.
func ParseDate(text string) (CalendarDate, bool) {
	d, err := ParseDateStrict(text)
	return d, err == nil
}

// ParseDateStrict is ParseDate with the reason for a rejection.
func ParseDateStrict(text string) (CalendarDate, error) {
	m := isoDatePattern.FindStringSubmatch(text)
	if m == nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, text)
	}

	// The pattern guarantees digits, Atoi cannot fail.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	// time.Date normalizes overflow (Feb 30 -> Mar 1); the round trip rejects it.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrImpossibleDate, text)
	}
	return DateOf(t), nil
}

// DateOf returns the civil date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDate shifts the date by whole years and months. Days that do not exist
// in the target month roll forward the way time.Date normalizes them, so
// Feb 29 plus one year is Mar 1 and Jan 31 plus one month is early March.
func (d CalendarDate) AddDate(years, months int) CalendarDate {
	return DateOf(time.Date(d.Year+years, d.Month+time.Month(months), d.Day, 0, 0, 0, 0, time.UTC))
}

// Before reports whether d is strictly earlier than other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.compare(other) < 0
}

// After reports whether d is strictly later than other.
func (d CalendarDate) After(other CalendarDate) bool {
	return d.compare(other) > 0
}

func (d CalendarDate) compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return d.Year - other.Year
	case d.Month != other.Month:
		return int(d.Month - other.Month)
	default:
		return d.Day - other.Day
	}
}

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return d.Time().Format(config.DateFormatISO)
}

// daysBetween returns the number of whole days from a to b.
func daysBetween(a, b CalendarDate) int {
	const secondsPerDay = 24 * 60 * 60
	return int((b.Time().Unix() - a.Time().Unix()) / secondsPerDay)
}
