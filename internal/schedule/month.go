package schedule

import (
	"errors"
	"fmt"
	"time"
)

// monthLayout is the billing month key format
const monthLayout = "2006-01"

// dateLayout is the calendar date format used at the API boundary
const dateLayout = "2006-01-02"

var (
	ErrInvalidMonth = errors.New("invalid billing month")
	ErrInvalidDate  = errors.New("invalid date")
)

// Month is a billing month
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses YYYY-MM key
func ParseMonth(key string) (Month, error) {
	t, err := time.Parse(monthLayout, key)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, key)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns month the date belongs to
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String returns zero padded YYYY-MM key
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns first day of month
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns last day of month
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Next returns the following month
func (m Month) Next() Month {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// ParseDate parses YYYY-MM-DD into UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Day truncates t to its calendar date in UTC.
// Database DATE values and parsed dates already are UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
