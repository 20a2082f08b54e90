package schedule

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRecurrence = errors.New("invalid recurrence")

// Recurrence is an order delivery schedule: inclusive date range plus weekday set
type Recurrence struct {
	Start time.Time
	End   time.Time
	Days  Days
}

// NewRecurrence creates recurrence, dates are truncated to calendar days
func NewRecurrence(start, end time.Time, days Days) (Recurrence, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return Recurrence{}, fmt.Errorf("%w: end date %s before start date %s",
			ErrInvalidRecurrence, FormatDate(end), FormatDate(start))
	}
	return Recurrence{Start: start, End: end, Days: days}, nil
}

// DeliversOn reports whether there is a delivery on date
func (r Recurrence) DeliversOn(date time.Time) bool {
	date = Day(date)
	if date.Before(r.Start) || date.After(r.End) {
		return false
	}
	return r.Days.Has(date.Weekday())
}

// OverlapsMonth reports whether the date range touches month.
// It does not look at weekdays, a month without a single delivery still overlaps.
func (r Recurrence) OverlapsMonth(m Month) bool {
	key := m.String()
	return MonthOf(r.Start).String() <= key && key <= MonthOf(r.End).String()
}

// Window returns intersection of the recurrence range and month
func (r Recurrence) Window(m Month) (from, to time.Time, ok bool) {
	from, to = m.First(), m.Last()
	if r.Start.After(from) {
		from = r.Start
	}
	if r.End.Before(to) {
		to = r.End
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Occurrences counts delivery dates between from and to inclusive
func (r Recurrence) Occurrences(from, to time.Time) int {
	n := 0
	for d := Day(from); !d.After(Day(to)); d = d.AddDate(0, 0, 1) {
		if r.DeliversOn(d) {
			n++
		}
	}
	return n
}

// NominalOccurrences counts dates of month matching the weekday pattern,
// ignoring the date range
func (r Recurrence) NominalOccurrences(m Month) int {
	n := 0
	for d := m.First(); !d.After(m.Last()); d = d.AddDate(0, 0, 1) {
		if r.Days.Has(d.Weekday()) {
			n++
		}
	}
	return n
}

// DeliveryDates lists delivery dates of month
func (r Recurrence) DeliveryDates(m Month) []time.Time {
	dates := []time.Time{}
	from, to, ok := r.Window(m)
	if !ok {
		return dates
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if r.DeliversOn(d) {
			dates = append(dates, d)
		}
	}
	return dates
}
