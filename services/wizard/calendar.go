package wizard

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

const dateLayout = "2006-01-02"

// DateRange is the calendar step's selection. Dates are calendar days in the
// server's local zone; no instant semantics attached.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDay parses a YYYY-MM-DD string as a local calendar day
func ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Today returns the current local calendar day at midnight
func Today() time.Time {
	return now.BeginningOfDay()
}

// Select applies one click to the range. Rules:
//   - past days (before today) never change the selection
//   - no start yet: the day becomes the start, any end is cleared
//   - start set, no end: a later day becomes the end; the same day is a
//     no-op; an earlier day replaces the start
//   - full range present: the day becomes a fresh start, end cleared
func (r *DateRange) Select(day, today time.Time) {
	if day.Before(today) {
		return
	}

	if r.Start == nil {
		r.Start = &day
		r.End = nil
		return
	}

	if r.End == nil {
		switch {
		case day.After(*r.Start):
			r.End = &day
		case day.Equal(*r.Start):
			// no-op
		default:
			r.Start = &day
		}
		return
	}

	r.Start = &day
	r.End = nil
}

// Complete reports whether both ends of the range are chosen; only a full
// pair unlocks leaving the calendar step.
func (r *DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// StartString returns the start as YYYY-MM-DD, or "" when unset
func (r *DateRange) StartString() string {
	if r.Start == nil {
		return ""
	}
	return r.Start.Format(dateLayout)
}

// EndString returns the end as YYYY-MM-DD, or "" when unset
func (r *DateRange) EndString() string {
	if r.End == nil {
		return ""
	}
	return r.End.Format(dateLayout)
}

// MonthBounds returns the first and last day of the month containing day,
// for building the month-grid control.
func MonthBounds(day time.Time) (time.Time, time.Time) {
	n := now.New(day)
	return n.BeginningOfMonth(), n.EndOfMonth()
}
