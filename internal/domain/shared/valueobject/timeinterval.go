package valueobject

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

// ErrInvalidInterval is returned when an interval's bounds are not a valid half-open range
type ErrInvalidInterval struct {
	Reason string
}

// Error implements the error interface
func (e *ErrInvalidInterval) Error() string {
	return fmt.Sprintf("invalid interval: %s", e.Reason)
}

// TimeInterval is a half-open interval [start,end) of wall-clock minutes on a
// single calendar day. Times are venue-local and timezone-naive; intervals on
// different dates never overlap.
type TimeInterval struct {
	date        time.Time // normalized to midnight UTC, date component only
	startMinute int       // minutes from midnight, inclusive
	endMinute   int       // minutes from midnight, exclusive
}

// NewTimeInterval creates a validated TimeInterval.
// start and end are minutes-of-day; end must be strictly after start.
func NewTimeInterval(date time.Time, startMinute, endMinute int) (TimeInterval, error) {
	if startMinute < 0 || startMinute >= minutesPerDay {
		return TimeInterval{}, &ErrInvalidInterval{Reason: fmt.Sprintf("start minute %d out of range", startMinute)}
	}
	if endMinute <= 0 || endMinute > minutesPerDay {
		return TimeInterval{}, &ErrInvalidInterval{Reason: fmt.Sprintf("end minute %d out of range", endMinute)}
	}
	if endMinute <= startMinute {
		return TimeInterval{}, &ErrInvalidInterval{Reason: "end must be after start"}
	}
	return TimeInterval{
		date:        NormalizeDate(date),
		startMinute: startMinute,
		endMinute:   endMinute,
	}, nil
}

// ParseTimeInterval creates a TimeInterval from "HH:MM" clock strings
func ParseTimeInterval(date time.Time, start, end string) (TimeInterval, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return TimeInterval{}, &ErrInvalidInterval{Reason: err.Error()}
	}
	endMin, err := parseClock(end)
	if err != nil {
		return TimeInterval{}, &ErrInvalidInterval{Reason: err.Error()}
	}
	return NewTimeInterval(date, startMin, endMin)
}

// NormalizeDate strips the time-of-day component, keeping the calendar date only
func NormalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// Date returns the calendar date of the interval
func (i TimeInterval) Date() time.Time {
	return i.date
}

// StartMinute returns the inclusive start in minutes-of-day
func (i TimeInterval) StartMinute() int {
	return i.startMinute
}

// EndMinute returns the exclusive end in minutes-of-day
func (i TimeInterval) EndMinute() int {
	return i.endMinute
}

// IsZero returns true for the zero-value interval
func (i TimeInterval) IsZero() bool {
	return i.date.IsZero() && i.startMinute == 0 && i.endMinute == 0
}

// Overlaps reports whether both intervals share the same calendar date and
// their half-open ranges intersect. A booking ending at 14:00 does not
// conflict with one starting at 14:00.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	if !i.date.Equal(other.date) {
		return false
	}
	return i.startMinute < other.endMinute && other.startMinute < i.endMinute
}

// DurationHours returns the interval length in hours as an exact decimal
func (i TimeInterval) DurationHours() decimal.Decimal {
	return decimal.NewFromInt(int64(i.endMinute - i.startMinute)).Div(decimal.NewFromInt(60))
}

// IsWeekend reports whether the interval falls on a Saturday or Sunday
func (i TimeInterval) IsWeekend() bool {
	wd := i.date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// String returns a human-readable representation, e.g. "2025-03-01 10:00-14:00"
func (i TimeInterval) String() string {
	return fmt.Sprintf("%s %02d:%02d-%02d:%02d",
		i.date.Format("2006-01-02"),
		i.startMinute/60, i.startMinute%60,
		i.endMinute/60, i.endMinute%60)
}
