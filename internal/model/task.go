package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus = errors.New("model: invalid task status")
	ErrInvalidDate   = errors.New("model: invalid task date")
	ErrInvalidTime   = errors.New("model: invalid task time")
)

// DateLayout is the wire and storage form of a calendar date. Dates are
// calendar-local values, never UTC instants; parsing goes through
// ParseDate so a date-only string cannot shift across midnight.
const DateLayout = "2006-01-02"

// TimeLayout is the wire form of a time of day, 24-hour clock.
const TimeLayout = "15:04"

type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDone:
		return true
	default:
		return false
	}
}

// Task is a scheduled item as the client sees it. Day is derived from
// TaskDate and is never trusted from a server payload.
type Task struct {
	ID       string
	Title    string
	TaskDate string
	TaskTime string
	Day      string
	RRule    string
	Status   Status
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.TaskDate != "" {
		if _, err := ParseDate(t.TaskDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, t.TaskDate)
		}
	}
	if t.TaskTime != "" {
		if _, _, err := ParseClock(t.TaskTime); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTime, t.TaskTime)
		}
	}
	if t.Day != "" && t.TaskDate != "" && t.Day != Weekday(t.TaskDate) {
		return fmt.Errorf("model: day %q does not match task_date %q", t.Day, t.TaskDate)
	}
	return nil
}

// WithDerivedDay returns a copy with Day recomputed from TaskDate.
func (t Task) WithDerivedDay() Task {
	t.Day = Weekday(t.TaskDate)
	return t
}

// ParseDate parses a YYYY-MM-DD string in local calendar time.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

// FormatDate renders a date as YYYY-MM-DD from its own calendar fields,
// so FormatDate(ParseDate(s)) == s for every valid s.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock splits an HH:mm (or HH:mm:ss) string into hour and
// minute. A single-digit hour like "9:00" is accepted; callers render
// the canonical zero-padded form themselves.
func ParseClock(value string) (hour, minute int, err error) {
	trimmed := strings.TrimSpace(value)
	// Tolerate a seconds component from stricter backends and an
	// unpadded hour from hand-typed input.
	parts := strings.Split(trimmed, ":")
	if len(parts) == 3 {
		parts = parts[:2]
	}
	if len(parts) == 2 && len(parts[0]) == 1 {
		parts[0] = "0" + parts[0]
	}
	trimmed = strings.Join(parts, ":")
	parsed, parseErr := time.Parse(TimeLayout, trimmed)
	if parseErr != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

var weekdayAbbrevs = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Weekday returns the three-letter weekday of a YYYY-MM-DD date, or ""
// when the date does not parse.
func Weekday(date string) string {
	parsed, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return weekdayAbbrevs[int(parsed.Weekday())]
}
