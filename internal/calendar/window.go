package calendar

import (
	"time"

	"github.com/FanchonSora/V-Assistant/internal/model"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	default:
		return false
	}
}

// MonthGridCells is the fixed size of the month view: 5 rows of 7 days.
const MonthGridCells = 35

// Window is a contiguous date range driving both queries and rendering.
// Start and End are inclusive day boundaries at local midnight; Cells
// lists every day of the grid in order.
type Window struct {
	Granularity Granularity
	Anchor      time.Time
	Start       time.Time
	End         time.Time
	Cells       []time.Time
}

// Contains reports whether a YYYY-MM-DD date falls inside the window.
func (w Window) Contains(date string) bool {
	day, err := model.ParseDate(date)
	if err != nil {
		return false
	}
	return !day.Before(w.Start) && !day.After(w.End)
}

// CellIndex returns the grid position of a date, or -1 when outside.
func (w Window) CellIndex(date string) int {
	day, err := model.ParseDate(date)
	if err != nil {
		return -1
	}
	for i, cell := range w.Cells {
		if sameDay(cell, day) {
			return i
		}
	}
	return -1
}

// Resolve turns a raw route date plus a granularity into a canonical
// window. Malformed or empty input falls back to now; Resolve never
// fails, a bad URL must not take down the view.
func Resolve(raw string, g Granularity, now time.Time) Window {
	anchor, err := model.ParseDate(raw)
	if err != nil {
		anchor = startOfDay(now)
	}
	anchor = startOfDay(anchor)
	if !g.IsValid() {
		g = GranularityWeek
	}

	switch g {
	case GranularityDay:
		return Window{
			Granularity: g,
			Anchor:      anchor,
			Start:       anchor,
			End:         anchor,
			Cells:       []time.Time{anchor},
		}
	case GranularityMonth:
		return resolveMonth(anchor)
	default:
		return resolveWeek(anchor)
	}
}

// resolveWeek anchors on the Monday on-or-before the input date. Sunday
// steps 6 days back rather than 0 forward so the 7-day grid is stable.
func resolveWeek(anchor time.Time) Window {
	offset := 1 - int(anchor.Weekday())
	if anchor.Weekday() == time.Sunday {
		offset = -6
	}
	start := anchor.AddDate(0, 0, offset)
	cells := make([]time.Time, 7)
	for i := range cells {
		cells[i] = start.AddDate(0, 0, i)
	}
	return Window{
		Granularity: GranularityWeek,
		Anchor:      anchor,
		Start:       start,
		End:         cells[6],
		Cells:       cells,
	}
}

// resolveMonth emits a 35-cell grid starting from the Sunday on-or-before
// the 1st of the anchor's month. The month grid is Sunday-first even
// though week windows anchor on Monday; the two views disagree on
// purpose and callers must not assume a shared week start.
func resolveMonth(anchor time.Time) Window {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	start := first.AddDate(0, 0, -int(first.Weekday()))
	cells := make([]time.Time, MonthGridCells)
	for i := range cells {
		cells[i] = start.AddDate(0, 0, i)
	}
	return Window{
		Granularity: GranularityMonth,
		Anchor:      anchor,
		Start:       start,
		End:         cells[MonthGridCells-1],
		Cells:       cells,
	}
}

// Shift moves the window anchor by delta periods of its own granularity
// and re-resolves.
func (w Window) Shift(delta int) Window {
	switch w.Granularity {
	case GranularityDay:
		return Resolve(model.FormatDate(w.Anchor.AddDate(0, 0, delta)), w.Granularity, w.Anchor)
	case GranularityMonth:
		return Resolve(model.FormatDate(w.Anchor.AddDate(0, delta, 0)), w.Granularity, w.Anchor)
	default:
		return Resolve(model.FormatDate(w.Anchor.AddDate(0, 0, 7*delta)), w.Granularity, w.Anchor)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
