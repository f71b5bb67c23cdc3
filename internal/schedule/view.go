package schedule

import (
	"errors"
	"sort"
	"time"

	"glancecal/internal/model"
)

// View selects which builder navigation operates on.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// ErrInvalidAnchor is returned when a builder receives a zero anchor date.
var ErrInvalidAnchor = errors.New("schedule: invalid anchor date")

// DayView is a single packed day: occurrences with lane assignments plus
// the day's total lane count for column-width layout.
type DayView struct {
	Date        time.Time
	Occurrences []model.Occurrence
	Lanes       int
}

// DayTimeline is one day's occurrences stacked vertically (no lanes),
// ordered single-day first, then by start time.
type DayTimeline struct {
	Date        time.Time
	Occurrences []model.Occurrence
}

// WeekView covers the 7 days from the start of the anchor's week.
type WeekView struct {
	Start time.Time
	Days  []DayTimeline
}

// MonthCell is one cell of the month grid: a capped preview of the day's
// occurrences plus how many were cut off.
type MonthCell struct {
	Date     time.Time
	InMonth  bool
	Preview  []model.Occurrence
	Overflow int
}

// MonthView is a rectangular month grid: full weeks, padded with leading
// and trailing out-of-month days.
type MonthView struct {
	Anchor time.Time
	Weeks  [][]MonthCell
}

// BuildDayView selects and lane-packs the occurrences for a single date.
func BuildDayView(events []model.Event, date time.Time, opts Options) (*DayView, error) {
	if date.IsZero() {
		return nil, ErrInvalidAnchor
	}
	occs, lanes := Pack(SelectForDay(events, date, opts))
	return &DayView{Date: date, Occurrences: occs, Lanes: lanes}, nil
}

// BuildWeekView selects occurrences for the 7 days starting at the
// beginning of anchor's week. Timeline days stack vertically, so no lane
// packing is applied; multi-day occurrences sort after single-day ones.
func BuildWeekView(events []model.Event, anchor time.Time, opts Options) (*WeekView, error) {
	if anchor.IsZero() {
		return nil, ErrInvalidAnchor
	}
	opts = opts.normalized()

	start := StartOfWeek(anchor, opts.WeekStart)
	week := &WeekView{Start: start, Days: make([]DayTimeline, 0, 7)}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		occs := SelectForDay(events, day, opts)
		sortTimeline(occs)
		week.Days = append(week.Days, DayTimeline{Date: day, Occurrences: occs})
	}
	return week, nil
}

// BuildMonthView builds the rectangular grid for anchor's month, capping
// each cell to a small preview plus an overflow counter.
func BuildMonthView(events []model.Event, anchor time.Time, opts Options) (*MonthView, error) {
	if anchor.IsZero() {
		return nil, ErrInvalidAnchor
	}
	opts = opts.normalized()

	monthStart := StartOfMonth(anchor)
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := StartOfWeek(monthStart, opts.WeekStart)
	gridEnd := StartOfWeek(monthEnd, opts.WeekStart).AddDate(0, 0, 6)

	view := &MonthView{Anchor: anchor}
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 7) {
		row := make([]MonthCell, 0, 7)
		for i := 0; i < 7; i++ {
			date := day.AddDate(0, 0, i)
			occs := SelectForDay(events, date, opts)
			cell := MonthCell{
				Date:    date,
				InMonth: date.Month() == monthStart.Month() && date.Year() == monthStart.Year(),
				Preview: occs,
			}
			if len(occs) > opts.MonthPreview {
				cell.Preview = occs[:opts.MonthPreview]
				cell.Overflow = len(occs) - opts.MonthPreview
			}
			row = append(row, cell)
		}
		view.Weeks = append(view.Weeks, row)
	}
	return view, nil
}

// Previous shifts the anchor one view unit back.
func Previous(anchor time.Time, view View) time.Time {
	switch view {
	case ViewWeek:
		return anchor.AddDate(0, 0, -7)
	case ViewMonth:
		return anchor.AddDate(0, -1, 0)
	default:
		return anchor.AddDate(0, 0, -1)
	}
}

// Next shifts the anchor one view unit forward.
func Next(anchor time.Time, view View) time.Time {
	switch view {
	case ViewWeek:
		return anchor.AddDate(0, 0, 7)
	case ViewMonth:
		return anchor.AddDate(0, 1, 0)
	default:
		return anchor.AddDate(0, 0, 1)
	}
}

// Today returns the anchor for the current view unit. now is injected by
// the caller; nothing here reads the wall clock.
func Today(now time.Time, view View, opts Options) time.Time {
	opts = opts.normalized()
	today := StartOfDay(now)
	switch view {
	case ViewWeek:
		return StartOfWeek(today, opts.WeekStart)
	case ViewMonth:
		return StartOfMonth(today)
	default:
		return today
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek walks t back to the most recent weekStart day.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	t = StartOfDay(t)
	back := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return t.AddDate(0, 0, -back)
}

// StartOfMonth truncates t to the first of its month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func sortTimeline(occs []model.Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		mi, mj := occs[i].MultiDay(), occs[j].MultiDay()
		if mi != mj {
			return !mi
		}
		return occs[i].DisplayStart.Before(occs[j].DisplayStart)
	})
}
