package schedule

import (
	"fmt"
	"time"

	"glancecal/internal/model"
)

// Window is the concrete start/end of one day's occurrence of an event:
// the event window feeds clipping and layout, the display window is the
// true interval shown in labels and tooltips.
type Window struct {
	EventStart time.Time
	EventEnd   time.Time

	DisplayStart time.Time
	DisplayEnd   time.Time
}

// DayStart is the UTC midnight boundary of date.
func DayStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayEnd is the UTC 23:59:59 boundary of date.
func DayEnd(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// Resolve computes the concrete window of ev's occurrence on date.
//
//   - All-day events span the entire day in UTC; the template time-of-day
//     is irrelevant.
//   - Recurring timed events re-apply the template's time-of-day to date's
//     year/month/day in loc.
//   - Plain single events keep their literal start/end, unmodified by date.
//
// No clipping happens here; SelectForDay clips against the day boundaries.
func Resolve(ev model.Event, date time.Time, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}

	if ev.AllDay {
		ds, de := DayStart(date), DayEnd(date)
		return Window{EventStart: ds, EventEnd: de, DisplayStart: ds, DisplayEnd: de}, nil
	}

	start, err := model.ParseTimeIn(ev.StartTime, loc)
	if err != nil {
		return Window{}, fmt.Errorf("event %v start_time: %w", ev.ID, err)
	}
	end, err := model.ParseTimeIn(ev.EndTime, loc)
	if err != nil {
		return Window{}, fmt.Errorf("event %v end_time: %w", ev.ID, err)
	}

	if ev.Recurring {
		y, m, d := date.Date()
		s := start.In(loc)
		e := end.In(loc)
		occStart := time.Date(y, m, d, s.Hour(), s.Minute(), s.Second(), 0, loc)
		occEnd := time.Date(y, m, d, e.Hour(), e.Minute(), e.Second(), 0, loc)
		// Overnight template: the end time-of-day precedes the start's,
		// so the occurrence runs into the next day.
		if occEnd.Before(occStart) {
			occEnd = occEnd.AddDate(0, 0, 1)
		}
		return Window{EventStart: occStart, EventEnd: occEnd, DisplayStart: occStart, DisplayEnd: occEnd}, nil
	}

	return Window{EventStart: start, EventEnd: end, DisplayStart: start, DisplayEnd: end}, nil
}
