package schedule

import (
	"sort"
	"time"

	appLog "glancecal/internal/log"
	"glancecal/internal/model"
)

// SelectForDay filters events down to the occurrences relevant to date,
// clips them to the day's UTC boundaries and orders them for lane
// assignment (longest first, then earliest start, so long events claim low
// lanes and fragment the layout less).
//
// Relevance rules:
//   - recurring events must match the recurrence rule for date AND their
//     resolved interval must intersect the day (so an overnight occurrence
//     started the previous evening still shows up);
//   - all-day and plain timed events are attributed to the calendar date of
//     their original start only; a multi-day timed event is not split
//     across days here.
//
// Events with unparseable timestamps are logged and skipped; the rest of
// the list is still processed.
func SelectForDay(events []model.Event, date time.Time, opts Options) []model.Occurrence {
	opts = opts.normalized()

	dayStart := DayStart(date)
	dayEnd := DayEnd(date)

	var out []model.Occurrence
	seen := make(map[string]struct{})

	for _, ev := range events {
		w, err := Resolve(ev, date, opts.Location)
		if err != nil {
			appLog.Error("skipping event with malformed timestamps", err, "event_id", ev.ID, "title", ev.Title)
			continue
		}

		if ev.Recurring {
			if !Matches(ev, date) {
				continue
			}
			if w.EventEnd.Before(dayStart) || w.EventStart.After(dayEnd) {
				continue
			}
		} else if !startsOn(ev, date, opts.Location) {
			continue
		}

		occ := model.Occurrence{
			Event:        ev,
			RenderStart:  maxTime(w.EventStart, dayStart),
			RenderEnd:    minTime(w.EventEnd, dayEnd),
			DisplayStart: w.DisplayStart,
			DisplayEnd:   w.DisplayEnd,
			LaneIndex:    0,
			LaneCount:    1,
		}

		// Layout floor for degenerate intervals, capped at the day end.
		if floor := occ.RenderStart.Add(opts.MinDuration); occ.RenderEnd.Before(floor) {
			occ.RenderEnd = minTime(floor, dayEnd)
		}

		if _, dup := seen[occ.Key()]; dup {
			continue
		}
		seen[occ.Key()] = struct{}{}
		out = append(out, occ)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di := out[i].RenderEnd.Sub(out[i].RenderStart)
		dj := out[j].RenderEnd.Sub(out[j].RenderStart)
		if di != dj {
			return di > dj
		}
		return out[i].RenderStart.Before(out[j].RenderStart)
	})

	return out
}

// startsOn reports whether ev's original start_time falls on date's
// calendar date. All-day events carry date-only or midnight timestamps, so
// the same comparison covers both the all-day and plain timed branches.
func startsOn(ev model.Event, date time.Time, loc *time.Location) bool {
	start, err := model.ParseTimeIn(ev.StartTime, loc)
	if err != nil {
		appLog.Error("skipping event with malformed start_time", err, "event_id", ev.ID, "title", ev.Title)
		return false
	}
	sy, sm, sd := start.In(loc).Date()
	dy, dm, dd := date.Date()
	return sy == dy && sm == dm && sd == dd
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
