package schedule

import (
	"sort"
	"time"

	"glancecal/internal/model"
)

// Upcoming returns the next occurrences whose display start is at or after
// now, ordered by start, capped to limit. now is an explicit input so the
// result is a pure function of (events, now); the scan is bounded by
// Options.UpcomingHorizonDays.
func Upcoming(events []model.Event, now time.Time, limit int, opts Options) []model.Occurrence {
	if limit <= 0 || now.IsZero() {
		return nil
	}
	opts = opts.normalized()

	var out []model.Occurrence
	seen := make(map[string]struct{})

	for d := 0; d <= opts.UpcomingHorizonDays; d++ {
		date := StartOfDay(now).AddDate(0, 0, d)
		for _, occ := range SelectForDay(events, date, opts) {
			if occ.DisplayStart.Before(now) {
				continue
			}
			// A multi-day occurrence shows up on several dates; keep
			// one entry per concrete start.
			key := string(occ.ID) + "_" + occ.DisplayStart.UTC().Format(time.RFC3339)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, occ)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DisplayStart.Equal(out[j].DisplayStart) {
			return out[i].DisplayStart.Before(out[j].DisplayStart)
		}
		return out[i].DisplayEnd.Before(out[j].DisplayEnd)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
