package schedule

import "time"

const (
	defaultMonthPreview    = 3
	defaultMinDuration     = 15 * time.Minute
	defaultUpcomingHorizon = 90
)

// Options control how views are built. The zero value is usable: local
// timezone, Sunday week start, three-event month previews and a 15 minute
// layout floor for degenerate occurrences.
type Options struct {
	// Location is the timezone zone-naive timestamps and time-of-day
	// templates are interpreted in. If nil, time.Local is used.
	Location *time.Location

	// WeekStart is the first day of a rendered week.
	WeekStart time.Weekday

	// MonthPreview caps how many occurrences a month cell lists before
	// collapsing the rest into an overflow count.
	MonthPreview int

	// MinDuration is the layout floor applied to zero/negative-length
	// render windows. It never touches the display window.
	MinDuration time.Duration

	// UpcomingHorizonDays bounds how far ahead Upcoming scans.
	UpcomingHorizonDays int
}

func (o Options) normalized() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.MonthPreview <= 0 {
		o.MonthPreview = defaultMonthPreview
	}
	if o.MinDuration <= 0 {
		o.MinDuration = defaultMinDuration
	}
	if o.UpcomingHorizonDays <= 0 {
		o.UpcomingHorizonDays = defaultUpcomingHorizon
	}
	return o
}
