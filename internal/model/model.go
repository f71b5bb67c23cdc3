package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Frequency values understood by recurrence rules. Anything else is treated
// permissively (matches every date).
const (
	FreqDaily   = "DAILY"
	FreqWeekly  = "WEEKLY"
	FreqMonthly = "MONTHLY"
	FreqYearly  = "YEARLY"
)

// ID is an event identifier. The REST payload carries it as either a JSON
// string or a JSON number; both decode into the same string form so that
// occurrence de-duplication keys stay stable.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty id value")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// RecurrenceRule constrains which dates a recurring event repeats on.
// Absent fields are wildcards: a zero DayOfMonth/MonthOfYear or an empty
// DaysOfWeek list places no constraint on that dimension.
type RecurrenceRule struct {
	Frequency   string   `json:"frequency" yaml:"frequency"`
	DaysOfWeek  []string `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty"`
	DayOfMonth  int      `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty"`
	MonthOfYear int      `json:"month_of_year,omitempty" yaml:"month_of_year,omitempty"`
}

// Event is a calendar event definition as delivered by the REST layer.
//
// For a non-recurring event StartTime/EndTime are the absolute interval.
// For a recurring event they are the time-of-day template: the date part is
// the series' first occurrence and the time-of-day is re-applied on every
// matched date. Timestamps stay as raw strings here; parsing happens at
// resolution time so a single malformed event can be skipped without
// aborting the batch.
type Event struct {
	ID                ID              `json:"id"`
	Title             string          `json:"title"`
	StartTime         string          `json:"start_time"`
	EndTime           string          `json:"end_time"`
	AllDay            bool            `json:"is_all_day"`
	Recurring         bool            `json:"recurring"`
	RecurrenceRule    *RecurrenceRule `json:"recurrence_rule,omitempty"`
	RecurrenceEndDate string          `json:"recurrence_end_date,omitempty"`
	Color             string          `json:"color,omitempty"`
}

// UnmarshalJSON accepts both `recurring` and its `is_recurring` alias.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	aux := struct {
		*plain
		IsRecurring bool `json:"is_recurring"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Recurring = e.Recurring || aux.IsRecurring
	return nil
}

// Occurrence is one concrete instance of an event on a specific calendar
// date, carrying both the render window (clipped to the day, used by layout
// math) and the display window (true start/end, used by labels/tooltips).
// Lane fields are filled in by lane packing; outside a packed day view they
// keep the stacked-view convention of lane 0 out of 1.
type Occurrence struct {
	Event

	RenderStart time.Time
	RenderEnd   time.Time

	DisplayStart time.Time
	DisplayEnd   time.Time

	LaneIndex int
	LaneCount int
}

// Key identifies an occurrence within a single day's result set.
func (o Occurrence) Key() string {
	return fmt.Sprintf("%v_%v_%v", o.ID, o.RenderStart.Unix(), o.RenderEnd.Unix())
}

// MultiDay reports whether the true event interval crosses a date boundary.
func (o Occurrence) MultiDay() bool {
	return o.DisplayStart.Year() != o.DisplayEnd.Year() ||
		o.DisplayStart.Month() != o.DisplayEnd.Month() ||
		o.DisplayStart.Day() != o.DisplayEnd.Day()
}

// DisplayDuration is the true, unclipped duration.
func (o Occurrence) DisplayDuration() time.Duration {
	return o.DisplayEnd.Sub(o.DisplayStart)
}

// LeftFraction is the horizontal offset of this occurrence's lane, as a
// fraction of the day column width.
func (o Occurrence) LeftFraction() float64 {
	if o.LaneCount <= 0 {
		return 0
	}
	return float64(o.LaneIndex) / float64(o.LaneCount)
}

// WidthFraction is the width of this occurrence's lane, as a fraction of
// the day column width. Fixed spacing insets are the renderer's concern.
func (o Occurrence) WidthFraction() float64 {
	if o.LaneCount <= 0 {
		return 1
	}
	return 1 / float64(o.LaneCount)
}

// timestampLayouts is the fallback chain for the ISO-8601 variants the
// backend emits: zoned date-times, zone-naive date-times and bare dates.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02", false},
}

// ParseTimeIn parses an ISO-8601 timestamp. Zone-naive values are
// interpreted in loc.
func ParseTimeIn(value string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, l := range timestampLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, v); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// ParseDateIn parses an ISO date (a bare date or the date part of a full
// timestamp), interpreted in loc.
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	t, err := ParseTimeIn(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
}
