package schedule

import (
	"strings"
	"time"

	"glancecal/internal/model"
)

// Matches reports whether date is an occurrence date for ev's recurrence
// rule. Non-recurring events never match; a recurring event with no rule at
// all matches every date (the rule shape is deliberately permissive: absent
// fields are wildcards). The end-date cut-off compares calendar dates, and
// weekday names are matched against the candidate date's own weekday.
func Matches(ev model.Event, date time.Time) bool {
	if !ev.Recurring {
		return false
	}

	if ev.RecurrenceEndDate != "" {
		// An unparseable end date is ignored rather than failing the
		// whole event; the series just runs unbounded.
		if end, err := model.ParseDateIn(ev.RecurrenceEndDate, date.Location()); err == nil {
			if dateAfter(date, end) {
				return false
			}
		}
	}

	rule := ev.RecurrenceRule
	if rule == nil {
		return true
	}

	switch strings.ToUpper(rule.Frequency) {
	case model.FreqDaily:
		return true
	case model.FreqWeekly:
		if len(rule.DaysOfWeek) == 0 {
			return true
		}
		name := date.Weekday().String()
		for _, d := range rule.DaysOfWeek {
			if strings.EqualFold(strings.TrimSpace(d), name) {
				return true
			}
		}
		return false
	case model.FreqMonthly:
		return rule.DayOfMonth == 0 || date.Day() == rule.DayOfMonth
	case model.FreqYearly:
		if rule.DayOfMonth == 0 || rule.MonthOfYear == 0 {
			return true
		}
		return date.Day() == rule.DayOfMonth && int(date.Month()) == rule.MonthOfYear
	default:
		// Unknown frequency: permissive.
		return true
	}
}

// dateAfter reports whether a's calendar date is strictly after b's.
func dateAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
