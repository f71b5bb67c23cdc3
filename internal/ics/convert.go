package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "glancecal/internal/log"
	"glancecal/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ImportConfig controls how ICS events are converted into engine events.
type ImportConfig struct {
	// RangeStart / RangeEnd bound the expansion window for recurrence
	// rules that cannot be translated into the engine's rule shape.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps expansion of a single VEVENT. If zero,
	// defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// Import parses an ICS payload and converts it into engine event records.
//
// Plain VEVENTs map one-to-one. Recurring VEVENTs whose RRULE fits the
// engine's rule shape (single-step DAILY/WEEKLY/MONTHLY/YEARLY, optional
// UNTIL, no exceptions) become a single recurring event; everything else is
// expanded into concrete single events within [RangeStart, RangeEnd].
func Import(src Source, body []byte, cfg ImportConfig) ([]model.Event, error) {
	parsed, err := Parse(src, body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.ID, err)
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	var out []model.Event
	for _, pe := range parsed {
		out = append(out, convertEvent(pe, cfg)...)
	}
	return out, nil
}

func convertEvent(pe ParsedEvent, cfg ImportConfig) []model.Event {
	if pe.RawRRule == "" {
		return []model.Event{singleEvent(pe, pe.Start, pe.End)}
	}

	if ev, ok := translateRule(pe); ok {
		return []model.Event{ev}
	}
	return expandRule(pe, cfg)
}

// singleEvent builds a non-recurring event record for one concrete
// interval.
func singleEvent(pe ParsedEvent, start, end time.Time) model.Event {
	ev := model.Event{
		ID:     importedID(pe.Source, pe.UID),
		Title:  pe.Summary,
		AllDay: pe.AllDay,
		Color:  pe.Source.Color,
	}
	if pe.AllDay {
		ev.StartTime = start.Format("2006-01-02")
		ev.EndTime = end.Format("2006-01-02")
	} else {
		ev.StartTime = start.Format(time.RFC3339)
		ev.EndTime = end.Format(time.RFC3339)
	}
	return ev
}

// translateRule maps an RRULE onto the engine's rule shape when the
// semantics line up exactly. RRULE occurrences are anchored at DTSTART, so
// constraints the rule leaves implicit (the start's weekday, day-of-month,
// month) are made explicit; the engine treats absent fields as wildcards.
func translateRule(pe ParsedEvent) (model.Event, bool) {
	opt, err := rrule.StrToROption(pe.RawRRule)
	if err != nil {
		appLog.Error("ics rrule parse failed", err, "source", pe.Source.ID, "uid", pe.UID, "rrule", pe.RawRRule)
		return model.Event{}, false
	}

	if opt.Interval > 1 || opt.Count > 0 || len(pe.ExDates) > 0 {
		return model.Event{}, false
	}
	if len(opt.Bysetpos) > 0 || len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 {
		return model.Event{}, false
	}

	rule := &model.RecurrenceRule{}
	switch opt.Freq {
	case rrule.DAILY:
		if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 {
			return model.Event{}, false
		}
		rule.Frequency = model.FreqDaily
	case rrule.WEEKLY:
		if len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 {
			return model.Event{}, false
		}
		rule.Frequency = model.FreqWeekly
		if len(opt.Byweekday) == 0 {
			rule.DaysOfWeek = []string{pe.Start.Weekday().String()}
		} else {
			for _, wd := range opt.Byweekday {
				name, ok := weekdayName(wd)
				if !ok {
					return model.Event{}, false
				}
				rule.DaysOfWeek = append(rule.DaysOfWeek, name)
			}
		}
	case rrule.MONTHLY:
		if len(opt.Byweekday) > 0 || len(opt.Bymonth) > 0 || len(opt.Bymonthday) > 1 {
			return model.Event{}, false
		}
		rule.Frequency = model.FreqMonthly
		rule.DayOfMonth = pe.Start.Day()
		if len(opt.Bymonthday) == 1 {
			rule.DayOfMonth = opt.Bymonthday[0]
		}
	case rrule.YEARLY:
		if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 1 || len(opt.Bymonth) > 1 {
			return model.Event{}, false
		}
		rule.Frequency = model.FreqYearly
		rule.DayOfMonth = pe.Start.Day()
		rule.MonthOfYear = int(pe.Start.Month())
		if len(opt.Bymonthday) == 1 {
			rule.DayOfMonth = opt.Bymonthday[0]
		}
		if len(opt.Bymonth) == 1 {
			rule.MonthOfYear = opt.Bymonth[0]
		}
	default:
		return model.Event{}, false
	}

	if rule.DayOfMonth < 0 {
		// Negative BYMONTHDAY (counting from month end) has no engine
		// counterpart.
		return model.Event{}, false
	}

	ev := singleEvent(pe, pe.Start, pe.End)
	ev.Recurring = true
	ev.RecurrenceRule = rule
	if !opt.Until.IsZero() {
		ev.RecurrenceEndDate = opt.Until.Format("2006-01-02")
	}
	return ev, true
}

// weekdayName maps plain BYDAY values onto full English weekday names.
// Ordinal forms (2MO, -1FR) fail the mapping and force expansion.
func weekdayName(wd rrule.Weekday) (string, bool) {
	switch wd {
	case rrule.SU:
		return time.Sunday.String(), true
	case rrule.MO:
		return time.Monday.String(), true
	case rrule.TU:
		return time.Tuesday.String(), true
	case rrule.WE:
		return time.Wednesday.String(), true
	case rrule.TH:
		return time.Thursday.String(), true
	case rrule.FR:
		return time.Friday.String(), true
	case rrule.SA:
		return time.Saturday.String(), true
	default:
		return "", false
	}
}

// expandRule materializes a non-translatable RRULE into concrete single
// events within the import window, honoring EXDATE and the occurrence cap.
func expandRule(pe ParsedEvent, cfg ImportConfig) []model.Event {
	r, err := rrule.StrToRRule(pe.RawRRule)
	if err != nil {
		appLog.Error("ics rrule parse failed", err, "source", pe.Source.ID, "uid", pe.UID, "rrule", pe.RawRRule)
		return nil
	}
	r.DTStart(pe.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range pe.ExDates {
		set.ExDate(ex.In(pe.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(pe.Start.Location())
	rangeEnd := cfg.RangeEnd.In(pe.Start.Location())
	occTimes := set.Between(rangeStart, rangeEnd, true)

	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		appLog.Error("ics expansion truncated", fmt.Errorf("max occurrences reached"),
			"source", pe.Source.ID, "uid", pe.UID, "cap", cfg.MaxOccurrencesPerEvent)
	}

	duration := pe.End.Sub(pe.Start)
	out := make([]model.Event, 0, len(occTimes))
	for _, occStart := range occTimes {
		ev := singleEvent(pe, occStart, occStart.Add(duration))
		// One id per concrete instance, so a de-duplicated day view can
		// still hold several instances of the same series.
		ev.ID = model.ID(fmt.Sprintf("%v_%v", ev.ID, occStart.Unix()))
		out = append(out, ev)
	}
	return out
}

func importedID(src Source, uid string) model.ID {
	if src.ID == "" {
		return model.ID(uid)
	}
	return model.ID(src.ID + ":" + uid)
}
