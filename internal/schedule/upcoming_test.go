package schedule

import (
	"testing"
	"time"

	"glancecal/internal/model"
)

func TestUpcoming_OrdersAndCaps(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		timedEvent("later", "Review", "2024-05-03T09:00:00", "2024-05-03T10:00:00"),
		timedEvent("soon", "Standup", "2024-05-02T15:00:00", "2024-05-02T15:15:00"),
		timedEvent("past", "Retro", "2024-05-01T09:00:00", "2024-05-01T10:00:00"),
		timedEvent("far", "Planning", "2024-05-10T09:00:00", "2024-05-10T10:00:00"),
	}
	now := time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC)

	got := Upcoming(events, now, 2, utcOpts())
	if len(got) != 2 {
		t.Fatalf("limit 2 returned %d occurrences", len(got))
	}
	if got[0].ID != "soon" || got[1].ID != "later" {
		t.Fatalf("order = %v, %v; want soon, later", got[0].ID, got[1].ID)
	}
}

func TestUpcoming_ExcludesAlreadyStarted(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		timedEvent("running", "In progress", "2024-05-02T11:00:00", "2024-05-02T13:00:00"),
	}
	now := time.Date(2024, time.May, 2, 12, 0, 0, 0, time.UTC)

	if got := Upcoming(events, now, 10, utcOpts()); len(got) != 0 {
		t.Fatalf("an event already underway is not upcoming, got %d", len(got))
	}
}

func TestUpcoming_RecurringExpandsWithinHorizon(t *testing.T) {
	t.Parallel()

	ev := timedEvent("weekly", "Sync", "2024-04-01T09:00:00", "2024-04-01T09:30:00")
	ev.Recurring = true
	ev.RecurrenceRule = &model.RecurrenceRule{Frequency: model.FreqWeekly, DaysOfWeek: []string{"Monday"}}

	opts := utcOpts()
	opts.UpcomingHorizonDays = 14
	now := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC) // Wednesday

	got := Upcoming([]model.Event{ev}, now, 10, opts)
	if len(got) != 2 {
		t.Fatalf("two Mondays fall in the horizon, got %d occurrences", len(got))
	}
	if !got[0].DisplayStart.Equal(time.Date(2024, time.May, 6, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("first occurrence = %v, want 2024-05-06 09:00", got[0].DisplayStart)
	}
	if !got[1].DisplayStart.Equal(time.Date(2024, time.May, 13, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("second occurrence = %v, want 2024-05-13 09:00", got[1].DisplayStart)
	}
}

func TestUpcoming_MultiDayListedOnce(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		timedEvent("offsite", "Offsite", "2024-05-03T10:00:00", "2024-05-05T16:00:00"),
	}
	now := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)

	got := Upcoming(events, now, 10, utcOpts())
	if len(got) != 1 {
		t.Fatalf("a multi-day event lists once, got %d entries", len(got))
	}
}

func TestUpcoming_DegenerateInputs(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		timedEvent("a", "A", "2024-05-02T15:00:00", "2024-05-02T16:00:00"),
	}
	now := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)

	if got := Upcoming(events, now, 0, utcOpts()); got != nil {
		t.Fatalf("limit 0 must return nil, got %v", got)
	}
	if got := Upcoming(events, time.Time{}, 5, utcOpts()); got != nil {
		t.Fatalf("zero now must return nil, got %v", got)
	}
}
