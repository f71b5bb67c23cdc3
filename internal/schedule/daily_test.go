package schedule

import (
	"testing"
	"time"

	"glancecal/internal/model"
)

func utcOpts() Options {
	return Options{Location: time.UTC}
}

func timedEvent(id model.ID, title, start, end string) model.Event {
	return model.Event{ID: id, Title: title, StartTime: start, EndTime: end}
}

func TestSelectForDay_RecurringWeeklyScenario(t *testing.T) {
	t.Parallel()

	events := []model.Event{{
		ID:             "1",
		Title:          "Standup",
		Recurring:      true,
		RecurrenceRule: &model.RecurrenceRule{Frequency: "WEEKLY", DaysOfWeek: []string{"Monday"}},
		StartTime:      "2024-01-01T09:00:00",
		EndTime:        "2024-01-01T10:00:00",
	}}

	got := SelectForDay(events, date(2024, time.January, 8), utcOpts())
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}

	occ := got[0]
	if want := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC); !occ.RenderStart.Equal(want) {
		t.Fatalf("RenderStart = %v, want %v", occ.RenderStart, want)
	}
	if want := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC); !occ.RenderEnd.Equal(want) {
		t.Fatalf("RenderEnd = %v, want %v", occ.RenderEnd, want)
	}

	if got := SelectForDay(events, date(2024, time.January, 9), utcOpts()); len(got) != 0 {
		t.Fatalf("Tuesday must not match a Monday-only rule, got %d occurrences", len(got))
	}
}

func TestSelectForDay_EndedSeriesExcluded(t *testing.T) {
	t.Parallel()

	events := []model.Event{{
		ID:                "1",
		Recurring:         true,
		RecurrenceRule:    &model.RecurrenceRule{Frequency: "DAILY"},
		RecurrenceEndDate: "2024-01-10",
		StartTime:         "2024-01-01T09:00:00",
		EndTime:           "2024-01-01T10:00:00",
	}}

	if got := SelectForDay(events, date(2024, time.January, 15), utcOpts()); len(got) != 0 {
		t.Fatalf("expected ended series to be excluded, got %d occurrences", len(got))
	}
}

func TestSelectForDay_AllDayFullWindow(t *testing.T) {
	t.Parallel()

	events := []model.Event{{
		ID:        "7",
		Title:     "Offsite",
		AllDay:    true,
		StartTime: "2024-03-05",
		EndTime:   "2024-03-05",
	}}

	got := SelectForDay(events, date(2024, time.March, 5), utcOpts())
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	occ := got[0]
	if want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC); !occ.RenderStart.Equal(want) {
		t.Fatalf("RenderStart = %v, want %v", occ.RenderStart, want)
	}
	if want := time.Date(2024, time.March, 5, 23, 59, 59, 0, time.UTC); !occ.RenderEnd.Equal(want) {
		t.Fatalf("RenderEnd = %v, want %v", occ.RenderEnd, want)
	}

	if got := SelectForDay(events, date(2024, time.March, 6), utcOpts()); len(got) != 0 {
		t.Fatalf("all-day event must only appear on its start date, got %d", len(got))
	}
}

func TestSelectForDay_SingleEventAttributedToStartDateOnly(t *testing.T) {
	t.Parallel()

	// Spans two days, but is attributed to its start date only.
	events := []model.Event{timedEvent("5", "Hackathon", "2024-04-01T20:00:00", "2024-04-02T04:00:00")}

	got := SelectForDay(events, date(2024, time.April, 1), utcOpts())
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence on the start date, got %d", len(got))
	}
	occ := got[0]
	if want := time.Date(2024, time.April, 1, 23, 59, 59, 0, time.UTC); !occ.RenderEnd.Equal(want) {
		t.Fatalf("RenderEnd = %v, want clipped %v", occ.RenderEnd, want)
	}
	if want := time.Date(2024, time.April, 2, 4, 0, 0, 0, time.UTC); !occ.DisplayEnd.Equal(want) {
		t.Fatalf("DisplayEnd = %v, want unclipped %v", occ.DisplayEnd, want)
	}
	if !occ.MultiDay() {
		t.Fatal("occurrence spanning midnight must report MultiDay")
	}

	if got := SelectForDay(events, date(2024, time.April, 2), utcOpts()); len(got) != 0 {
		t.Fatalf("plain timed event must not be split across days, got %d", len(got))
	}
}

func TestSelectForDay_DeDuplicatesIdenticalOccurrences(t *testing.T) {
	t.Parallel()

	ev := timedEvent("9", "Dup", "2024-05-02T09:00:00", "2024-05-02T10:00:00")
	got := SelectForDay([]model.Event{ev, ev, ev}, date(2024, time.May, 2), utcOpts())
	if len(got) != 1 {
		t.Fatalf("expected duplicates to collapse to 1 occurrence, got %d", len(got))
	}
}

func TestSelectForDay_SkipsMalformedEvent(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		timedEvent("bad", "Broken", "not-a-timestamp", "also-not"),
		timedEvent("ok", "Fine", "2024-05-02T09:00:00", "2024-05-02T10:00:00"),
	}

	got := SelectForDay(events, date(2024, time.May, 2), utcOpts())
	if len(got) != 1 {
		t.Fatalf("expected only the valid event, got %d occurrences", len(got))
	}
	if got[0].ID != "ok" {
		t.Fatalf("unexpected survivor: %v", got[0].ID)
	}
}

func TestSelectForDay_OrderingLongestFirst(t *testing.T) {
	t.Parallel()

	events := []model.Event{
		timedEvent("short", "Short", "2024-05-02T09:00:00", "2024-05-02T09:30:00"),
		timedEvent("long", "Long", "2024-05-02T10:00:00", "2024-05-02T13:00:00"),
		timedEvent("early", "Early", "2024-05-02T08:00:00", "2024-05-02T08:30:00"),
	}

	got := SelectForDay(events, date(2024, time.May, 2), utcOpts())
	if len(got) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(got))
	}
	if got[0].ID != "long" {
		t.Fatalf("longest event must come first, got %v", got[0].ID)
	}
	// Equal durations tie-break on ascending start.
	if got[1].ID != "early" || got[2].ID != "short" {
		t.Fatalf("equal durations must order by start: got %v, %v", got[1].ID, got[2].ID)
	}
}

func TestSelectForDay_FloorsDegenerateRenderWindow(t *testing.T) {
	t.Parallel()

	events := []model.Event{timedEvent("z", "Ping", "2024-05-02T09:00:00", "2024-05-02T09:00:00")}

	got := SelectForDay(events, date(2024, time.May, 2), utcOpts())
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	occ := got[0]
	if want := 15 * time.Minute; occ.RenderEnd.Sub(occ.RenderStart) != want {
		t.Fatalf("render duration = %v, want floored %v", occ.RenderEnd.Sub(occ.RenderStart), want)
	}
	if occ.DisplayDuration() != 0 {
		t.Fatalf("display duration must stay 0, got %v", occ.DisplayDuration())
	}
}

func TestSelectForDay_EmptyInput(t *testing.T) {
	t.Parallel()

	if got := SelectForDay(nil, date(2024, time.May, 2), utcOpts()); len(got) != 0 {
		t.Fatalf("expected no occurrences, got %d", len(got))
	}
}
