// Package render turns built views into styled terminal text. It is a
// consumer of the layout engine, not part of it: all positioning decisions
// (lanes, clipping, previews) were already made by the schedule package.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"glancecal/internal/model"
	"glancecal/internal/schedule"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Padding(0, 1)

	dateHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("117")).
			Padding(0, 1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	laneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183"))

	noEventsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(0, 1)

	overflowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Width(14).
			Height(5).
			Padding(0, 1)

	outMonthCellStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("238")).
				Foreground(lipgloss.Color("241")).
				Width(14).
				Height(5).
				Padding(0, 1)

	weekdayHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("117")).
				Width(16).
				Align(lipgloss.Center)
)

// Day renders a packed day view: one line per occurrence with its time
// range and lane column.
func Day(v *schedule.DayView) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Day") + "\n")
	b.WriteString(dateHeaderStyle.Render(v.Date.Format("Monday, January 2, 2006")) + "\n")

	if len(v.Occurrences) == 0 {
		b.WriteString(noEventsStyle.Render("No events") + "\n")
		return b.String()
	}

	b.WriteString(laneStyle.Render(fmt.Sprintf("  %d column(s)", v.Lanes)) + "\n")
	for _, occ := range v.Occurrences {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			timeStyle.Render(occurrenceTime(occ)),
			laneStyle.Render(fmt.Sprintf("col %d/%d", occ.LaneIndex+1, occ.LaneCount)),
			eventStyle(occ).Render(occ.Title),
		))
	}
	return b.String()
}

// Week renders a stacked timeline: a section per day, occurrences listed
// vertically.
func Week(v *schedule.WeekView) string {
	var b strings.Builder

	end := v.Start.AddDate(0, 0, 6)
	b.WriteString(titleStyle.Render("Week") + "\n")
	b.WriteString(dateHeaderStyle.Render(fmt.Sprintf("%s - %s",
		v.Start.Format("Jan 2"), end.Format("Jan 2, 2006"))) + "\n")

	for _, day := range v.Days {
		b.WriteString("\n" + dateHeaderStyle.Render(day.Date.Format("Monday, Jan 2")) + "\n")
		if len(day.Occurrences) == 0 {
			b.WriteString(noEventsStyle.Render("  No events") + "\n")
			continue
		}
		for _, occ := range day.Occurrences {
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				timeStyle.Render(occurrenceTime(occ)),
				eventStyle(occ).Render(occ.Title),
			))
		}
	}
	return b.String()
}

// Month renders the rectangular month grid with per-day previews and
// overflow counters.
func Month(v *schedule.MonthView) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Month") + "\n")
	b.WriteString(dateHeaderStyle.Render(v.Anchor.Format("January 2006")) + "\n")

	if len(v.Weeks) == 0 {
		return b.String()
	}

	var header strings.Builder
	for _, cell := range v.Weeks[0] {
		header.WriteString(weekdayHeaderStyle.Render(cell.Date.Format("Mon")))
	}
	b.WriteString(header.String() + "\n")

	for _, week := range v.Weeks {
		row := make([]string, 0, 7)
		for _, cell := range week {
			row = append(row, monthCell(cell))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
	}
	return b.String()
}

// Upcoming renders the next occurrences as a flat list.
func Upcoming(occs []model.Occurrence, now time.Time) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Upcoming") + "\n")
	b.WriteString(dateHeaderStyle.Render("from "+now.Format("Jan 2, 2006 15:04")) + "\n")

	if len(occs) == 0 {
		b.WriteString(noEventsStyle.Render("Nothing scheduled") + "\n")
		return b.String()
	}
	for _, occ := range occs {
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			timeStyle.Render(occ.DisplayStart.Format("Mon Jan 2")),
			timeStyle.Render(occurrenceTime(occ)),
			eventStyle(occ).Render(occ.Title),
		))
	}
	return b.String()
}

func monthCell(cell schedule.MonthCell) string {
	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Render(cell.Date.Format("2")))
	for _, occ := range cell.Preview {
		content.WriteString("\n" + eventStyle(occ).Render(truncate(occ.Title, 11)))
	}
	if cell.Overflow > 0 {
		content.WriteString("\n" + overflowStyle.Render(fmt.Sprintf("+%d more", cell.Overflow)))
	}

	style := cellStyle
	if !cell.InMonth {
		style = outMonthCellStyle
	}
	return style.Render(content.String())
}

// occurrenceTime is the label text for an occurrence: the true display
// window, or "all day".
func occurrenceTime(occ model.Occurrence) string {
	if occ.AllDay {
		return "all day"
	}
	if occ.MultiDay() {
		return fmt.Sprintf("%s - %s",
			occ.DisplayStart.Format("Jan 2 15:04"),
			occ.DisplayEnd.Format("Jan 2 15:04"))
	}
	return fmt.Sprintf("%s - %s",
		occ.DisplayStart.Format("15:04"),
		occ.DisplayEnd.Format("15:04"))
}

func eventStyle(occ model.Occurrence) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if occ.Color != "" {
		s = s.Foreground(lipgloss.Color(occ.Color))
	}
	return s
}

// truncate shortens s to at most n runes, ending in an ellipsis. Titles
// can carry multi-byte characters, so byte slicing is not safe here.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
