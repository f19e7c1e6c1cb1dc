// Package ical renders the alarm set as an iCalendar document so calendar
// apps get a read-only view of the schedule.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"reveil/pkg/models"
)

var byDayNames = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// Export writes one VEVENT per enabled alarm: UID is the alarm ID, DTSTART
// the next occurrence, SUMMARY the display label, and repeat days become a
// weekly RRULE.
func Export(w io.Writer, alarms []*models.Alarm, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//reveil//alarm schedule//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		cal.Children = append(cal.Children, eventFor(a, now).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func eventFor(a *models.Alarm, now time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, a.ID)
	ev.Props.SetText(ical.PropSummary, a.DisplayLabel())
	ev.Props.SetDateTime(ical.PropDateTimeStamp, now)
	ev.Props.SetDateTime(ical.PropDateTimeStart, a.NextOccurrence(now))

	if !a.IsOneShot() {
		rule := ical.NewProp(ical.PropRecurrenceRule)
		rule.Value = weeklyRule(a.RepeatDays)
		ev.Props.Set(rule)
	}
	return ev
}

func weeklyRule(days []models.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d.Valid() {
			names = append(names, byDayNames[d])
		}
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(names, ",")
}
