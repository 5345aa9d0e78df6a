// Package export renders collections into formats other tools can open:
// an iCalendar file for the class schedule and a workbook for tasks and decks.
package export

import (
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/iskaalaman/studyhub/internal/domain/calendar"
	"github.com/iskaalaman/studyhub/internal/domain/entities"
)

const productID = "-//ISKAALAMAN//Study Organizer//EN"

// rruleDays maps weekday abbreviations to RFC 5545 BYDAY codes
var rruleDays = map[string]string{
	calendar.Mon: "MO",
	calendar.Tue: "TU",
	calendar.Wed: "WE",
	calendar.Thu: "TH",
	calendar.Fri: "FR",
	calendar.Sat: "SA",
	calendar.Sun: "SU",
}

// ScheduleICS builds one weekly recurring event per class. Each event starts on
// the class's first weekday in the Monday-based week containing weekOf.
// Classes without a valid time range or with missing or unknown days are
// skipped and counted. Every event carries stamp as its DTSTAMP.
func ScheduleICS(classes []entities.ClassEntry, weekOf, stamp time.Time) (*ics.Calendar, int) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	monday := weekStart(weekOf)
	skipped := 0

	for _, class := range classes {
		byDay := make([]string, 0, len(class.Days))
		days := calendar.SortWeekdays(class.Days)
		for _, d := range days {
			if code, ok := rruleDays[d]; ok {
				byDay = append(byDay, code)
			}
		}
		if !class.HasValidRange() || len(byDay) == 0 || len(byDay) != len(days) {
			skipped++
			continue
		}

		first, _ := calendar.ToTimeWeekday(days[0])
		date := monday.AddDate(0, 0, (int(first)+6)%7)
		start, end := class.Minutes()

		event := cal.AddEvent(uuid.NewString() + "@iskaalaman")
		event.SetDtStampTime(stamp)
		event.SetSummary(class.Subject)
		if class.Venue != "" {
			event.SetLocation(class.Venue)
		}
		event.SetStartAt(date.Add(time.Duration(start) * time.Minute))
		event.SetEndAt(date.Add(time.Duration(end) * time.Minute))
		event.AddProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY;BYDAY="+strings.Join(byDay, ","))
	}

	return cal, skipped
}

// WriteScheduleICS serializes the schedule calendar to w
func WriteScheduleICS(w io.Writer, classes []entities.ClassEntry, weekOf, stamp time.Time) (int, error) {
	cal, skipped := ScheduleICS(classes, weekOf, stamp)
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return skipped, err
	}
	return skipped, nil
}

func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}
