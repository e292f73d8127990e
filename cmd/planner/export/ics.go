// Package export renders workspace events for other calendar applications.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"planner-backend/cmd/planner/model"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//planner//planner-backend//EN"

// DefaultDuration is the length given to exported events, which carry only a
// start time.
const DefaultDuration = time.Hour

// UID is the stable identifier of an exported event.
func UID(eventID int64) string {
	return fmt.Sprintf("event-%d@planner", eventID)
}

// Calendar builds a VCALENDAR with one VEVENT per event. The event's detail
// list becomes the description.
func Calendar(name string, events []model.EventView, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		ve := cal.AddEvent(UID(ev.ID))
		ve.SetDtStampTime(stamp.UTC())
		ve.SetStartAt(ev.Date.UTC())
		ve.SetEndAt(ev.Date.Add(DefaultDuration).UTC())
		ve.SetSummary(ev.Title)
		if desc := describe(ev.Details); desc != "" {
			ve.SetDescription(desc)
		}
	}

	return cal
}

// Write serializes the calendar for events to w.
func Write(w io.Writer, name string, events []model.EventView, stamp time.Time) error {
	_, err := io.WriteString(w, Calendar(name, events, stamp).Serialize())
	return err
}

func describe(details []model.Detail) string {
	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, d.Label+": "+d.Value)
	}
	return strings.Join(lines, "\n")
}
