package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"meetboard/cmd/internal/domain/entity"
)

const productID = "-//meetboard//meetings//EN"

// WriteICS writes the meetings as an iCalendar feed. Participants are listed
// in the description since they have no mail addresses to use as attendees.
func WriteICS(w io.Writer, meetings []*entity.Meeting, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, m := range meetings {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, m.ID+"@meetboard")
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, m.StartTime.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, m.EndTime.UTC())
		event.Props.SetText(ical.PropSummary, m.Title)
		if m.Location != "" {
			event.Props.SetText(ical.PropLocation, m.Location)
		}
		if m.Type != "" {
			event.Props.SetText(ical.PropCategories, string(m.Type))
		}
		if desc := describe(m); desc != "" {
			event.Props.SetText(ical.PropDescription, desc)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func describe(m *entity.Meeting) string {
	var b strings.Builder
	b.WriteString(m.Content)
	if len(m.Participants) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		names := make([]string, 0, len(m.Participants))
		for _, p := range m.Participants {
			names = append(names, p.DisplayName)
		}
		b.WriteString("Participants: " + strings.Join(names, ", "))
	}
	return b.String()
}
