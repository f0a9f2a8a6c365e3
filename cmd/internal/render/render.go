package render

import (
	"fmt"
	"strings"
	"time"

	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/entity"
)

const (
	dateLayout  = "2006-01-02 (Mon)"
	clockLayout = "15:04"
)

// Renderer formats meetings as chat messages in the operational timezone.
type Renderer struct {
	norm *datetime.Normalizer
}

func New(norm *datetime.Normalizer) *Renderer {
	return &Renderer{norm: norm}
}

func (r *Renderer) TodayBoard(now time.Time, meetings []*entity.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Today's meetings** · %s\n", r.norm.Format(now, dateLayout))

	if len(meetings) == 0 {
		b.WriteString("\nNo meetings today.\n")
	}
	for _, m := range meetings {
		b.WriteString("\n")
		r.writeMeeting(&b, m)
	}

	r.writeFooter(&b, now)
	return b.String()
}

// WeekBoard groups meetings by day; days without meetings are skipped.
func (r *Renderer) WeekBoard(now time.Time, meetings []*entity.Meeting) string {
	start, end := r.norm.ISOWeekRange(now)

	var b strings.Builder
	fmt.Fprintf(&b, "**This week's meetings** · %s → %s\n",
		r.norm.Format(start, "2006-01-02"), r.norm.Format(end.Add(-time.Nanosecond), "2006-01-02"))

	if len(meetings) == 0 {
		b.WriteString("\nNo meetings this week.\n")
	}

	currentDay := ""
	for _, m := range meetings {
		day := r.norm.Format(m.StartTime, dateLayout)
		if day != currentDay {
			fmt.Fprintf(&b, "\n__%s__\n", day)
			currentDay = day
		}
		r.writeMeeting(&b, m)
	}

	r.writeFooter(&b, now)
	return b.String()
}

func (r *Renderer) Reminder(m *entity.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Reminder: **%s** starts at %s\n", m.Title, r.norm.Format(m.StartTime, "2006-01-02 15:04"))
	fmt.Fprintf(&b, "%s · %s\n", typeLabel(m.Type), m.Location)
	if m.Content != "" {
		fmt.Fprintf(&b, "\n%s\n", m.Content)
	}
	return b.String()
}

func (r *Renderer) Cancellation(m *entity.Meeting, cancelledBy string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ Cancelled: **%s** (%s)\n", m.Title, r.norm.Format(m.StartTime, "2006-01-02 15:04"))
	if cancelledBy != "" {
		fmt.Fprintf(&b, "Cancelled by <@%s>\n", cancelledBy)
	}
	return b.String()
}

func (r *Renderer) writeMeeting(b *strings.Builder, m *entity.Meeting) {
	fmt.Fprintf(b, "• %s-%s **%s** [%s] @ %s\n",
		r.norm.Format(m.StartTime, clockLayout), r.norm.Format(m.EndTime, clockLayout),
		m.Title, typeLabel(m.Type), m.Location)

	if len(m.Participants) > 0 {
		names := make([]string, 0, len(m.Participants))
		for _, p := range m.Participants {
			names = append(names, mention(p))
		}
		fmt.Fprintf(b, "  %s\n", strings.Join(names, " "))
	}
}

func (r *Renderer) writeFooter(b *strings.Builder, now time.Time) {
	fmt.Fprintf(b, "\n_Updated %s %s_", r.norm.Format(now, "2006-01-02 15:04"), r.norm.ZoneName())
}

func mention(p entity.Participant) string {
	if p.Reachable() {
		return "<@" + p.UserID + ">"
	}
	return "@" + p.DisplayName
}

func typeLabel(t entity.MeetingType) string {
	switch t {
	case entity.MeetingTypeOnline:
		return "online"
	case entity.MeetingTypeOffline:
		return "in person"
	default:
		return "unknown"
	}
}
