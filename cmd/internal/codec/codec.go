package codec

import (
	"regexp"

	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/google/gcal"
)

var summaryPrefix = regexp.MustCompile(`^\[([^\]]+)\]\s*(.*)$`)

// Codec converts meetings to and from calendar events.
type Codec struct {
	norm     *datetime.Normalizer
	decoders []MetadataDecoder
}

func New(norm *datetime.Normalizer) *Codec {
	return &Codec{
		norm: norm,
		decoders: []MetadataDecoder{
			privateMetadataDecoder{},
			descriptionDecoder{layout: currentLayout},
			descriptionDecoder{layout: botLayout},
		},
	}
}

// Encode renders m as event fields. The sidecar block is written both as private
// metadata and, for readers of older events, at the end of the description.
func (c *Codec) Encode(m *entity.Meeting) *gcal.Event {
	md := Metadata{Owner: m.Owner, Type: m.Type, Participants: m.Participants}
	raw := marshalSidecar(md)

	return &gcal.Event{
		ID:          m.ID,
		Summary:     "[" + string(m.Type) + "] " + m.Title,
		Location:    m.Location,
		Description: currentLayout.format(m, raw),
		Start:       gcal.EventTime{DateTime: c.norm.In(m.StartTime), TimeZone: c.norm.ZoneName()},
		End:         gcal.EventTime{DateTime: c.norm.In(m.EndTime), TimeZone: c.norm.ZoneName()},
		Private:     map[string]string{MetadataKey: raw},
	}
}

// DecodeMetadata runs the decoder chain. ok is false when no decoder could read
// the event, which marks a historical record rather than corruption.
func (c *Codec) DecodeMetadata(ev *gcal.Event) (Metadata, bool) {
	for _, d := range c.decoders {
		if md, ok := d.Decode(ev); ok {
			return md, true
		}
	}
	return Metadata{}, false
}

// Decode never fails: unreadable metadata yields a meeting with no participants
// and an empty owner context.
func (c *Codec) Decode(ev *gcal.Event) *entity.Meeting {
	m := &entity.Meeting{
		ID:        ev.ID,
		Title:     ev.Summary,
		Location:  ev.Location,
		Content:   parseContent(ev.Description),
		StartTime: c.norm.In(ev.Start.DateTime),
		EndTime:   c.norm.In(ev.End.DateTime),
	}

	if parts := summaryPrefix.FindStringSubmatch(ev.Summary); parts != nil {
		if t, ok := entity.ParseMeetingType(parts[1]); ok {
			m.Type = t
			m.Title = parts[2]
		}
	}

	if md, ok := c.DecodeMetadata(ev); ok {
		m.Owner = md.Owner
		m.Participants = md.Participants
		if md.Type != "" {
			m.Type = md.Type
		}
	}
	return m
}

// Merge applies the fields present in changes onto a freshly fetched meeting.
// Fields absent from the change-set, metadata included, are kept as they are.
func Merge(current *entity.Meeting, changes entity.MeetingChanges) *entity.Meeting {
	out := *current
	out.Participants = append([]entity.Participant(nil), current.Participants...)

	if changes.Title != nil {
		out.Title = *changes.Title
	}
	if changes.Content != nil {
		out.Content = *changes.Content
	}
	if changes.Location != nil {
		out.Location = *changes.Location
	}
	if changes.Type != nil {
		out.Type = *changes.Type
	}
	if changes.StartTime != nil {
		duration := current.Duration()
		if duration <= 0 {
			duration = entity.DefaultDuration
		}
		out.StartTime = *changes.StartTime
		out.EndTime = changes.StartTime.Add(duration)
	}
	if changes.EndTime != nil {
		out.EndTime = *changes.EndTime
	}
	if changes.Participants != nil {
		out.Participants = append([]entity.Participant(nil), changes.Participants...)
	}
	if changes.Owner != nil {
		out.Owner = mergeOwner(current.Owner, *changes.Owner)
	}
	return &out
}

func mergeOwner(current, changes entity.OwnerContext) entity.OwnerContext {
	out := current
	if changes.GuildID != "" {
		out.GuildID = changes.GuildID
	}
	if changes.ChannelID != "" {
		out.ChannelID = changes.ChannelID
	}
	if changes.CreatorID != "" {
		out.CreatorID = changes.CreatorID
	}
	if changes.MessageID != nil {
		out.MessageID = changes.MessageID
	}
	return out
}
