package codec

import (
	"encoding/json"

	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/google/gcal"
)

// MetadataKey names the private extended property carrying the sidecar block.
const MetadataKey = "discord_info"

// Metadata is the platform-specific data the provider's schema does not model.
type Metadata struct {
	Owner        entity.OwnerContext
	Type         entity.MeetingType
	Participants []entity.Participant
}

// MetadataDecoder is one way of recovering Metadata from an event.
// Decoders are tried in priority order; the first that reports ok wins.
type MetadataDecoder interface {
	Name() string
	Decode(ev *gcal.Event) (Metadata, bool)
}

type sidecar struct {
	GuildID      string               `json:"guild_id"`
	ChannelID    string               `json:"channel_id"`
	CreatorID    string               `json:"creator_id"`
	MessageID    *string              `json:"message_id"`
	MeetingType  string               `json:"meeting_type"`
	Participants []sidecarParticipant `json:"participants"`
}

type sidecarParticipant struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func marshalSidecar(md Metadata) string {
	sc := sidecar{
		GuildID:      md.Owner.GuildID,
		ChannelID:    md.Owner.ChannelID,
		CreatorID:    md.Owner.CreatorID,
		MessageID:    md.Owner.MessageID,
		MeetingType:  string(md.Type),
		Participants: make([]sidecarParticipant, 0, len(md.Participants)),
	}
	for _, p := range md.Participants {
		sc.Participants = append(sc.Participants, sidecarParticipant{UserID: p.UserID, Name: p.DisplayName})
	}

	// A struct of strings and slices cannot fail to marshal.
	b, _ := json.Marshal(sc)
	return string(b)
}

func unmarshalSidecar(raw string) (Metadata, bool) {
	var sc sidecar
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return Metadata{}, false
	}

	md := Metadata{
		Owner: entity.OwnerContext{
			GuildID:   sc.GuildID,
			ChannelID: sc.ChannelID,
			CreatorID: sc.CreatorID,
			MessageID: sc.MessageID,
		},
	}
	if t, ok := entity.ParseMeetingType(sc.MeetingType); ok {
		md.Type = t
	}
	for _, p := range sc.Participants {
		md.Participants = append(md.Participants, entity.Participant{UserID: p.UserID, DisplayName: p.Name})
	}
	return md, true
}

type privateMetadataDecoder struct{}

func (privateMetadataDecoder) Name() string { return "private-metadata" }

func (privateMetadataDecoder) Decode(ev *gcal.Event) (Metadata, bool) {
	raw, ok := ev.Private[MetadataKey]
	if !ok || raw == "" {
		return Metadata{}, false
	}
	return unmarshalSidecar(raw)
}

// descriptionDecoder reads events written before private metadata was used,
// where the JSON block trails the human-readable description.
type descriptionDecoder struct {
	layout descriptionLayout
}

func (d descriptionDecoder) Name() string { return d.layout.name }

func (d descriptionDecoder) Decode(ev *gcal.Event) (Metadata, bool) {
	raw, ok := d.layout.metadata(ev.Description)
	if !ok {
		return Metadata{}, false
	}
	return unmarshalSidecar(raw)
}
