package codec

import (
	"strings"
	"testing"
	"time"

	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/google/gcal"
)

func newTestCodec(t *testing.T) (*Codec, *datetime.Normalizer) {
	t.Helper()
	norm, err := datetime.New("Asia/Taipei")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return New(norm), norm
}

func sampleMeeting(norm *datetime.Normalizer) *entity.Meeting {
	start := time.Date(2025, 12, 25, 12, 0, 0, 0, norm.Location())
	msg := "msg-9"
	return &entity.Meeting{
		ID:        "evt-1",
		Title:     "Quarterly planning",
		Content:   "Agenda:\n- budget\n- hiring",
		Location:  "Room 3",
		Type:      entity.MeetingTypeOffline,
		StartTime: start,
		EndTime:   start.Add(entity.DefaultDuration),
		Participants: []entity.Participant{
			{UserID: "u1", DisplayName: "Alice"},
			{UserID: "u2", DisplayName: "Bob"},
		},
		Owner: entity.OwnerContext{GuildID: "g1", ChannelID: "c1", CreatorID: "u1", MessageID: &msg},
	}
}

func assertMeetingEqual(t *testing.T, want, got *entity.Meeting) {
	t.Helper()
	if got.ID != want.ID || got.Title != want.Title || got.Content != want.Content ||
		got.Location != want.Location || got.Type != want.Type {
		t.Fatalf("scalar fields differ:\nwant %+v\ngot  %+v", want, got)
	}
	if !got.StartTime.Equal(want.StartTime) || !got.EndTime.Equal(want.EndTime) {
		t.Fatalf("times differ: want %v-%v, got %v-%v", want.StartTime, want.EndTime, got.StartTime, got.EndTime)
	}
	if len(got.Participants) != len(want.Participants) {
		t.Fatalf("expected %d participants, got %d", len(want.Participants), len(got.Participants))
	}
	for i := range want.Participants {
		if got.Participants[i] != want.Participants[i] {
			t.Fatalf("participant %d: want %+v, got %+v", i, want.Participants[i], got.Participants[i])
		}
	}
	wo, gotOwner := want.Owner, got.Owner
	if wo.GuildID != gotOwner.GuildID || wo.ChannelID != gotOwner.ChannelID || wo.CreatorID != gotOwner.CreatorID {
		t.Fatalf("owner differs: want %+v, got %+v", wo, gotOwner)
	}
	if (wo.MessageID == nil) != (gotOwner.MessageID == nil) || (wo.MessageID != nil && *wo.MessageID != *gotOwner.MessageID) {
		t.Fatalf("owner message id differs: want %v, got %v", wo.MessageID, gotOwner.MessageID)
	}
}

func TestCodec_Encode(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)
	m := sampleMeeting(norm)

	ev := c.Encode(m)
	if ev.Summary != "[OFFLINE] Quarterly planning" {
		t.Fatalf("unexpected summary %q", ev.Summary)
	}
	if ev.Start.TimeZone != "Asia/Taipei" || ev.End.TimeZone != "Asia/Taipei" {
		t.Fatalf("expected zone on both ends, got %q/%q", ev.Start.TimeZone, ev.End.TimeZone)
	}
	if want := time.Date(2025, 12, 25, 4, 0, 0, 0, time.UTC); !ev.Start.DateTime.Equal(want) {
		t.Fatalf("expected start %v, got %v", want, ev.Start.DateTime.UTC())
	}
	if _, ok := ev.Private[MetadataKey]; !ok {
		t.Fatalf("expected private metadata block")
	}
	if !strings.Contains(ev.Description, "@Alice @Bob") {
		t.Fatalf("expected participant mentions in description, got %q", ev.Description)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)

	m := sampleMeeting(norm)
	assertMeetingEqual(t, m, c.Decode(c.Encode(m)))

	t.Run("empty content and no message id", func(t *testing.T) {
		m := sampleMeeting(norm)
		m.Content = ""
		m.Owner.MessageID = nil
		assertMeetingEqual(t, m, c.Decode(c.Encode(m)))
	})
}

func TestCodec_LegacyRoundTrip(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)
	m := sampleMeeting(norm)

	ev := c.Encode(m)
	ev.Private = nil

	assertMeetingEqual(t, m, c.Decode(ev))
}

// botEvent is an event as the first version of the bot wrote it: Chinese
// section headers, no private metadata, the JSON block after the participants.
func botEvent(norm *datetime.Normalizer) *gcal.Event {
	start := time.Date(2025, 12, 24, 20, 0, 0, 0, norm.Location())
	return &gcal.Event{
		ID:       "legacy-1",
		Summary:  "[線上會議] Old",
		Location: "Meet",
		Description: "=== 會議內容 ===\n討論預算\n\n" +
			"=== 參加者 ===\n@Alice @Guest (無DC)\n\n" +
			"=== Discord 資訊 (JSON) ===\n" +
			`{"guild_id":"g1","channel_id":"c1","creator_id":"u1","message_id":null,` +
			`"meeting_type":"線上會議","participants":[{"name":"Alice","user_id":"u1"},{"name":"Guest (無DC)","user_id":""}]}`,
		Start: gcal.EventTime{DateTime: start, TimeZone: "Asia/Taipei"},
		End:   gcal.EventTime{DateTime: start.Add(2 * time.Hour), TimeZone: "Asia/Taipei"},
	}
}

func TestCodec_BotDescription(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)

	t.Run("participants owner and content decode", func(t *testing.T) {
		t.Parallel()

		got := c.Decode(botEvent(norm))
		if got.Title != "Old" || got.Type != entity.MeetingTypeOnline {
			t.Fatalf("unexpected title/type %q/%q", got.Title, got.Type)
		}
		if got.Content != "討論預算" {
			t.Fatalf("expected the content section only, got %q", got.Content)
		}
		if len(got.Participants) != 2 || got.Participants[0] != (entity.Participant{UserID: "u1", DisplayName: "Alice"}) {
			t.Fatalf("unexpected participants %+v", got.Participants)
		}
		if got.Owner.CreatorID != "u1" || got.Owner.GuildID != "g1" || got.Owner.ChannelID != "c1" || got.Owner.MessageID != nil {
			t.Fatalf("unexpected owner %+v", got.Owner)
		}
	})

	t.Run("placeholder content is empty", func(t *testing.T) {
		t.Parallel()

		ev := botEvent(norm)
		ev.Description = strings.Replace(ev.Description, "討論預算", "無", 1)
		if got := c.Decode(ev); got.Content != "" {
			t.Fatalf("expected empty content, got %q", got.Content)
		}
	})

	t.Run("re-encoding keeps the metadata", func(t *testing.T) {
		t.Parallel()

		title := "Renamed"
		merged := Merge(c.Decode(botEvent(norm)), entity.MeetingChanges{Title: &title})
		ev := c.Encode(merged)

		if !strings.HasPrefix(ev.Description, "=== Content ===\n討論預算\n\n") {
			t.Fatalf("expected the old content to be carried over alone, got %q", ev.Description)
		}
		got := c.Decode(ev)
		if got.Title != "Renamed" || len(got.Participants) != 2 || got.Owner.CreatorID != "u1" {
			t.Fatalf("metadata lost on re-encode: %+v / %+v", got.Participants, got.Owner)
		}
	})
}

func TestCodec_PrefersPrivateMetadata(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)
	m := sampleMeeting(norm)

	ev := c.Encode(m)
	// A stale description block must lose against the private metadata.
	stale := sampleMeeting(norm)
	stale.Participants = []entity.Participant{{UserID: "old", DisplayName: "Old"}}
	ev.Description = c.Encode(stale).Description

	got := c.Decode(ev)
	if len(got.Participants) != 2 || got.Participants[0].UserID != "u1" {
		t.Fatalf("expected private metadata participants, got %+v", got.Participants)
	}
}

func TestCodec_UnknownMetadataIsNotAnError(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)
	start := time.Date(2025, 1, 2, 10, 0, 0, 0, norm.Location())

	ev := &gcal.Event{
		ID:          "external",
		Summary:     "Dentist",
		Description: "bring insurance card",
		Start:       gcal.EventTime{DateTime: start},
		End:         gcal.EventTime{DateTime: start.Add(time.Hour)},
		Private:     map[string]string{MetadataKey: "{not json"},
	}

	if _, ok := c.DecodeMetadata(ev); ok {
		t.Fatalf("expected metadata to be undecodable")
	}

	got := c.Decode(ev)
	if got.Title != "Dentist" || got.Content != "bring insurance card" {
		t.Fatalf("unexpected decode %+v", got)
	}
	if len(got.Participants) != 0 || !got.Owner.IsZero() {
		t.Fatalf("expected empty metadata, got %+v / %+v", got.Participants, got.Owner)
	}
}

func TestCodec_LegacyTypeLabel(t *testing.T) {
	t.Parallel()
	c, norm := newTestCodec(t)
	start := time.Date(2025, 1, 2, 10, 0, 0, 0, norm.Location())

	got := c.Decode(&gcal.Event{
		Summary: "[線上會議] Standup",
		Start:   gcal.EventTime{DateTime: start},
		End:     gcal.EventTime{DateTime: start.Add(time.Hour)},
	})
	if got.Type != entity.MeetingTypeOnline || got.Title != "Standup" {
		t.Fatalf("unexpected type/title %q/%q", got.Type, got.Title)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	_, norm := newTestCodec(t)

	t.Run("only present fields change", func(t *testing.T) {
		current := sampleMeeting(norm)
		title := "Renamed"
		got := Merge(current, entity.MeetingChanges{Title: &title})

		want := sampleMeeting(norm)
		want.Title = "Renamed"
		assertMeetingEqual(t, want, got)
	})

	t.Run("moving start keeps duration", func(t *testing.T) {
		current := sampleMeeting(norm)
		current.EndTime = current.StartTime.Add(90 * time.Minute)
		newStart := current.StartTime.Add(24 * time.Hour)

		got := Merge(current, entity.MeetingChanges{StartTime: &newStart})
		if !got.StartTime.Equal(newStart) || got.Duration() != 90*time.Minute {
			t.Fatalf("unexpected range %v-%v", got.StartTime, got.EndTime)
		}
	})

	t.Run("owner merges field by field", func(t *testing.T) {
		current := sampleMeeting(norm)
		got := Merge(current, entity.MeetingChanges{Owner: &entity.OwnerContext{ChannelID: "c2"}})

		if got.Owner.ChannelID != "c2" || got.Owner.GuildID != "g1" || got.Owner.CreatorID != "u1" || got.Owner.MessageID == nil {
			t.Fatalf("unexpected owner %+v", got.Owner)
		}
	})

	t.Run("does not alias the current participants", func(t *testing.T) {
		current := sampleMeeting(norm)
		got := Merge(current, entity.MeetingChanges{})
		got.Participants[0].DisplayName = "changed"
		if current.Participants[0].DisplayName != "Alice" {
			t.Fatalf("expected merge to copy participants")
		}
	})
}
