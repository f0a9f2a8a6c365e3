package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"meetboard/cmd/internal/codec"
	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/domain/calendar"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/google/gcal"
	"meetboard/cmd/internal/session"
	"meetboard/cmd/internal/testutil"
	"meetboard/cmd/internal/utils/validators"
)

type fakeBoard struct {
	calls int
	err   error
}

func (f *fakeBoard) TriggerRefresh(context.Context) error {
	f.calls++
	return f.err
}

type harness struct {
	svc      *DefaultMeetingService
	provider *testutil.FakeCalendar
	repo     *calendar.DefaultMeetingRepository
	chat     *testutil.FakeChat
	board    *fakeBoard
	clock    *testutil.ManualClock
	loc      *time.Location
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	norm, err := datetime.New("Asia/Taipei")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	validate := validator.New()
	validators.Register(validate, norm)

	clk := testutil.NewManualClock(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	provider := testutil.NewFakeCalendar()
	repo := calendar.NewMeetingRepository(provider, codec.New(norm), "primary")
	chat := testutil.NewFakeChat()
	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		chat.AddUser(id, id)
	}
	board := &fakeBoard{}

	svc := NewMeetingService(repo, chat, session.NewDraftStore(clk, 0), norm, validate,
		WithBoardRefresher(board), WithClock(clk))
	return &harness{svc: svc, provider: provider, repo: repo, chat: chat, board: board, clock: clk, loc: norm.Location()}
}

func (h *harness) seed(t *testing.T, start, end time.Time, creator string, participants ...entity.Participant) *entity.Meeting {
	t.Helper()
	m := &entity.Meeting{
		Title:        "Existing",
		Location:     "Room",
		Type:         entity.MeetingTypeOffline,
		StartTime:    start,
		EndTime:      end,
		Participants: participants,
		Owner:        entity.OwnerContext{GuildID: "g1", ChannelID: "c1", CreatorID: creator},
	}
	if err := h.repo.Save(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func request(date, clock string, participants ...ParticipantRequest) *MeetingRequest {
	return &MeetingRequest{
		Title:        " Year-end party ",
		Content:      "Bring snacks",
		Location:     "Hall",
		Type:         "offline",
		Date:         date,
		Time:         clock,
		Participants: participants,
		GuildID:      "g1",
		ChannelID:    "c1",
	}
}

var (
	alice = ParticipantRequest{UserID: "u1", Name: "Alice"}
	bob   = ParticipantRequest{UserID: "u2", Name: "Bob"}
	carol = ParticipantRequest{UserID: "u3", Name: "Carol"}
	guest = ParticipantRequest{Name: "Guest"}
)

func TestMeetingService_CreateMeeting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores local time in the fixed zone with the default duration", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		res, err := h.svc.CreateMeeting(ctx, Actor{UserID: "u1"}, request("2025-12-25", "12:00", alice, bob))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.Created() {
			t.Fatalf("expected the meeting to be created")
		}

		ev := h.provider.Event(res.Meeting.ID)
		if ev == nil {
			t.Fatalf("expected event %s to be stored", res.Meeting.ID)
		}
		wantStart := time.Date(2025, 12, 25, 4, 0, 0, 0, time.UTC)
		if !ev.Start.DateTime.Equal(wantStart) {
			t.Fatalf("expected external start %v, got %v", wantStart, ev.Start.DateTime.UTC())
		}
		if d := ev.End.DateTime.Sub(ev.Start.DateTime); d != 2*time.Hour {
			t.Fatalf("expected 2h duration, got %v", d)
		}
		if ev.Summary != "[OFFLINE] Year-end party" {
			t.Fatalf("expected sanitized summary, got %q", ev.Summary)
		}
		if res.Meeting.Owner.CreatorID != "u1" {
			t.Fatalf("expected creator u1, got %q", res.Meeting.Owner.CreatorID)
		}
		if h.board.calls != 1 {
			t.Fatalf("expected one board refresh, got %d", h.board.calls)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)

		tests := []struct {
			name string
			req  *MeetingRequest
		}{
			{"no participants", request("2025-12-25", "12:00")},
			{"bad date", request("25th december", "12:00", alice)},
			{"bad time", request("2025-12-25", "noon", alice)},
			{"past", request("2025-11-30", "12:00", alice)},
			{"duplicate participant", request("2025-12-25", "12:00", alice, alice)},
		}
		for _, tt := range tests {
			_, err := h.svc.CreateMeeting(ctx, Actor{UserID: "u1"}, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("%s: expected validation error, got %v", tt.name, err)
			}
		}
		if h.provider.Inserts != 0 {
			t.Fatalf("expected nothing written, got %d inserts", h.provider.Inserts)
		}
	})

	t.Run("board refresh failure does not fail the create", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.board.err = errors.New("chat down")

		res, err := h.svc.CreateMeeting(ctx, Actor{UserID: "u1"}, request("2025-12-25", "12:00", alice))
		if err != nil || !res.Created() {
			t.Fatalf("expected the meeting to be created, got %v", err)
		}
	})
}

func TestMeetingService_Conflicts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*harness, *entity.Meeting) {
		h := newHarness(t)
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		existing := h.seed(t, start, start.Add(2*time.Hour), "u1",
			entity.Participant{UserID: "u1", DisplayName: "Alice"},
			entity.Participant{UserID: "u2", DisplayName: "Bob"})
		return h, existing
	}

	t.Run("overlap with a shared participant is reported", func(t *testing.T) {
		t.Parallel()
		h, existing := setup(t)

		res, err := h.svc.CreateMeeting(ctx, Actor{UserID: "u3"}, request("2025-12-25", "11:00", bob, carol))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Created() || !res.Report.HasConflict || res.DraftToken == "" {
			t.Fatalf("expected a conflict report with a draft token, got %+v", res)
		}
		if len(res.Report.Conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d", len(res.Report.Conflicts))
		}
		c := res.Report.Conflicts[0]
		if c.Meeting.ID != existing.ID || len(c.Participants) != 1 || c.Participants[0].UserID != "u2" {
			t.Fatalf("expected Bob colliding with %s, got %+v", existing.ID, c)
		}
		if h.provider.Inserts != 1 {
			t.Fatalf("expected no write before confirmation, got %d inserts", h.provider.Inserts)
		}

		if _, err := h.svc.ConfirmDraft(ctx, Actor{UserID: "u1"}, res.DraftToken); !errors.Is(err, domain.ErrDraftGone) {
			t.Fatalf("expected another user's confirm to fail, got %v", err)
		}
		m, err := h.svc.ConfirmDraft(ctx, Actor{UserID: "u3"}, res.DraftToken)
		if err != nil {
			t.Fatalf("expected confirm to succeed, got %v", err)
		}
		if h.provider.Event(m.ID) == nil {
			t.Fatalf("expected the confirmed meeting to be stored")
		}
	})

	t.Run("confirm flag writes despite conflicts", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		req := request("2025-12-25", "11:00", alice)
		req.Confirm = true
		res, err := h.svc.CreateMeeting(ctx, Actor{UserID: "u1"}, req)
		if err != nil || !res.Created() || !res.Report.HasConflict {
			t.Fatalf("expected created with a report, got %+v / %v", res, err)
		}
	})

	t.Run("adjacent ranges never conflict", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		report, err := h.svc.CheckConflicts(ctx, &ConflictRequest{Date: "2025-12-25", Time: "12:00", Participants: []ParticipantRequest{alice}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.HasConflict {
			t.Fatalf("expected back-to-back meetings not to conflict, got %+v", report)
		}

		report, _ = h.svc.CheckConflicts(ctx, &ConflictRequest{Date: "2025-12-25", Time: "8:00", Participants: []ParticipantRequest{alice}})
		if report.HasConflict {
			t.Fatalf("expected a meeting ending at the start not to conflict")
		}
	})

	t.Run("disjoint participants do not conflict", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		report, err := h.svc.CheckConflicts(ctx, &ConflictRequest{Date: "2025-12-25", Time: "11:00", Participants: []ParticipantRequest{carol, guest}})
		if err != nil || report.HasConflict {
			t.Fatalf("expected no conflict, got %+v / %v", report, err)
		}
	})

	t.Run("one entry per colliding meeting", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)
		start := time.Date(2025, 12, 25, 11, 0, 0, 0, h.loc)
		h.seed(t, start, start.Add(time.Hour), "u2", entity.Participant{UserID: "u2", DisplayName: "Bob"})

		report, err := h.svc.CheckConflicts(ctx, &ConflictRequest{Date: "2025-12-25", Time: "11:30", DurationMinutes: 30, Participants: []ParticipantRequest{bob}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(report.Conflicts) != 2 {
			t.Fatalf("expected 2 conflict entries, got %d", len(report.Conflicts))
		}
	})

	t.Run("events without metadata are ignored", func(t *testing.T) {
		t.Parallel()
		h, existing := setup(t)
		ev := h.provider.Event(existing.ID)
		ev.Private = nil
		ev.Description = "imported by hand"
		h.provider.Put(ev)

		report, err := h.svc.CheckConflicts(ctx, &ConflictRequest{Date: "2025-12-25", Time: "11:00", Participants: []ParticipantRequest{alice}})
		if err != nil || report.HasConflict {
			t.Fatalf("expected no conflict, got %+v / %v", report, err)
		}
	})
}

func TestMeetingService_UpdateMeeting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*harness, *entity.Meeting) {
		h := newHarness(t)
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		m := h.seed(t, start, start.Add(90*time.Minute), "u1",
			entity.Participant{UserID: "u1", DisplayName: "Alice"},
			entity.Participant{UserID: "u2", DisplayName: "Bob"})
		return h, m
	}

	t.Run("moving the time keeps duration and metadata", func(t *testing.T) {
		t.Parallel()
		h, m := setup(t)
		newTime := "15:00"

		res, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u1"}, m.ID, &UpdateMeetingRequest{Time: &newTime})
		if err != nil || !res.Updated() {
			t.Fatalf("expected update, got %+v / %v", res, err)
		}
		got := res.Meeting
		if want := time.Date(2025, 12, 25, 15, 0, 0, 0, h.loc); !got.StartTime.Equal(want) {
			t.Fatalf("expected start %v, got %v", want, got.StartTime)
		}
		if got.Duration() != 90*time.Minute {
			t.Fatalf("expected duration to be kept, got %v", got.Duration())
		}
		if len(got.Participants) != 2 || got.Owner.CreatorID != "u1" || got.Owner.GuildID != "g1" {
			t.Fatalf("expected metadata to be preserved, got %+v / %+v", got.Participants, got.Owner)
		}
		if got.Title != "Existing" {
			t.Fatalf("expected title to be kept, got %q", got.Title)
		}
	})

	t.Run("does not conflict with itself", func(t *testing.T) {
		t.Parallel()
		h, m := setup(t)
		duration := 120

		res, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u1"}, m.ID, &UpdateMeetingRequest{DurationMinutes: &duration})
		if err != nil || !res.Updated() || res.Report.HasConflict {
			t.Fatalf("expected a clean update, got %+v / %v", res, err)
		}
	})

	t.Run("conflicting edit needs confirmation", func(t *testing.T) {
		t.Parallel()
		h, m := setup(t)
		other := time.Date(2025, 12, 26, 10, 0, 0, 0, h.loc)
		h.seed(t, other, other.Add(time.Hour), "u2", entity.Participant{UserID: "u2", DisplayName: "Bob"})
		date := "2025-12-26"

		res, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u1"}, m.ID, &UpdateMeetingRequest{Date: &date})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Updated() || !res.Report.HasConflict {
			t.Fatalf("expected a conflict report, got %+v", res)
		}
		if h.provider.Updates != 0 {
			t.Fatalf("expected nothing written, got %d updates", h.provider.Updates)
		}

		res, err = h.svc.UpdateMeeting(ctx, Actor{UserID: "u1"}, m.ID, &UpdateMeetingRequest{Date: &date, Confirm: true})
		if err != nil || !res.Updated() {
			t.Fatalf("expected confirmed update, got %+v / %v", res, err)
		}
	})

	t.Run("only creator or admin", func(t *testing.T) {
		t.Parallel()
		h, m := setup(t)
		title := "Hijacked"

		if _, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u2"}, m.ID, &UpdateMeetingRequest{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if _, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u9", IsAdmin: true}, m.ID, &UpdateMeetingRequest{Title: &title}); err != nil {
			t.Fatalf("expected admin to update, got %v", err)
		}
	})

	t.Run("empty change-set", func(t *testing.T) {
		t.Parallel()
		h, m := setup(t)

		if _, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u1"}, m.ID, &UpdateMeetingRequest{}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown meeting", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)
		title := "x"

		if _, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "u1"}, "missing", &UpdateMeetingRequest{Title: &title}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestMeetingService_BotEraEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seedBotEvent := func(h *harness) {
		start := time.Date(2025, 12, 24, 20, 0, 0, 0, h.loc)
		h.provider.Put(&gcal.Event{
			ID:      "legacy-1",
			Summary: "[線上會議] Old",
			Description: "=== 會議內容 ===\n討論預算\n\n=== 參加者 ===\n@Alice\n\n=== Discord 資訊 (JSON) ===\n" +
				`{"guild_id":"g1","channel_id":"c1","creator_id":"u1","message_id":null,"meeting_type":"線上會議",` +
				`"participants":[{"name":"Alice","user_id":"u1"}]}`,
			Start: gcal.EventTime{DateTime: start, TimeZone: "Asia/Taipei"},
			End:   gcal.EventTime{DateTime: start.Add(2 * time.Hour), TimeZone: "Asia/Taipei"},
		})
	}

	t.Run("participants collide", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		seedBotEvent(h)

		report, err := h.svc.CheckConflicts(ctx, &ConflictRequest{Date: "2025-12-24", Time: "21:00", Participants: []ParticipantRequest{alice}})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !report.HasConflict || len(report.Conflicts) != 1 || report.Conflicts[0].Meeting.ID != "legacy-1" {
			t.Fatalf("expected a conflict with the old event, got %+v", report)
		}
	})

	t.Run("an update keeps participants and owner", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		seedBotEvent(h)

		title := "Renamed"
		res, err := h.svc.UpdateMeeting(ctx, Actor{UserID: "admin", IsAdmin: true}, "legacy-1", &UpdateMeetingRequest{Title: &title})
		if err != nil || !res.Updated() {
			t.Fatalf("expected update, got %+v / %v", res, err)
		}

		stored, err := h.repo.FindByID(ctx, "legacy-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if stored.Title != "Renamed" || stored.Content != "討論預算" {
			t.Fatalf("unexpected title/content %q/%q", stored.Title, stored.Content)
		}
		if len(stored.Participants) != 1 || stored.Participants[0].UserID != "u1" || stored.Owner.CreatorID != "u1" {
			t.Fatalf("metadata lost: %+v / %+v", stored.Participants, stored.Owner)
		}
		if raw := h.provider.Event("legacy-1").Private[codec.MetadataKey]; !strings.Contains(raw, `"creator_id":"u1"`) {
			t.Fatalf("expected private metadata to carry the owner, got %s", raw)
		}
	})

	t.Run("the creator may cancel", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		seedBotEvent(h)

		res, err := h.svc.CancelMeeting(ctx, Actor{UserID: "u1"}, "legacy-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Notified.Success != 1 {
			t.Fatalf("expected the participant to be notified, got %+v", res.Notified)
		}
	})
}

func TestMeetingService_CancelMeeting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("notifies reachable participants only", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		m := h.seed(t, start, start.Add(time.Hour), "u1",
			entity.Participant{UserID: "u1", DisplayName: "Alice"},
			entity.Participant{UserID: "u2", DisplayName: "Bob"},
			entity.Participant{DisplayName: "Guest"})

		res, err := h.svc.CancelMeeting(ctx, Actor{UserID: "u1"}, m.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(h.chat.DMs) != 2 {
			t.Fatalf("expected 2 DMs, got %d", len(h.chat.DMs))
		}
		want := NotifyCounts{Success: 2, Failed: 0, Skipped: 1, Total: 2}
		if res.Notified != want {
			t.Fatalf("expected %+v, got %+v", want, res.Notified)
		}
		if h.provider.Len() != 0 {
			t.Fatalf("expected the event to be deleted")
		}
		if h.board.calls != 1 {
			t.Fatalf("expected a board refresh, got %d", h.board.calls)
		}
	})

	t.Run("failed DMs are counted", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		h.chat.DMErr["u2"] = errors.New("dms closed")
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		m := h.seed(t, start, start.Add(time.Hour), "u1",
			entity.Participant{UserID: "u1", DisplayName: "Alice"},
			entity.Participant{UserID: "u2", DisplayName: "Bob"})

		res, err := h.svc.CancelMeeting(ctx, Actor{UserID: "u1"}, m.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if want := (NotifyCounts{Success: 1, Failed: 1, Total: 2}); res.Notified != want {
			t.Fatalf("expected %+v, got %+v", want, res.Notified)
		}
	})

	t.Run("participants marked without chat are skipped", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		m := h.seed(t, start, start.Add(time.Hour), "u1",
			entity.Participant{UserID: "u1", DisplayName: "Alice"},
			entity.Participant{UserID: "u2", DisplayName: "Bob " + entity.NoChatMarker})

		res, err := h.svc.CancelMeeting(ctx, Actor{UserID: "u1"}, m.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if want := (NotifyCounts{Success: 1, Skipped: 1, Total: 1}); res.Notified != want {
			t.Fatalf("expected %+v, got %+v", want, res.Notified)
		}
		if len(h.chat.DMsTo("u2")) != 0 {
			t.Fatalf("expected no DM to the marked participant")
		}
	})

	t.Run("participants unknown to the chat are skipped", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		m := h.seed(t, start, start.Add(time.Hour), "u1",
			entity.Participant{UserID: "u1", DisplayName: "Alice"},
			entity.Participant{UserID: "gone", DisplayName: "Former member"})

		res, err := h.svc.CancelMeeting(ctx, Actor{UserID: "u1"}, m.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if want := (NotifyCounts{Success: 1, Skipped: 1, Total: 1}); res.Notified != want {
			t.Fatalf("expected %+v, got %+v", want, res.Notified)
		}
	})

	t.Run("non creator is refused", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		start := time.Date(2025, 12, 25, 10, 0, 0, 0, h.loc)
		m := h.seed(t, start, start.Add(time.Hour), "u1", entity.Participant{UserID: "u2", DisplayName: "Bob"})

		if _, err := h.svc.CancelMeeting(ctx, Actor{UserID: "u2"}, m.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if h.provider.Len() != 1 || len(h.chat.DMs) != 0 {
			t.Fatalf("expected nothing to happen")
		}
	})
}

func TestMeetingService_Listing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	h := newHarness(t)
	h.clock.Set(time.Date(2025, 12, 24, 1, 0, 0, 0, time.UTC))
	at := func(day, hour int) time.Time { return time.Date(2025, 12, day, hour, 0, 0, 0, h.loc) }

	h.seed(t, at(24, 15), at(24, 16), "u1", entity.Participant{UserID: "u1", DisplayName: "Alice"})
	h.seed(t, at(26, 9), at(26, 10), "u2", entity.Participant{UserID: "u2", DisplayName: "Bob"})
	h.seed(t, at(25, 9), at(25, 10), "u2", entity.Participant{UserID: "u1", DisplayName: "Alice"})

	today, err := h.svc.ListMeetings(ctx, RangeToday)
	if err != nil || len(today) != 1 {
		t.Fatalf("expected 1 meeting today, got %d / %v", len(today), err)
	}
	week, err := h.svc.ListMeetings(ctx, RangeThisWeek)
	if err != nil || len(week) != 3 {
		t.Fatalf("expected 3 meetings this week, got %d / %v", len(week), err)
	}
	if _, err := h.svc.ListMeetings(ctx, "this_century"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	mine, err := h.svc.ListByParticipant(ctx, "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mine) != 2 || !mine[0].StartTime.Before(mine[1].StartTime) {
		t.Fatalf("expected 2 sorted meetings for u1, got %+v", mine)
	}
}
