package render

import (
	"strings"
	"testing"
	"time"

	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/entity"
)

func newRenderer(t *testing.T) (*Renderer, *time.Location) {
	t.Helper()
	norm, err := datetime.New("Asia/Taipei")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return New(norm), norm.Location()
}

func TestRenderer_TodayBoard(t *testing.T) {
	t.Parallel()
	r, loc := newRenderer(t)
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, loc)

	t.Run("empty", func(t *testing.T) {
		got := r.TodayBoard(now, nil)
		if !strings.Contains(got, "No meetings today.") {
			t.Fatalf("expected empty notice, got %q", got)
		}
	})

	t.Run("lists meetings in local time", func(t *testing.T) {
		start := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)
		got := r.TodayBoard(now, []*entity.Meeting{{
			Title:        "Standup",
			Location:     "Voice",
			Type:         entity.MeetingTypeOnline,
			StartTime:    start,
			EndTime:      start.Add(time.Hour),
			Participants: []entity.Participant{{UserID: "u1", DisplayName: "Alice"}, {DisplayName: "Guest"}},
		}})

		for _, want := range []string{"12:00-13:00", "**Standup**", "<@u1>", "@Guest", "2025-03-03 (Mon)"} {
			if !strings.Contains(got, want) {
				t.Fatalf("expected %q in %q", want, got)
			}
		}
	})
}

func TestRenderer_WeekBoardGroupsByDay(t *testing.T) {
	t.Parallel()
	r, loc := newRenderer(t)
	now := time.Date(2025, 3, 5, 8, 0, 0, 0, loc)

	mk := func(day int, title string) *entity.Meeting {
		start := time.Date(2025, 3, day, 10, 0, 0, 0, loc)
		return &entity.Meeting{Title: title, StartTime: start, EndTime: start.Add(time.Hour), Type: entity.MeetingTypeOffline}
	}
	got := r.WeekBoard(now, []*entity.Meeting{mk(3, "a"), mk(3, "b"), mk(6, "c")})

	if !strings.Contains(got, "2025-03-03 → 2025-03-09") {
		t.Fatalf("expected Monday-to-Sunday header, got %q", got)
	}
	if n := strings.Count(got, "__2025-03-03 (Mon)__"); n != 1 {
		t.Fatalf("expected one Monday heading, got %d", n)
	}
	if !strings.Contains(got, "__2025-03-06 (Thu)__") {
		t.Fatalf("expected Thursday heading, got %q", got)
	}
}

func TestRenderer_Notifications(t *testing.T) {
	t.Parallel()
	r, loc := newRenderer(t)
	start := time.Date(2025, 12, 25, 12, 0, 0, 0, loc)
	m := &entity.Meeting{Title: "Party", Location: "Hall", Type: entity.MeetingTypeOffline, StartTime: start, EndTime: start.Add(2 * time.Hour)}

	if got := r.Reminder(m); !strings.Contains(got, "2025-12-25 12:00") || !strings.Contains(got, "Hall") {
		t.Fatalf("unexpected reminder %q", got)
	}
	if got := r.Cancellation(m, "u9"); !strings.Contains(got, "<@u9>") {
		t.Fatalf("unexpected cancellation %q", got)
	}
}
