package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/render"
	"meetboard/cmd/internal/tracker"
)

const (
	ReminderLookahead = 3 * time.Hour

	// Scans run every 10 minutes, so a 40 minute window always contains at least one scan.
	reminderWindowStart = 100
	reminderWindowEnd   = 140
)

type MeetingFinder interface {
	FindInRange(ctx context.Context, start, end time.Time) ([]*entity.Meeting, error)
}

type DirectMessenger interface {
	SendDirectMessage(ctx context.Context, userID, content string) error
}

type ReminderRun struct {
	Scanned   int
	Reminded  int
	Delivered int
	Failed    int
	Skipped   int
}

type ReminderJob struct {
	meetings MeetingFinder
	chat     DirectMessenger
	tracker  *tracker.ReminderTracker
	renderer *render.Renderer
	clock    clock.Clock
}

func NewReminderJob(meetings MeetingFinder, chat DirectMessenger, tr *tracker.ReminderTracker, renderer *render.Renderer, clk clock.Clock) *ReminderJob {
	return &ReminderJob{meetings: meetings, chat: chat, tracker: tr, renderer: renderer, clock: clk}
}

// Execute sends the 2h reminder for every meeting whose start falls inside the
// tolerance window and that has not been reminded yet.
func (j *ReminderJob) Execute(ctx context.Context) (ReminderRun, error) {
	var run ReminderRun
	now := j.clock.Now()

	meetings, err := j.meetings.FindInRange(ctx, now, now.Add(ReminderLookahead))
	if err != nil {
		return run, fmt.Errorf("scan reminders: %w", err)
	}
	run.Scanned = len(meetings)

	for _, m := range meetings {
		if !dueForTwoHourReminder(now, m.StartTime) {
			continue
		}
		if j.tracker.HasFired(m.ID, entity.ReminderKindTwoHours) {
			continue
		}

		delivered, failed, skipped := j.remind(ctx, m)
		j.tracker.MarkFired(m.ID, entity.ReminderKindTwoHours)

		run.Reminded++
		run.Delivered += delivered
		run.Failed += failed
		run.Skipped += skipped
		log.Infof("[reminders] %s %q: delivered %d, failed %d, skipped %d", m.ID, m.Title, delivered, failed, skipped)
	}

	return run, nil
}

func (j *ReminderJob) remind(ctx context.Context, m *entity.Meeting) (delivered, failed, skipped int) {
	content := j.renderer.Reminder(m)
	for _, p := range m.Participants {
		if !p.Reachable() {
			skipped++
			continue
		}
		if err := j.chat.SendDirectMessage(ctx, p.UserID, content); err != nil {
			log.Warnf("[reminders] failed to DM %s (%s): %v", p.DisplayName, p.UserID, err)
			failed++
			continue
		}
		delivered++
	}
	return delivered, failed, skipped
}

// Minutes are truncated, matching how the window bounds are expressed.
func dueForTwoHourReminder(now, start time.Time) bool {
	minutes := int(start.Sub(now) / time.Minute)
	return minutes >= reminderWindowStart && minutes <= reminderWindowEnd
}
