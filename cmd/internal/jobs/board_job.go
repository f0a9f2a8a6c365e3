package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/discord"
	"meetboard/cmd/internal/render"
	"meetboard/cmd/internal/tracker"
)

type BoardChat interface {
	tracker.MessagePoster
	FetchChannel(ctx context.Context, id string) (*discord.Channel, error)
}

// BoardJob keeps the "today" and "week" messages of the board channel current.
type BoardJob struct {
	meetings  MeetingFinder
	chat      BoardChat
	boards    *tracker.BoardTracker
	renderer  *render.Renderer
	norm      *datetime.Normalizer
	clock     clock.Clock
	channelID string
}

func NewBoardJob(meetings MeetingFinder, chat BoardChat, boards *tracker.BoardTracker, renderer *render.Renderer,
	norm *datetime.Normalizer, clk clock.Clock, channelID string) *BoardJob {
	return &BoardJob{
		meetings:  meetings,
		chat:      chat,
		boards:    boards,
		renderer:  renderer,
		norm:      norm,
		clock:     clk,
		channelID: channelID,
	}
}

// RefreshBoard is shared by the daily schedule, the startup refresh and every
// meeting mutation. A failing slot does not stop the other one.
func (j *BoardJob) RefreshBoard(ctx context.Context) error {
	channel, err := j.chat.FetchChannel(ctx, j.channelID)
	if err != nil {
		log.Errorf("[board] board channel %s unavailable: %v", j.channelID, err)
		return fmt.Errorf("refresh board: %w", err)
	}

	now := j.clock.Now()
	var errs []error

	dayStart, dayEnd := j.norm.DayRange(now)
	if err := j.refreshSlot(ctx, channel.ID, entity.BoardSlotToday, dayStart, dayEnd, func(ms []*entity.Meeting) string {
		return j.renderer.TodayBoard(now, ms)
	}); err != nil {
		errs = append(errs, err)
	}

	weekStart, weekEnd := j.norm.ISOWeekRange(now)
	if err := j.refreshSlot(ctx, channel.ID, entity.BoardSlotWeek, weekStart, weekEnd, func(ms []*entity.Meeting) string {
		return j.renderer.WeekBoard(now, ms)
	}); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (j *BoardJob) refreshSlot(ctx context.Context, channelID, slot string, start, end time.Time, format func([]*entity.Meeting) string) error {
	meetings, err := j.meetings.FindInRange(ctx, start, end)
	if err != nil {
		log.Errorf("[board] failed to list meetings for %s: %v", slot, err)
		return fmt.Errorf("refresh %s: %w", slot, err)
	}

	outcome, err := j.boards.Publish(ctx, j.chat, slot, channelID, format(meetings))
	if err != nil {
		log.Errorf("[board] failed to publish %s: %v", slot, err)
		return err
	}

	log.Infof("[board] %s %s with %d meetings", slot, outcome, len(meetings))
	return nil
}
