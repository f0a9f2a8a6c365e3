package calendar

import (
	"context"
	"fmt"
	"time"

	"meetboard/cmd/internal/codec"
	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/google/gcal"
)

// DefaultMeetingRepository stores meetings as events of one external calendar.
type DefaultMeetingRepository struct {
	provider   gcal.Provider
	codec      *codec.Codec
	calendarID string
}

func NewMeetingRepository(provider gcal.Provider, c *codec.Codec, calendarID string) *DefaultMeetingRepository {
	return &DefaultMeetingRepository{provider: provider, codec: c, calendarID: calendarID}
}

// Save inserts the meeting and sets the identifier assigned by the provider.
func (r *DefaultMeetingRepository) Save(ctx context.Context, meeting *entity.Meeting) error {
	id, err := r.provider.InsertEvent(ctx, r.calendarID, r.codec.Encode(meeting))
	if err != nil {
		return fmt.Errorf("save meeting %q: %w", meeting.Title, err)
	}
	meeting.ID = id
	return nil
}

func (r *DefaultMeetingRepository) FindByID(ctx context.Context, id string) (*entity.Meeting, error) {
	ev, err := r.provider.GetEvent(ctx, r.calendarID, id)
	if err != nil {
		return nil, fmt.Errorf("find meeting %s: %w", id, err)
	}
	return r.codec.Decode(ev), nil
}

// FindInRange returns the meetings intersecting [start, end), ordered by start time.
func (r *DefaultMeetingRepository) FindInRange(ctx context.Context, start, end time.Time) ([]*entity.Meeting, error) {
	events, err := r.provider.ListEvents(ctx, r.calendarID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find meetings in [%s, %s): %w", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}

	meetings := make([]*entity.Meeting, 0, len(events))
	for _, ev := range events {
		meetings = append(meetings, r.codec.Decode(ev))
	}
	return meetings, nil
}

// Update re-fetches the current event, merges only the fields in changes and
// writes the merged record back. The caller's view of the meeting is never written.
func (r *DefaultMeetingRepository) Update(ctx context.Context, id string, changes entity.MeetingChanges) (*entity.Meeting, error) {
	ev, err := r.provider.GetEvent(ctx, r.calendarID, id)
	if err != nil {
		return nil, fmt.Errorf("update meeting %s: %w", id, err)
	}

	merged := codec.Merge(r.codec.Decode(ev), changes)
	if !merged.EndTime.After(merged.StartTime) {
		return nil, fmt.Errorf("update meeting %s: %w", id, domain.NewValidationError("end time must be after start time"))
	}

	updated, err := r.provider.UpdateEvent(ctx, r.calendarID, id, r.codec.Encode(merged))
	if err != nil {
		return nil, fmt.Errorf("update meeting %s: %w", id, err)
	}
	return r.codec.Decode(updated), nil
}

func (r *DefaultMeetingRepository) Delete(ctx context.Context, id string) error {
	if err := r.provider.DeleteEvent(ctx, r.calendarID, id); err != nil {
		return fmt.Errorf("delete meeting %s: %w", id, err)
	}
	return nil
}
