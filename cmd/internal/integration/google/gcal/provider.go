package gcal

import (
	"context"
	"time"
)

// Event is the provider-neutral view of a calendar event.
type Event struct {
	ID          string
	Summary     string
	Location    string
	Description string
	Start       EventTime
	End         EventTime
	// Private holds provider-native private metadata (hidden from attendees).
	Private map[string]string
}

type EventTime struct {
	DateTime time.Time
	TimeZone string
}

// Provider is the subset of the calendar API the meeting store consumes.
type Provider interface {
	InsertEvent(ctx context.Context, calendarID string, event *Event) (string, error)
	// ListEvents returns single occurrences intersecting [timeMin, timeMax), ordered by start time.
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error)
	GetEvent(ctx context.Context, calendarID, id string) (*Event, error)
	UpdateEvent(ctx context.Context, calendarID, id string, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, calendarID, id string) error
}
