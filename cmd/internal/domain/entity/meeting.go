package entity

import (
	"strings"
	"time"
)

type MeetingType string

const (
	MeetingTypeOnline  MeetingType = "ONLINE"
	MeetingTypeOffline MeetingType = "OFFLINE"
)

const (
	DefaultDuration = 2 * time.Hour
	MaxParticipants = 20
)

// Labels written into older events before the type became an enum.
var legacyTypeLabels = map[string]MeetingType{
	"線上會議": MeetingTypeOnline,
	"線下會議": MeetingTypeOffline,
}

// ParseMeetingType accepts the enum value in any case and the legacy labels.
func ParseMeetingType(s string) (MeetingType, bool) {
	s = strings.TrimSpace(s)
	switch MeetingType(strings.ToUpper(s)) {
	case MeetingTypeOnline:
		return MeetingTypeOnline, true
	case MeetingTypeOffline:
		return MeetingTypeOffline, true
	}
	t, ok := legacyTypeLabels[s]
	return t, ok
}

type Participant struct {
	UserID      string
	DisplayName string
}

// NoChatMarker tags participants entered by name only, without a chat account.
const NoChatMarker = "(無DC)"

// Reachable reports whether the participant has a chat identity that can receive direct messages.
func (p Participant) Reachable() bool {
	return p.UserID != "" && !strings.Contains(p.DisplayName, NoChatMarker)
}

// OwnerContext is the chat context a meeting was created from.
// The calendar provider never interprets it.
type OwnerContext struct {
	GuildID   string
	ChannelID string
	CreatorID string
	MessageID *string
}

func (o OwnerContext) IsZero() bool {
	return o.GuildID == "" && o.ChannelID == "" && o.CreatorID == "" && o.MessageID == nil
}

type Meeting struct {
	ID           string
	Title        string
	Content      string
	Location     string
	Type         MeetingType
	StartTime    time.Time
	EndTime      time.Time
	Participants []Participant
	Owner        OwnerContext
}

func (m *Meeting) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// Overlaps uses half-open ranges, so back-to-back meetings do not overlap.
func (m *Meeting) Overlaps(start, end time.Time) bool {
	return m.StartTime.Before(end) && start.Before(m.EndTime)
}

func (m *Meeting) HasParticipant(userID string) bool {
	for _, p := range m.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// MeetingChanges is a partial update. A nil field is not part of the change-set.
type MeetingChanges struct {
	Title        *string
	Content      *string
	Location     *string
	Type         *MeetingType
	StartTime    *time.Time
	EndTime      *time.Time
	Participants []Participant
	Owner        *OwnerContext
}

func (c MeetingChanges) TouchesSchedule() bool {
	return c.StartTime != nil || c.EndTime != nil || c.Participants != nil
}

func (c MeetingChanges) IsEmpty() bool {
	return c.Title == nil && c.Content == nil && c.Location == nil && c.Type == nil &&
		c.StartTime == nil && c.EndTime == nil && c.Participants == nil && c.Owner == nil
}
