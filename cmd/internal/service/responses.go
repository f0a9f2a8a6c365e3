package service

import (
	"time"

	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/utils"
)

type ParticipantResponse struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
}

type MeetingResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Content      string                `json:"content"`
	Location     string                `json:"location"`
	Type         string                `json:"type"`
	StartsAt     string                `json:"starts_at"`
	EndsAt       string                `json:"ends_at"`
	Participants []ParticipantResponse `json:"participants"`
	GuildID      string                `json:"guild_id,omitempty"`
	ChannelID    string                `json:"channel_id,omitempty"`
	CreatorID    string                `json:"creator_id,omitempty"`
	MessageID    *string               `json:"message_id,omitempty"`
}

type ConflictEntryResponse struct {
	Meeting      *MeetingResponse      `json:"meeting"`
	Participants []ParticipantResponse `json:"participants"`
}

type ConflictResponse struct {
	HasConflict bool                     `json:"has_conflict"`
	Conflicts   []*ConflictEntryResponse `json:"conflicts"`
	DraftToken  string                   `json:"draft_token,omitempty"`
}

func ToMeetingResponse(m *entity.Meeting, loc *time.Location) *MeetingResponse {
	return &MeetingResponse{
		ID:           m.ID,
		Title:        m.Title,
		Content:      m.Content,
		Location:     m.Location,
		Type:         string(m.Type),
		StartsAt:     utils.FormatTime(m.StartTime, loc),
		EndsAt:       utils.FormatTime(m.EndTime, loc),
		Participants: toParticipantResponses(m.Participants),
		GuildID:      m.Owner.GuildID,
		ChannelID:    m.Owner.ChannelID,
		CreatorID:    m.Owner.CreatorID,
		MessageID:    m.Owner.MessageID,
	}
}

func ToMeetingResponses(meetings []*entity.Meeting, loc *time.Location) []*MeetingResponse {
	out := make([]*MeetingResponse, len(meetings))
	for i, m := range meetings {
		out[i] = ToMeetingResponse(m, loc)
	}
	return out
}

func ToConflictResponse(report ConflictReport, draftToken string, loc *time.Location) *ConflictResponse {
	resp := &ConflictResponse{
		HasConflict: report.HasConflict,
		Conflicts:   make([]*ConflictEntryResponse, len(report.Conflicts)),
		DraftToken:  draftToken,
	}
	for i, c := range report.Conflicts {
		resp.Conflicts[i] = &ConflictEntryResponse{
			Meeting:      ToMeetingResponse(c.Meeting, loc),
			Participants: toParticipantResponses(c.Participants),
		}
	}
	return resp
}

func toParticipantResponses(ps []entity.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, len(ps))
	for i, p := range ps {
		out[i] = ParticipantResponse{UserID: p.UserID, Name: p.DisplayName}
	}
	return out
}
