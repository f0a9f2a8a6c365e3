package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/clock"
	"meetboard/cmd/internal/codec"
	"meetboard/cmd/internal/datetime"
	"meetboard/cmd/internal/domain"
	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/integration/discord"
	"meetboard/cmd/internal/render"
	"meetboard/cmd/internal/session"
	"meetboard/cmd/internal/utils"
)

const participantLookahead = 30 * 24 * time.Hour

const (
	RangeToday    = "today"
	RangeThisWeek = "this_week"
	RangeMonth    = "this_month"
)

type MeetingRepository interface {
	MeetingFinder
	Save(ctx context.Context, meeting *entity.Meeting) error
	FindByID(ctx context.Context, id string) (*entity.Meeting, error)
	Update(ctx context.Context, id string, changes entity.MeetingChanges) (*entity.Meeting, error)
	Delete(ctx context.Context, id string) error
}

type Notifier interface {
	FetchUser(ctx context.Context, id string) (*discord.User, error)
	SendDirectMessage(ctx context.Context, userID, content string) error
}

type BoardRefresher interface {
	TriggerRefresh(ctx context.Context) error
}

// Actor is the caller of a mutating operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type ParticipantRequest struct {
	UserID string `json:"user_id" validate:"omitempty,max=32,nospaces"`
	Name   string `json:"name" validate:"required,max=64"`
}

type MeetingRequest struct {
	Title           string               `json:"title" validate:"required,max=100"`
	Content         string               `json:"content" validate:"max=1000"`
	Location        string               `json:"location" validate:"required,max=200"`
	Type            string               `json:"type" validate:"required,meetingtype"`
	Date            string               `json:"date" validate:"required,civildate"`
	Time            string               `json:"time" validate:"required,civiltime"`
	DurationMinutes int                  `json:"duration_minutes" validate:"omitempty,min=15,max=1440"`
	Participants    []ParticipantRequest `json:"participants" validate:"required,min=1,max=20,dive"`
	GuildID         string               `json:"guild_id" validate:"max=32"`
	ChannelID       string               `json:"channel_id" validate:"max=32"`
	MessageID       string               `json:"message_id" validate:"max=32"`
	Confirm         bool                 `json:"confirm"`
}

type UpdateMeetingRequest struct {
	Title           *string              `json:"title" validate:"omitempty,max=100"`
	Content         *string              `json:"content" validate:"omitempty,max=1000"`
	Location        *string              `json:"location" validate:"omitempty,max=200"`
	Type            *string              `json:"type" validate:"omitempty,meetingtype"`
	Date            *string              `json:"date" validate:"omitempty,civildate"`
	Time            *string              `json:"time" validate:"omitempty,civiltime"`
	DurationMinutes *int                 `json:"duration_minutes" validate:"omitempty,min=15,max=1440"`
	Participants    []ParticipantRequest `json:"participants" validate:"omitempty,min=1,max=20,dive"`
	Confirm         bool                 `json:"confirm"`
}

type ConflictRequest struct {
	Date            string               `json:"date" validate:"required,civildate"`
	Time            string               `json:"time" validate:"required,civiltime"`
	DurationMinutes int                  `json:"duration_minutes" validate:"omitempty,min=15,max=1440"`
	Participants    []ParticipantRequest `json:"participants" validate:"required,min=1,max=20,dive"`
	ExcludeID       string               `json:"exclude_id"`
}

// CreateResult is either a created meeting or a conflict report with the
// token that confirms the pending draft.
type CreateResult struct {
	Meeting    *entity.Meeting
	Report     ConflictReport
	DraftToken string
}

func (r *CreateResult) Created() bool {
	return r.Meeting != nil
}

type UpdateResult struct {
	Meeting *entity.Meeting
	Report  ConflictReport
}

func (r *UpdateResult) Updated() bool {
	return r.Meeting != nil
}

// NotifyCounts counts cancellation DMs. Total excludes skipped participants,
// the ones without a chat identity.
type NotifyCounts struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

type CancelResult struct {
	Meeting  *entity.Meeting
	Notified NotifyCounts
}

type DefaultMeetingService struct {
	repo     MeetingRepository
	detector *ConflictDetector
	notifier Notifier
	drafts   *session.DraftStore
	board    BoardRefresher
	renderer *render.Renderer
	norm     *datetime.Normalizer
	validate *validator.Validate
	clock    clock.Clock
}

type MeetingServiceOption func(*DefaultMeetingService)

// WithBoardRefresher makes every mutation refresh the board.
func WithBoardRefresher(board BoardRefresher) MeetingServiceOption {
	return func(s *DefaultMeetingService) {
		s.board = board
	}
}

func WithClock(clk clock.Clock) MeetingServiceOption {
	return func(s *DefaultMeetingService) {
		s.clock = clk
	}
}

func NewMeetingService(repo MeetingRepository, notifier Notifier, drafts *session.DraftStore, norm *datetime.Normalizer,
	validate *validator.Validate, opts ...MeetingServiceOption) *DefaultMeetingService {
	svc := &DefaultMeetingService{
		repo:     repo,
		detector: NewConflictDetector(repo),
		notifier: notifier,
		drafts:   drafts,
		renderer: render.New(norm),
		norm:     norm,
		validate: validate,
		clock:    clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *DefaultMeetingService) CreateMeeting(ctx context.Context, actor Actor, req *MeetingRequest) (*CreateResult, error) {
	utils.Sanitize(req)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	start, err := s.norm.Parse(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !start.After(s.clock.Now()) {
		return nil, domain.NewValidationError("meetings cannot be scheduled in the past")
	}

	participants, err := toParticipants(req.Participants)
	if err != nil {
		return nil, err
	}

	meetingType, _ := entity.ParseMeetingType(req.Type)
	meeting := &entity.Meeting{
		Title:        req.Title,
		Content:      req.Content,
		Location:     req.Location,
		Type:         meetingType,
		StartTime:    start,
		EndTime:      start.Add(durationOrDefault(req.DurationMinutes)),
		Participants: participants,
		Owner: entity.OwnerContext{
			GuildID:   req.GuildID,
			ChannelID: req.ChannelID,
			CreatorID: actor.UserID,
			MessageID: optional(req.MessageID),
		},
	}

	report, err := s.detector.Check(ctx, meeting.StartTime, meeting.EndTime, meeting.Participants, "")
	if err != nil {
		return nil, err
	}
	if report.HasConflict && !req.Confirm {
		draft := s.drafts.Put(actor.UserID, *meeting)
		return &CreateResult{Report: report, DraftToken: draft.Token}, nil
	}

	if err := s.repo.Save(ctx, meeting); err != nil {
		log.Errorf("failed to save meeting %q: %v", meeting.Title, err)
		return nil, err
	}
	s.refreshBoard(ctx)
	return &CreateResult{Meeting: meeting, Report: report}, nil
}

// ConfirmDraft writes a meeting the creator chose to keep despite conflicts.
// Conflicts are not checked again.
func (s *DefaultMeetingService) ConfirmDraft(ctx context.Context, actor Actor, token string) (*entity.Meeting, error) {
	draft, err := s.drafts.Take(actor.UserID, token)
	if err != nil {
		return nil, err
	}

	meeting := draft.Meeting
	if !meeting.StartTime.After(s.clock.Now()) {
		return nil, domain.NewValidationError("meetings cannot be scheduled in the past")
	}

	if err := s.repo.Save(ctx, &meeting); err != nil {
		log.Errorf("failed to save confirmed draft %s: %v", token, err)
		return nil, err
	}
	s.refreshBoard(ctx)
	return &meeting, nil
}

func (s *DefaultMeetingService) GetMeeting(ctx context.Context, id string) (*entity.Meeting, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateMeeting merges the request into the current meeting. When the schedule
// or the participants change and the result conflicts, nothing is written
// unless req.Confirm is set.
func (s *DefaultMeetingService) UpdateMeeting(ctx context.Context, actor Actor, id string, req *UpdateMeetingRequest) (*UpdateResult, error) {
	utils.Sanitize(req)
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, current); err != nil {
		return nil, err
	}

	changes, err := s.toChanges(current, req)
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return nil, domain.NewValidationError("nothing to update")
	}

	report := ConflictReport{Conflicts: []Conflict{}}
	if changes.TouchesSchedule() {
		preview := codec.Merge(current, changes)
		if !preview.EndTime.After(preview.StartTime) {
			return nil, domain.NewValidationError("end time must be after start time")
		}
		if changes.StartTime != nil && !preview.StartTime.After(s.clock.Now()) {
			return nil, domain.NewValidationError("meetings cannot be scheduled in the past")
		}

		report, err = s.detector.Check(ctx, preview.StartTime, preview.EndTime, preview.Participants, id)
		if err != nil {
			return nil, err
		}
		if report.HasConflict && !req.Confirm {
			return &UpdateResult{Report: report}, nil
		}
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		log.Errorf("failed to update meeting %s: %v", id, err)
		return nil, err
	}
	s.refreshBoard(ctx)
	return &UpdateResult{Meeting: updated, Report: report}, nil
}

// CancelMeeting deletes the meeting and tells every participant the chat
// platform still knows.
func (s *DefaultMeetingService) CancelMeeting(ctx context.Context, actor Actor, id string) (*CancelResult, error) {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, meeting); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Errorf("failed to delete meeting %s: %v", id, err)
		return nil, err
	}

	content := s.renderer.Cancellation(meeting, actor.UserID)
	var counts NotifyCounts
	for _, p := range meeting.Participants {
		if !p.Reachable() {
			counts.Skipped++
			continue
		}
		if _, err := s.notifier.FetchUser(ctx, p.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Infof("participant %s (%s) left the server, not notified", p.DisplayName, p.UserID)
				counts.Skipped++
				continue
			}
			log.Warnf("failed to resolve %s (%s): %v", p.DisplayName, p.UserID, err)
			counts.Failed++
			continue
		}
		if err := s.notifier.SendDirectMessage(ctx, p.UserID, content); err != nil {
			log.Warnf("failed to notify %s (%s) about cancelled meeting %s: %v", p.DisplayName, p.UserID, id, err)
			counts.Failed++
			continue
		}
		counts.Success++
	}
	counts.Total = counts.Success + counts.Failed
	log.Infof("cancelled meeting %s: notified %d/%d, skipped %d", id, counts.Success, counts.Total, counts.Skipped)

	s.refreshBoard(ctx)
	return &CancelResult{Meeting: meeting, Notified: counts}, nil
}

func (s *DefaultMeetingService) ListMeetings(ctx context.Context, rangeName string) ([]*entity.Meeting, error) {
	now := s.clock.Now()

	var start, end time.Time
	switch rangeName {
	case RangeToday, "":
		start, end = s.norm.DayRange(now)
	case RangeThisWeek:
		start, end = s.norm.ISOWeekRange(now)
	case RangeMonth:
		start, end = s.norm.MonthRange(now)
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown range %q", rangeName))
	}
	return s.repo.FindInRange(ctx, start, end)
}

// ListByParticipant returns the meetings of the next 30 days the user takes part in.
func (s *DefaultMeetingService) ListByParticipant(ctx context.Context, userID string) ([]*entity.Meeting, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.NewValidationError("user id is required")
	}

	now := s.clock.Now()
	all, err := s.repo.FindInRange(ctx, now, now.Add(participantLookahead))
	if err != nil {
		return nil, err
	}

	mine := make([]*entity.Meeting, 0, len(all))
	for _, m := range all {
		if m.HasParticipant(userID) {
			mine = append(mine, m)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].StartTime.Before(mine[j].StartTime)
	})
	return mine, nil
}

func (s *DefaultMeetingService) CheckConflicts(ctx context.Context, req *ConflictRequest) (ConflictReport, error) {
	utils.Sanitize(req)
	if err := s.validateStruct(req); err != nil {
		return ConflictReport{}, err
	}

	start, err := s.norm.Parse(req.Date, req.Time)
	if err != nil {
		return ConflictReport{}, err
	}
	participants, err := toParticipants(req.Participants)
	if err != nil {
		return ConflictReport{}, err
	}
	return s.detector.Check(ctx, start, start.Add(durationOrDefault(req.DurationMinutes)), participants, req.ExcludeID)
}

func (s *DefaultMeetingService) toChanges(current *entity.Meeting, req *UpdateMeetingRequest) (entity.MeetingChanges, error) {
	var changes entity.MeetingChanges
	var problems []string

	if req.Title != nil {
		if *req.Title == "" {
			problems = append(problems, "title cannot be empty")
		}
		changes.Title = req.Title
	}
	if req.Location != nil {
		if *req.Location == "" {
			problems = append(problems, "location cannot be empty")
		}
		changes.Location = req.Location
	}
	changes.Content = req.Content

	if req.Type != nil {
		t, _ := entity.ParseMeetingType(*req.Type)
		changes.Type = &t
	}

	if req.Date != nil || req.Time != nil {
		date := s.norm.Format(current.StartTime, "2006-01-02")
		clockTime := s.norm.Format(current.StartTime, "15:04")
		if req.Date != nil {
			date = *req.Date
		}
		if req.Time != nil {
			clockTime = *req.Time
		}
		start, err := s.norm.Parse(date, clockTime)
		if err != nil {
			return changes, err
		}
		changes.StartTime = &start
	}

	if req.DurationMinutes != nil {
		start := current.StartTime
		if changes.StartTime != nil {
			start = *changes.StartTime
		}
		end := start.Add(time.Duration(*req.DurationMinutes) * time.Minute)
		changes.EndTime = &end
	}

	if req.Participants != nil {
		participants, err := toParticipants(req.Participants)
		if err != nil {
			return changes, err
		}
		changes.Participants = participants
	}

	if len(problems) > 0 {
		return changes, domain.NewValidationError(problems...)
	}
	return changes, nil
}

func (s *DefaultMeetingService) validateStruct(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", domain.ErrValidation, verrs)
		}
		return err
	}
	return nil
}

// refreshBoard failures never fail the mutation that triggered them.
func (s *DefaultMeetingService) refreshBoard(ctx context.Context) {
	if s.board == nil {
		return
	}
	if err := s.board.TriggerRefresh(ctx); err != nil {
		log.Warnf("board refresh after mutation failed: %v", err)
	}
}

func authorize(actor Actor, m *entity.Meeting) error {
	if actor.IsAdmin {
		return nil
	}
	if actor.UserID != "" && m.Owner.CreatorID == actor.UserID {
		return nil
	}
	return fmt.Errorf("meeting %s: %w", m.ID, domain.ErrForbidden)
}

// toParticipants keeps request order and rejects duplicates: by user id, or by
// name for participants without one.
func toParticipants(reqs []ParticipantRequest) ([]entity.Participant, error) {
	seen := make(map[string]struct{}, len(reqs))
	out := make([]entity.Participant, 0, len(reqs))
	for _, r := range reqs {
		key := "id:" + r.UserID
		if r.UserID == "" {
			key = "name:" + strings.ToLower(r.Name)
		}
		if _, dup := seen[key]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("participant %q is listed twice", r.Name))
		}
		seen[key] = struct{}{}
		out = append(out, entity.Participant{UserID: r.UserID, DisplayName: r.Name})
	}
	if len(out) > entity.MaxParticipants {
		return nil, domain.NewValidationError(fmt.Sprintf("at most %d participants", entity.MaxParticipants))
	}
	return out, nil
}

func durationOrDefault(minutes int) time.Duration {
	if minutes <= 0 {
		return entity.DefaultDuration
	}
	return time.Duration(minutes) * time.Minute
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
