package routes

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"meetboard/cmd/internal/domain/entity"
	"meetboard/cmd/internal/export"
	"meetboard/cmd/internal/service"
	"meetboard/cmd/internal/utils"
	"meetboard/cmd/internal/utils/apierror"
)

type MeetingService interface {
	CreateMeeting(ctx context.Context, actor service.Actor, req *service.MeetingRequest) (*service.CreateResult, error)
	ConfirmDraft(ctx context.Context, actor service.Actor, token string) (*entity.Meeting, error)
	GetMeeting(ctx context.Context, id string) (*entity.Meeting, error)
	UpdateMeeting(ctx context.Context, actor service.Actor, id string, req *service.UpdateMeetingRequest) (*service.UpdateResult, error)
	CancelMeeting(ctx context.Context, actor service.Actor, id string) (*service.CancelResult, error)
	ListMeetings(ctx context.Context, rangeName string) ([]*entity.Meeting, error)
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Meeting, error)
	CheckConflicts(ctx context.Context, req *service.ConflictRequest) (service.ConflictReport, error)
}

type DefaultMeetingRoute struct {
	MeetingService MeetingService
	Location       *time.Location
}

func NewMeetingDefault(meetingService MeetingService, loc *time.Location) *DefaultMeetingRoute {
	return &DefaultMeetingRoute{MeetingService: meetingService, Location: loc}
}

func (m *DefaultMeetingRoute) GetMeetings(c echo.Context) error {
	if _, err := utils.ParseTokenDataCtx(c); err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	meetings, err := m.MeetingService.ListMeetings(c.Request().Context(), c.QueryParam("range"))
	if err != nil {
		return respondError(c, err)
	}

	resp := echo.Map{"meetings": service.ToMeetingResponses(meetings, m.Location)}
	return c.JSON(http.StatusOK, &resp)
}

func (m *DefaultMeetingRoute) GetCalendarFeed(c echo.Context) error {
	if _, err := utils.ParseTokenDataCtx(c); err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	rangeName := c.QueryParam("range")
	if rangeName == "" {
		rangeName = service.RangeMonth
	}
	meetings, err := m.MeetingService.ListMeetings(c.Request().Context(), rangeName)
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, meetings, time.Now()); err != nil {
		return respondError(c, err)
	}
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (m *DefaultMeetingRoute) GetMeeting(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}
	if _, err := utils.ParseTokenDataCtx(c); err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	meeting, err := m.MeetingService.GetMeeting(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, service.ToMeetingResponse(meeting, m.Location))
}

func (m *DefaultMeetingRoute) CreateMeeting(c echo.Context) error {
	var req service.MeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	res, err := m.MeetingService.CreateMeeting(c.Request().Context(), toActor(data), &req)
	if err != nil {
		return respondError(c, err)
	}
	if !res.Created() {
		return c.JSON(http.StatusConflict, service.ToConflictResponse(res.Report, res.DraftToken, m.Location))
	}
	return c.JSON(http.StatusCreated, service.ToMeetingResponse(res.Meeting, m.Location))
}

func (m *DefaultMeetingRoute) ConfirmDraft(c echo.Context) error {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("token"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	meeting, err := m.MeetingService.ConfirmDraft(c.Request().Context(), toActor(data), token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, service.ToMeetingResponse(meeting, m.Location))
}

func (m *DefaultMeetingRoute) UpdateMeeting(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	var req service.UpdateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	res, err := m.MeetingService.UpdateMeeting(c.Request().Context(), toActor(data), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	if !res.Updated() {
		return c.JSON(http.StatusConflict, service.ToConflictResponse(res.Report, "", m.Location))
	}
	return c.JSON(http.StatusOK, service.ToMeetingResponse(res.Meeting, m.Location))
}

func (m *DefaultMeetingRoute) CancelMeeting(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	res, err := m.MeetingService.CancelMeeting(c.Request().Context(), toActor(data), id)
	if err != nil {
		return respondError(c, err)
	}

	resp := echo.Map{
		"meeting":  service.ToMeetingResponse(res.Meeting, m.Location),
		"notified": res.Notified,
	}
	return c.JSON(http.StatusOK, &resp)
}

func (m *DefaultMeetingRoute) GetUserMeetings(c echo.Context) error {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}
	if userID == "me" {
		userID = data.Sub
	}

	meetings, err := m.MeetingService.ListByParticipant(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	resp := echo.Map{"meetings": service.ToMeetingResponses(meetings, m.Location)}
	return c.JSON(http.StatusOK, &resp)
}

func (m *DefaultMeetingRoute) CheckConflicts(c echo.Context) error {
	var req service.ConflictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if _, err := utils.ParseTokenDataCtx(c); err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	report, err := m.MeetingService.CheckConflicts(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, service.ToConflictResponse(report, "", m.Location))
}

func toActor(data *utils.TokenData) service.Actor {
	return service.Actor{UserID: data.Sub, IsAdmin: data.IsAdmin}
}

func respondError(c echo.Context, err error) error {
	apierr := apierror.FromError(err)
	if apierr.Code() >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(apierr.Code(), apierr)
}
