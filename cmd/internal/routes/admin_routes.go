package routes

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"meetboard/cmd/internal/jobs"
	"meetboard/cmd/internal/tracker"
	"meetboard/cmd/internal/utils"
	"meetboard/cmd/internal/utils/apierror"
)

type JobRunner interface {
	TriggerRefresh(ctx context.Context) error
	RunJob(ctx context.Context, name string) error
	Entries() []jobs.EntryInfo
}

type ReminderStats interface {
	Stats() tracker.ReminderStats
}

type BoardResetter interface {
	Reset() error
}

type DefaultAdminRoute struct {
	Jobs      JobRunner
	Reminders ReminderStats
	Board     BoardResetter
}

func NewAdminDefault(runner JobRunner, reminders ReminderStats, board BoardResetter) *DefaultAdminRoute {
	return &DefaultAdminRoute{Jobs: runner, Reminders: reminders, Board: board}
}

// RefreshBoard refreshes the board now. With ?rebuild=true the old messages
// are forgotten and a fresh board is posted.
func (a *DefaultAdminRoute) RefreshBoard(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	rebuild := false
	if raw := c.QueryParam("rebuild"); raw != "" {
		var err error
		if rebuild, err = strconv.ParseBool(raw); err != nil {
			return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamError("rebuild", "true or false"))
		}
	}

	if rebuild {
		if err := a.Board.Reset(); err != nil {
			return respondError(c, err)
		}
	}

	if err := a.Jobs.TriggerRefresh(c.Request().Context()); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *DefaultAdminRoute) RunJob(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("name"))
	}
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if !jobs.IsKnown(name) {
		return c.JSON(apierror.UnknownJobError.Code(), apierror.UnknownJobError)
	}

	if err := a.Jobs.RunJob(c.Request().Context(), name); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *DefaultAdminRoute) GetJobs(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"jobs": a.Jobs.Entries()}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAdminRoute) GetReminderStats(c echo.Context) error {
	if apierr := requireAdmin(c); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, a.Reminders.Stats())
}

func requireAdmin(c echo.Context) apierror.ErrorResponse {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return apierror.InvalidAuthTokenError
	}
	if !data.IsAdmin {
		return apierror.PermissionDeniedError
	}
	return nil
}
