package routes

import (
	"github.com/labstack/echo/v4"
)

// Mount registers every handler under /api.
func Mount(e *echo.Echo, meetings *DefaultMeetingRoute, admin *DefaultAdminRoute) {
	// Meetings
	e.GET("/api/meetings", meetings.GetMeetings)
	e.GET("/api/meetings.ics", meetings.GetCalendarFeed)
	e.GET("/api/meetings/:id", meetings.GetMeeting)
	e.POST("/api/meetings", meetings.CreateMeeting)
	e.POST("/api/meetings/drafts/:token/confirm", meetings.ConfirmDraft)
	e.PATCH("/api/meetings/:id", meetings.UpdateMeeting)
	e.DELETE("/api/meetings/:id", meetings.CancelMeeting)
	e.GET("/api/users/:id/meetings", meetings.GetUserMeetings)

	// Pseudo-entity to check a slot before creating a meeting
	e.POST("/api/conflicts", meetings.CheckConflicts)

	// Admin
	e.POST("/api/board/refresh", admin.RefreshBoard)
	e.GET("/api/jobs", admin.GetJobs)
	e.POST("/api/jobs/:name/run", admin.RunJob)
	e.GET("/api/reminders/stats", admin.GetReminderStats)
}
