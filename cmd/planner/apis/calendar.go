package apis

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"planner-backend/cmd/planner/calendar"
	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/labstack/echo/v4"
)

type IEventReader interface {
	Events(ctx context.Context, sess service.Session, workspaceID int64, start, end time.Time) ([]model.Event, error)
	ListInRange(ctx context.Context, sess service.Session, workspaceID int64, start, end time.Time) ([]model.EventView, error)
}

// CalendarAPI serves the month, week and day projections of a workspace.
// A failed event fetch still renders the calendar, empty, with the error as
// the message.
type CalendarAPI struct {
	events IEventReader
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewCalendarAPI(events IEventReader, logger *slog.Logger, loc *time.Location) *CalendarAPI {
	return &CalendarAPI{
		events: events,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

func (a *CalendarAPI) Setup(g *echo.Group) {
	g.GET("/workspaces/:id/calendar/month", a.month)
	g.GET("/workspaces/:id/calendar/week", a.week)
	g.GET("/workspaces/:id/calendar/day", a.day)
}

type monthCell struct {
	calendar.Cell
	Visible []calendar.EventSummary `json:"visible"`
	More    int                     `json:"more"`
}

type monthResponse struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Cells []monthCell `json:"cells"`
}

type weekResponse struct {
	Week      calendar.Week `json:"week"`
	NowOffset *float64      `json:"now_offset"`
}

type dayResponse struct {
	Day    calendar.Day      `json:"day"`
	Events []model.EventView `json:"events"`
}

func (a *CalendarAPI) anchor(c echo.Context) (time.Time, error) {
	if v := c.QueryParam("date"); v != "" {
		return parseDate(v, a.loc)
	}
	return a.now().In(a.loc), nil
}

// fetchFailed reports whether err should fail the request. Errors about the
// caller or the workspace do; store failures only degrade the projection.
func (a *CalendarAPI) fetchFailed(err error) bool {
	if err == nil {
		return false
	}
	return statusOf(err) != http.StatusInternalServerError
}

func (a *CalendarAPI) message(err error, workspaceID int64) string {
	if err == nil {
		return "success"
	}
	a.logger.Warn("calendar fetch failed", "workspace_id", workspaceID, "error", err)
	return service.ReadableError(err, "Failed to load events")
}

func (a *CalendarAPI) month(c echo.Context) error {

	ctx := c.Request().Context()

	workspaceID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	anchor, err := a.anchor(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	start, end := calendar.BuildMonthGrid(anchor, nil).Range()
	events, err := a.events.Events(ctx, sessionOf(c), workspaceID, start, end)
	if a.fetchFailed(err) {
		return respondError(c, err)
	}

	grid := calendar.BuildMonthGrid(anchor, events).Mark(anchor, a.now())
	resp := monthResponse{
		Year:  grid.Year,
		Month: grid.Month,
		Cells: make([]monthCell, 0, len(grid.Cells)),
	}
	for _, cell := range grid.Cells {
		visible, more := cell.Visible(calendar.MonthEventCap)
		resp.Cells = append(resp.Cells, monthCell{Cell: cell, Visible: visible, More: more})
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: a.message(err, workspaceID),
			Data:    resp,
		},
	)
}

func (a *CalendarAPI) week(c echo.Context) error {

	ctx := c.Request().Context()

	workspaceID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	anchor, err := a.anchor(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	start, end := calendar.BuildWeek(anchor, nil).Range()
	events, err := a.events.Events(ctx, sessionOf(c), workspaceID, start, end)
	if a.fetchFailed(err) {
		return respondError(c, err)
	}

	resp := weekResponse{Week: calendar.BuildWeek(anchor, events)}
	if offset, ok := resp.Week.NowIndicator(a.now()); ok {
		resp.NowOffset = &offset
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: a.message(err, workspaceID),
			Data:    resp,
		},
	)
}

func (a *CalendarAPI) day(c echo.Context) error {

	ctx := c.Request().Context()

	workspaceID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	anchor, err := a.anchor(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	start, end := calendar.BuildDay(anchor, nil).Range()
	views, err := a.events.ListInRange(ctx, sessionOf(c), workspaceID, start, end)
	if a.fetchFailed(err) {
		return respondError(c, err)
	}
	if views == nil {
		views = []model.EventView{}
	}

	events := make([]model.Event, 0, len(views))
	for _, v := range views {
		events = append(events, model.Event{ID: v.ID, Title: v.Title, Date: v.Date})
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: a.message(err, workspaceID),
			Data: dayResponse{
				Day:    calendar.BuildDay(anchor, events),
				Events: views,
			},
		},
	)
}
