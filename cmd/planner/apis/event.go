package apis

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"planner-backend/cmd/planner/calendar"
	"planner-backend/cmd/planner/export"
	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/labstack/echo/v4"
)

type IEventService interface {
	Create(ctx context.Context, sess service.Session, req model.EventCreateRequest) (model.EventView, error)
	Update(ctx context.Context, sess service.Session, id int64, req model.EventUpdateRequest) (model.EventView, error)
	Delete(ctx context.Context, sess service.Session, id int64) error
	Get(ctx context.Context, sess service.Session, id int64) (model.EventView, error)
	ListInRange(ctx context.Context, sess service.Session, workspaceID int64, start, end time.Time) ([]model.EventView, error)
	Events(ctx context.Context, sess service.Session, workspaceID int64, start, end time.Time) ([]model.Event, error)
	ImportCSV(ctx context.Context, sess service.Session, workspaceID int64, r io.Reader) ([]model.Event, error)
}

type EventAPI struct {
	events IEventService
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

func NewEventAPI(events IEventService, logger *slog.Logger, loc *time.Location) *EventAPI {

	return &EventAPI{
		events: events,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/workspaces/:id/events", a.listEvents)
	g.POST("/workspaces/:id/events/import", a.importEvents)
	g.GET("/workspaces/:id/events.ics", a.exportEvents)
	g.POST("/events", a.createEvent)
	g.GET("/events/:id", a.getEvent)
	g.PATCH("/events/:id", a.updateEvent)
	g.DELETE("/events/:id", a.deleteEvent)
}

// rangeParams reads ?start=&end=. Missing bounds default to the month grid
// around today.
func (a *EventAPI) rangeParams(c echo.Context) (time.Time, time.Time, error) {
	start, end := calendar.BuildMonthGrid(a.now().In(a.loc), nil).Range()

	if v := c.QueryParam("start"); v != "" {
		t, err := parseDate(v, a.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := parseDate(v, a.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if len(v) == len(time.DateOnly) {
			t = calendar.EndOfDay(calendar.KeyOf(t), a.loc)
		}
		end = t
	}
	return start, end, nil
}

func (a *EventAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	workspaceID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	start, end, err := a.rangeParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := a.events.ListInRange(ctx, sessionOf(c), workspaceID, start, end)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    events,
		},
	)
}

func (a *EventAPI) getEvent(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	event, err := a.events.Get(ctx, sessionOf(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    event,
		},
	)
}

func (a *EventAPI) createEvent(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.EventCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	event, err := a.events.Create(ctx, sessionOf(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "Event created successfully!",
			Data:    event,
		},
	)
}

func (a *EventAPI) updateEvent(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.EventUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	event, err := a.events.Update(ctx, sessionOf(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    event,
		},
	)
}

func (a *EventAPI) deleteEvent(c echo.Context) error {

	ctx := c.Request().Context()

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := a.events.Delete(ctx, sessionOf(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}

func (a *EventAPI) importEvents(c echo.Context) error {

	ctx := c.Request().Context()

	workspaceID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	csvfile, err := c.FormFile("csvfile")
	if err != nil {
		return badRequest(c, err.Error())
	}

	cf, err := csvfile.Open()
	if err != nil {
		return badRequest(c, err.Error())
	}

	defer cf.Close()

	events, err := a.events.ImportCSV(ctx, sessionOf(c), workspaceID, cf)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    events,
		},
	)
}

func (a *EventAPI) exportEvents(c echo.Context) error {

	ctx := c.Request().Context()

	workspaceID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	start, end, err := a.rangeParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	events, err := a.events.ListInRange(ctx, sessionOf(c), workspaceID, start, end)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/calendar; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return export.Write(c.Response(), c.QueryParam("name"), events, a.now())
}
