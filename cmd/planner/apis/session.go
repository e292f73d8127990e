package apis

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"planner-backend/cmd/planner/calendar"
	"planner-backend/cmd/planner/dashboard"
	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID      = "X-User-ID"
	HeaderWorkspaceID = "X-Workspace-ID"

	sessionKey = "session"
)

// SessionMiddleware reads the caller's identity from request headers. A
// request without identity carries an empty session; handlers that mutate
// data reject it.
func SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			var sess service.Session

			if raw := strings.TrimSpace(c.Request().Header.Get(HeaderUserID)); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					return c.JSON(
						http.StatusUnauthorized,
						model.BaseResponse{
							Message: "invalid " + HeaderUserID,
						},
					)
				}
				sess.UserID = id
			}

			if raw := strings.TrimSpace(c.Request().Header.Get(HeaderWorkspaceID)); raw != "" {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id < 0 {
					return c.JSON(
						http.StatusBadRequest,
						model.BaseResponse{
							Message: "invalid " + HeaderWorkspaceID,
						},
					)
				}
				sess.WorkspaceID = id
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

func sessionOf(c echo.Context) service.Session {
	sess, _ := c.Get(sessionKey).(service.Session)
	return sess
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoWorkspace),
		errors.Is(err, service.ErrNoTemplate),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, dashboard.ErrUnknownView):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(c echo.Context, err error) error {
	return c.JSON(
		statusOf(err),
		model.BaseResponse{
			Message: service.ReadableError(err, http.StatusText(statusOf(err))),
		},
	)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(
		http.StatusBadRequest,
		model.BaseResponse{
			Message: msg,
		},
	)
}

func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// parseDate accepts a calendar date (YYYY-MM-DD, the first instant of that
// date in loc) or an RFC 3339 timestamp.
func parseDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return calendar.StartOfDay(calendar.KeyOf(t), loc), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New("dates must be YYYY-MM-DD or RFC 3339")
	}
	return t.In(loc), nil
}
