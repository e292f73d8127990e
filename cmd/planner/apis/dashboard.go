package apis

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"planner-backend/cmd/planner/dashboard"
	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sessionSource fetches dashboard events with the owner's access checks.
type sessionSource struct {
	events IEventReader
	sess   service.Session
}

func (s sessionSource) ListEventsInRange(ctx context.Context, workspaceID int64, start, end time.Time) ([]model.Event, error) {
	return s.events.Events(ctx, s.sess, workspaceID, start, end)
}

const (
	// boardIdleTTL is how long an untouched dashboard is kept in memory.
	boardIdleTTL = 30 * time.Minute
	// maxBoards caps the number of dashboards held at once; past it the
	// least recently used one is dropped.
	maxBoards = 10000
)

type boardEntry struct {
	board    *dashboard.Dashboard
	lastSeen time.Time
}

// DashboardAPI keeps one dashboard state per user. Idle boards are evicted
// and a user coming back starts from a fresh one.
type DashboardAPI struct {
	events     IEventReader
	workspaces IWorkspaceService
	logger     *slog.Logger
	loc        *time.Location
	now        func() time.Time

	mu        sync.Mutex
	boards    map[uuid.UUID]*boardEntry
	idleTTL   time.Duration
	maxBoards int
}

func NewDashboardAPI(events IEventReader, workspaces IWorkspaceService, logger *slog.Logger, loc *time.Location) *DashboardAPI {
	return &DashboardAPI{
		events:     events,
		workspaces: workspaces,
		logger:     logger,
		loc:        loc,
		now:        time.Now,
		boards:     map[uuid.UUID]*boardEntry{},
		idleTTL:    boardIdleTTL,
		maxBoards:  maxBoards,
	}
}

func (a *DashboardAPI) Setup(g *echo.Group) {
	g.GET("/dashboard", a.getDashboard)
	g.PUT("/dashboard", a.updateDashboard)
}

func (a *DashboardAPI) board(sess service.Session) (*dashboard.Dashboard, error) {
	if !sess.Valid() {
		return nil, service.ErrNoSession
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if entry, ok := a.boards[sess.UserID]; ok {
		entry.lastSeen = now
		return entry.board, nil
	}

	a.evict(now)
	d := dashboard.New(sessionSource{events: a.events, sess: sess}, now.In(a.loc))
	d.SelectWorkspace(sess.WorkspaceID)
	a.boards[sess.UserID] = &boardEntry{board: d, lastSeen: now}
	return d, nil
}

// evict drops idle boards, then the least recently used ones until there is
// room for one more. Callers hold a.mu.
func (a *DashboardAPI) evict(now time.Time) {
	for id, entry := range a.boards {
		if now.Sub(entry.lastSeen) > a.idleTTL {
			delete(a.boards, id)
		}
	}
	for len(a.boards) >= a.maxBoards && len(a.boards) > 0 {
		var oldest uuid.UUID
		var oldestSeen time.Time
		first := true
		for id, entry := range a.boards {
			if first || entry.lastSeen.Before(oldestSeen) {
				oldest, oldestSeen, first = id, entry.lastSeen, false
			}
		}
		delete(a.boards, oldest)
	}
}

func (a *DashboardAPI) render(c echo.Context, d *dashboard.Dashboard) error {

	msg := "success"
	if _, err := d.Refresh(c.Request().Context()); err != nil {
		a.logger.Warn("dashboard refresh failed", "workspace_id", d.State().WorkspaceID, "error", err)
		msg = service.ReadableError(err, "Failed to load events")
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: msg,
			Data:    d.Projection(a.now()),
		},
	)
}

func (a *DashboardAPI) getDashboard(c echo.Context) error {

	d, err := a.board(sessionOf(c))
	if err != nil {
		return respondError(c, err)
	}

	return a.render(c, d)
}

func (a *DashboardAPI) updateDashboard(c echo.Context) error {

	sess := sessionOf(c)

	d, err := a.board(sess)
	if err != nil {
		return respondError(c, err)
	}

	var req model.DashboardUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	var date time.Time
	if req.SelectedDate != "" {
		date, err = parseDate(req.SelectedDate, a.loc)
		if err != nil {
			return badRequest(c, err.Error())
		}
	}

	if id := req.SelectedWorkspaceID; id != nil && *id != 0 {
		if _, err := a.workspaces.Get(c.Request().Context(), sess, *id); err != nil {
			return respondError(c, err)
		}
	}

	if req.View != "" {
		if err := d.SetView(dashboard.View(req.View)); err != nil {
			return respondError(c, err)
		}
	}
	if !date.IsZero() {
		d.SetSelectedDate(date)
	}
	if req.SelectedWorkspaceID != nil {
		d.SelectWorkspace(*req.SelectedWorkspaceID)
	}
	if req.SearchQuery != nil {
		d.SetSearchQuery(*req.SearchQuery)
	}
	if req.ToggleLeftSidebar {
		d.ToggleLeftSidebar()
	}
	if req.ToggleRightPanel {
		d.ToggleRightPanel()
	}

	return a.render(c, d)
}
