// Package dashboard holds the per-user calendar state (selected date, view,
// workspace, panel layout) and the last event snapshot fetched for it.
//
// Refreshes are tagged with the workspace and date window they were started
// for. A refresh that completes after the state has moved on is discarded so
// an older, slower fetch never replaces a newer projection.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"planner-backend/cmd/planner/calendar"
	"planner-backend/cmd/planner/model"
)

type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
)

var ErrUnknownView = errors.New("unknown calendar view")

// State is the dashboard's user-facing state. The zero WorkspaceID means no
// workspace is selected.
type State struct {
	LeftSidebarCollapsed bool      `json:"left_sidebar_collapsed"`
	RightPanelCollapsed  bool      `json:"right_panel_collapsed"`
	View                 View      `json:"view"`
	SelectedDate         time.Time `json:"selected_date"`
	SearchQuery          string    `json:"search_query"`
	WorkspaceID          int64     `json:"workspace_id"`
}

type EventSource interface {
	ListEventsInRange(ctx context.Context, workspaceID int64, start, end time.Time) ([]model.Event, error)
}

// FetchKey identifies the parameters a fetch was started with.
type FetchKey struct {
	WorkspaceID int64
	Start       time.Time
	End         time.Time
}

func (k FetchKey) Same(o FetchKey) bool {
	return k.WorkspaceID == o.WorkspaceID && k.Start.Equal(o.Start) && k.End.Equal(o.End)
}

type snapshot struct {
	key    FetchKey
	events []model.Event
	ok     bool
}

type Dashboard struct {
	mu     sync.Mutex
	state  State
	source EventSource
	snap   snapshot
}

// New returns a month-view dashboard with no workspace, selecting today.
func New(source EventSource, today time.Time) *Dashboard {
	return &Dashboard{
		source: source,
		state: State{
			View:         ViewMonth,
			SelectedDate: today,
		},
	}
}

func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dashboard) SetSelectedDate(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SelectedDate = t
}

func (d *Dashboard) SetView(v View) error {
	if v != ViewMonth && v != ViewWeek {
		return ErrUnknownView
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.View = v
	return nil
}

func (d *Dashboard) SelectWorkspace(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.WorkspaceID = id
}

func (d *Dashboard) SetSearchQuery(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SearchQuery = q
}

func (d *Dashboard) ToggleLeftSidebar() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.LeftSidebarCollapsed = !d.state.LeftSidebarCollapsed
}

func (d *Dashboard) ToggleRightPanel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.RightPanelCollapsed = !d.state.RightPanelCollapsed
}

// FetchKey returns the window the current state needs events for.
func (d *Dashboard) FetchKey() FetchKey {
	d.mu.Lock()
	defer d.mu.Unlock()
	return keyFor(d.state)
}

func keyFor(s State) FetchKey {
	var start, end time.Time
	if s.View == ViewWeek {
		start, end = calendar.BuildWeek(s.SelectedDate, nil).Range()
	} else {
		start, end = calendar.BuildMonthGrid(s.SelectedDate, nil).Range()
	}
	return FetchKey{WorkspaceID: s.WorkspaceID, Start: start, End: end}
}

// Refresh fetches events for the current state. It reports applied=false
// when the state changed while the fetch was in flight and the result was
// dropped. On error the previous snapshot is kept.
func (d *Dashboard) Refresh(ctx context.Context) (applied bool, err error) {
	key := d.FetchKey()

	var events []model.Event
	if key.WorkspaceID != 0 {
		events, err = d.source.ListEventsInRange(ctx, key.WorkspaceID, key.Start, key.End)
		if err != nil {
			return false, err
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !keyFor(d.state).Same(key) {
		return false, nil
	}
	d.snap = snapshot{key: key, events: events, ok: true}
	return true, nil
}

// Projection is everything the dashboard renders.
type Projection struct {
	State State               `json:"state"`
	Month *calendar.MonthGrid `json:"month,omitempty"`
	Week  *calendar.Week      `json:"week,omitempty"`
	Day   calendar.Day        `json:"day"`
	Stale bool                `json:"stale"`
}

// Projection builds the calendar views from the latest snapshot. Stale is
// set when that snapshot was fetched for a different workspace or window.
func (d *Dashboard) Projection(now time.Time) Projection {
	d.mu.Lock()
	state := d.state
	snap := d.snap
	d.mu.Unlock()

	events := snap.events
	if snap.key.WorkspaceID != state.WorkspaceID {
		events = nil
	}

	p := Projection{
		State: state,
		Day:   calendar.BuildDay(state.SelectedDate, events),
		Stale: !snap.ok || !snap.key.Same(keyFor(state)),
	}
	if state.View == ViewWeek {
		w := calendar.BuildWeek(state.SelectedDate, events)
		p.Week = &w
	} else {
		g := calendar.BuildMonthGrid(state.SelectedDate, events).Mark(state.SelectedDate, now)
		p.Month = &g
	}
	return p
}
