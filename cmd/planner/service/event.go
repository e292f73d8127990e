package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"planner-backend/cmd/planner/fieldset"
	"planner-backend/cmd/planner/fieldvalue"
	"planner-backend/cmd/planner/model"
)

type EventService struct {
	events     EventStore
	templates  TemplateStore
	workspaces MembershipChecker
	logger     *slog.Logger
	loc        *time.Location
	debug      bool
	now        func() time.Time
}

func NewEventService(
	events EventStore,
	templates TemplateStore,
	workspaces MembershipChecker,
	logger *slog.Logger,
	loc *time.Location,
	debug bool,
) *EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{
		events:     events,
		templates:  templates,
		workspaces: workspaces,
		logger:     logger,
		loc:        loc,
		debug:      debug,
		now:        time.Now,
	}
}

func hiddenTemplateName(now time.Time) string {
	return fmt.Sprintf("Hidden template %d", now.UnixMilli())
}

// Create stores a new event. The template is resolved in this order: the
// explicit template id, a new hidden template built from the submitted
// fields, then the user's first visible template.
func (s *EventService) Create(ctx context.Context, sess Session, req model.EventCreateRequest) (model.EventView, error) {

	workspaceID := req.WorkspaceID
	if workspaceID == 0 {
		workspaceID = sess.WorkspaceID
	}
	if err := requireMember(ctx, s.workspaces, sess, workspaceID); err != nil {
		return model.EventView{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.EventView{}, invalid("title is required")
	}
	if req.Date.IsZero() {
		return model.EventView{}, invalid("date is required")
	}

	event := model.Event{
		Title:       title,
		Date:        req.Date,
		WorkspaceID: workspaceID,
	}

	var pending *model.Template
	var fields []model.TemplateField

	switch custom := fieldset.Normalize(req.Fields); {
	case req.TemplateID != 0:
		tmpl, err := s.ownTemplate(ctx, sess, req.TemplateID)
		if err != nil {
			return model.EventView{}, err
		}
		event.TemplateID = tmpl.ID
		fields = tmpl.Fields
	case len(custom) > 0:
		pending = &model.Template{
			Name:     hiddenTemplateName(s.now()),
			IsHidden: true,
			UserID:   sess.UserID,
			Fields:   custom,
		}
		fields = custom
	default:
		tmpl, err := s.templates.FirstVisibleTemplate(ctx, sess.UserID)
		if errors.Is(err, ErrNotFound) {
			return model.EventView{}, ErrNoTemplate
		}
		if err != nil {
			return model.EventView{}, err
		}
		event.TemplateID = tmpl.ID
		fields = tmpl.Fields
	}

	event.Data = fieldvalue.Marshal(fieldvalue.Normalize(fields, req.Data))

	if err := s.events.CreateEventWithTemplate(ctx, pending, &event); err != nil {
		s.logger.Error("create event failed", "workspace_id", workspaceID, "error", err)
		return model.EventView{}, err
	}

	s.logger.Info("event created", "event_id", event.ID, "template_id", event.TemplateID, "hidden_template", pending != nil)
	return BuildView(event, fields), nil
}

// Update edits an event. A submitted template id moves the event to that
// template first. When the submitted schema is non-empty and differs from the
// event's template, a hidden template is edited in place; any other template
// is left alone and the event moves to a new hidden template. The stored
// values are always reconciled against the resulting schema.
func (s *EventService) Update(ctx context.Context, sess Session, id int64, req model.EventUpdateRequest) (model.EventView, error) {

	event, err := s.accessibleEvent(ctx, sess, id)
	if err != nil {
		return model.EventView{}, err
	}

	current, err := s.templateOf(ctx, event)
	if err != nil {
		return model.EventView{}, err
	}

	var patch model.EventPatch
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.EventView{}, invalid("title is required")
		}
		patch.Title = &title
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			return model.EventView{}, invalid("date is required")
		}
		patch.Date = req.Date
	}
	if req.TemplateID != nil && *req.TemplateID != event.TemplateID {
		tmpl, err := s.ownTemplate(ctx, sess, *req.TemplateID)
		if err != nil {
			return model.EventView{}, err
		}
		current = tmpl
		patch.TemplateID = &tmpl.ID
	}

	fields := current.Fields
	var change *model.SchemaChange
	if submitted := fieldset.Normalize(req.Fields); len(submitted) > 0 && !fieldset.Equal(submitted, current.Fields) {
		if current.ID != 0 && current.IsHidden && current.UserID == sess.UserID {
			change = &model.SchemaChange{UpdateID: current.ID, Fields: submitted}
		} else {
			change = &model.SchemaChange{Create: &model.Template{
				Name:     hiddenTemplateName(s.now()),
				IsHidden: true,
				UserID:   sess.UserID,
				Fields:   submitted,
			}}
		}
		fields = submitted
	}

	raw := json.RawMessage(event.Data)
	if req.Data != nil {
		raw = req.Data
	}
	patch.Data = fieldvalue.Marshal(fieldvalue.Normalize(fields, raw))

	updated, err := s.events.UpdateEvent(ctx, id, patch, change)
	if err != nil {
		s.logger.Error("update event failed", "event_id", id, "error", err)
		return model.EventView{}, err
	}

	return BuildView(updated, fields), nil
}

func (s *EventService) Delete(ctx context.Context, sess Session, id int64) error {

	if _, err := s.accessibleEvent(ctx, sess, id); err != nil {
		return err
	}

	return s.events.DeleteEvent(ctx, id)
}

func (s *EventService) Get(ctx context.Context, sess Session, id int64) (model.EventView, error) {

	event, err := s.accessibleEvent(ctx, sess, id)
	if err != nil {
		return model.EventView{}, err
	}

	tmpl, err := s.templateOf(ctx, event)
	if err != nil {
		return model.EventView{}, err
	}

	return BuildView(event, tmpl.Fields), nil
}

// ListInRange returns the workspace's events in [start, end] with their data
// reconciled against each event's template.
func (s *EventService) ListInRange(ctx context.Context, sess Session, workspaceID int64, start, end time.Time) ([]model.EventView, error) {

	if err := requireMember(ctx, s.workspaces, sess, workspaceID); err != nil {
		return nil, err
	}

	events, err := s.events.ListEventsInRange(ctx, workspaceID, start, end)
	if err != nil {
		return nil, err
	}

	return s.views(ctx, events)
}

// Events returns the raw events of an accessible workspace, for projections
// that only need titles and dates.
func (s *EventService) Events(ctx context.Context, sess Session, workspaceID int64, start, end time.Time) ([]model.Event, error) {

	if err := requireMember(ctx, s.workspaces, sess, workspaceID); err != nil {
		return nil, err
	}

	return s.events.ListEventsInRange(ctx, workspaceID, start, end)
}

func (s *EventService) views(ctx context.Context, events []model.Event) ([]model.EventView, error) {
	schemas := map[int64][]model.TemplateField{}
	views := make([]model.EventView, 0, len(events))
	for _, ev := range events {
		fields, ok := schemas[ev.TemplateID]
		if !ok {
			tmpl, err := s.templateOf(ctx, ev)
			if err != nil {
				return nil, err
			}
			fields = tmpl.Fields
			schemas[ev.TemplateID] = fields
		}
		views = append(views, BuildView(ev, fields))
	}
	return views, nil
}

func (s *EventService) accessibleEvent(ctx context.Context, sess Session, id int64) (model.Event, error) {
	if !sess.Valid() {
		return model.Event{}, ErrNoSession
	}

	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return model.Event{}, err
	}

	if err := requireMember(ctx, s.workspaces, sess, event.WorkspaceID); err != nil {
		return model.Event{}, err
	}
	return event, nil
}

// templateOf returns the event's template. A template that no longer exists
// reads as an empty schema.
func (s *EventService) templateOf(ctx context.Context, event model.Event) (model.Template, error) {
	tmpl, err := s.templates.GetTemplate(ctx, event.TemplateID)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("event template missing", "event_id", event.ID, "template_id", event.TemplateID)
		return model.Template{Fields: []model.TemplateField{}}, nil
	}
	return tmpl, err
}

func (s *EventService) ownTemplate(ctx context.Context, sess Session, id int64) (model.Template, error) {
	tmpl, err := s.templates.GetTemplate(ctx, id)
	if err != nil {
		return model.Template{}, err
	}
	if tmpl.UserID != sess.UserID {
		return model.Template{}, ErrNotFound
	}
	return tmpl, nil
}

// BuildView reconciles the event's data with fields and formats it.
func BuildView(event model.Event, fields []model.TemplateField) model.EventView {
	if fields == nil {
		fields = []model.TemplateField{}
	}
	values := fieldvalue.Normalize(fields, json.RawMessage(event.Data))
	return model.EventView{
		ID:          event.ID,
		Title:       event.Title,
		Date:        event.Date,
		WorkspaceID: event.WorkspaceID,
		TemplateID:  event.TemplateID,
		Fields:      fields,
		Data:        values,
		Preview:     fieldvalue.PreviewValues(fields, values),
		Details:     fieldvalue.DetailListValues(fields, values),
	}
}
