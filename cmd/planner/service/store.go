// Package service holds the application workflows on top of the stores:
// resolving the template for a new event, moving an edited event onto a new
// schema, CSV import, and workspace membership checks.
package service

import (
	"context"
	"time"

	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
)

type EventStore interface {
	ListEventsInRange(ctx context.Context, workspaceID int64, start, end time.Time) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (model.Event, error)
	CreateEvents(ctx context.Context, events []model.Event) error
	CreateEventWithTemplate(ctx context.Context, tmpl *model.Template, event *model.Event) error
	UpdateEvent(ctx context.Context, id int64, patch model.EventPatch, change *model.SchemaChange) (model.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
}

type TemplateStore interface {
	GetTemplate(ctx context.Context, id int64) (model.Template, error)
	ListTemplatesByUser(ctx context.Context, userID uuid.UUID, includeHidden bool) ([]model.Template, error)
	FirstVisibleTemplate(ctx context.Context, userID uuid.UUID) (model.Template, error)
	CreateTemplate(ctx context.Context, tmpl *model.Template) error
	UpdateTemplate(ctx context.Context, id int64, patch model.TemplatePatch) (model.Template, error)
	DeleteTemplate(ctx context.Context, id int64) error
}

type WorkspaceStore interface {
	ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error)
	GetWorkspace(ctx context.Context, id int64) (model.Workspace, error)
	CreateWorkspace(ctx context.Context, ws *model.Workspace) error
	UpdateWorkspace(ctx context.Context, id int64, cols map[string]any) (model.Workspace, error)
	DeleteWorkspace(ctx context.Context, id int64) error
	IsMember(ctx context.Context, workspaceID int64, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error)
	AddMember(ctx context.Context, member *model.WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID int64, userID uuid.UUID) error
}

// MembershipChecker is the part of WorkspaceStore event workflows need.
type MembershipChecker interface {
	IsMember(ctx context.Context, workspaceID int64, userID uuid.UUID) (bool, error)
}

// Session is the caller's identity and currently selected workspace.
type Session struct {
	UserID      uuid.UUID
	WorkspaceID int64
}

func (s Session) Valid() bool {
	return s.UserID != uuid.Nil
}

// requireMember fails with ErrNotFound when the user cannot see the
// workspace, so workspace ids of other users are not disclosed.
func requireMember(ctx context.Context, ws MembershipChecker, sess Session, workspaceID int64) error {
	if !sess.Valid() {
		return ErrNoSession
	}
	if workspaceID == 0 {
		return ErrNoWorkspace
	}
	ok, err := ws.IsMember(ctx, workspaceID, sess.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
