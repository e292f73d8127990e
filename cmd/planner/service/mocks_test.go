package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) ListEventsInRange(ctx context.Context, workspaceID int64, start, end time.Time) ([]model.Event, error) {
	args := m.Called(ctx, workspaceID, start, end)
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventStore) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *MockEventStore) CreateEvents(ctx context.Context, events []model.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventStore) CreateEventWithTemplate(ctx context.Context, tmpl *model.Template, event *model.Event) error {
	args := m.Called(ctx, tmpl, event)
	return args.Error(0)
}

func (m *MockEventStore) UpdateEvent(ctx context.Context, id int64, patch model.EventPatch, change *model.SchemaChange) (model.Event, error) {
	args := m.Called(ctx, id, patch, change)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *MockEventStore) DeleteEvent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) GetTemplate(ctx context.Context, id int64) (model.Template, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateStore) ListTemplatesByUser(ctx context.Context, userID uuid.UUID, includeHidden bool) ([]model.Template, error) {
	args := m.Called(ctx, userID, includeHidden)
	return args.Get(0).([]model.Template), args.Error(1)
}

func (m *MockTemplateStore) FirstVisibleTemplate(ctx context.Context, userID uuid.UUID) (model.Template, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateStore) CreateTemplate(ctx context.Context, tmpl *model.Template) error {
	args := m.Called(ctx, tmpl)
	return args.Error(0)
}

func (m *MockTemplateStore) UpdateTemplate(ctx context.Context, id int64, patch model.TemplatePatch) (model.Template, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateStore) DeleteTemplate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockWorkspaceStore struct {
	mock.Mock
}

func (m *MockWorkspaceStore) ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) GetWorkspace(ctx context.Context, id int64) (model.Workspace, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) CreateWorkspace(ctx context.Context, ws *model.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

func (m *MockWorkspaceStore) UpdateWorkspace(ctx context.Context, id int64, cols map[string]any) (model.Workspace, error) {
	args := m.Called(ctx, id, cols)
	return args.Get(0).(model.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) DeleteWorkspace(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceStore) IsMember(ctx context.Context, workspaceID int64, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, workspaceID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkspaceStore) ListMembers(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]model.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceStore) AddMember(ctx context.Context, member *model.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockWorkspaceStore) RemoveMember(ctx context.Context, workspaceID int64, userID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}
