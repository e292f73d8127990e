package apis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withSession(c echo.Context, sess service.Session) {
	c.Set(sessionKey, sess)
}

// decodeData unmarshals the data field of a BaseResponse into out and
// returns the message.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) string {
	t.Helper()

	var resp struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp.Message
}

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, sess service.Session, req model.EventCreateRequest) (model.EventView, error) {
	args := m.Called(ctx, sess, req)
	return args.Get(0).(model.EventView), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, sess service.Session, id int64, req model.EventUpdateRequest) (model.EventView, error) {
	args := m.Called(ctx, sess, id, req)
	return args.Get(0).(model.EventView), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, sess service.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockEventService) Get(ctx context.Context, sess service.Session, id int64) (model.EventView, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).(model.EventView), args.Error(1)
}

func (m *MockEventService) ListInRange(ctx context.Context, sess service.Session, workspaceID int64, start, end time.Time) ([]model.EventView, error) {
	args := m.Called(ctx, sess, workspaceID, start, end)
	return args.Get(0).([]model.EventView), args.Error(1)
}

func (m *MockEventService) Events(ctx context.Context, sess service.Session, workspaceID int64, start, end time.Time) ([]model.Event, error) {
	args := m.Called(ctx, sess, workspaceID, start, end)
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventService) ImportCSV(ctx context.Context, sess service.Session, workspaceID int64, r io.Reader) ([]model.Event, error) {
	args := m.Called(ctx, sess, workspaceID, r)
	return args.Get(0).([]model.Event), args.Error(1)
}

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) List(ctx context.Context, sess service.Session, includeHidden bool) ([]model.Template, error) {
	args := m.Called(ctx, sess, includeHidden)
	return args.Get(0).([]model.Template), args.Error(1)
}

func (m *MockTemplateService) Get(ctx context.Context, sess service.Session, id int64) (model.Template, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateService) Create(ctx context.Context, sess service.Session, req model.TemplateCreateRequest) (model.Template, error) {
	args := m.Called(ctx, sess, req)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateService) Update(ctx context.Context, sess service.Session, id int64, req model.TemplateUpdateRequest) (model.Template, error) {
	args := m.Called(ctx, sess, id, req)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateService) AddField(ctx context.Context, sess service.Session, id int64, req model.FieldAddRequest) (model.Template, error) {
	args := m.Called(ctx, sess, id, req)
	return args.Get(0).(model.Template), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, sess service.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) List(ctx context.Context, sess service.Session) ([]model.Workspace, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).([]model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Get(ctx context.Context, sess service.Session, id int64) (model.Workspace, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).(model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Create(ctx context.Context, sess service.Session, req model.WorkspaceCreateRequest) (model.Workspace, error) {
	args := m.Called(ctx, sess, req)
	return args.Get(0).(model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Update(ctx context.Context, sess service.Session, id int64, req model.WorkspaceUpdateRequest) (model.Workspace, error) {
	args := m.Called(ctx, sess, id, req)
	return args.Get(0).(model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, sess service.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockWorkspaceService) ListMembers(ctx context.Context, sess service.Session, id int64) ([]model.WorkspaceMember, error) {
	args := m.Called(ctx, sess, id)
	return args.Get(0).([]model.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) AddMember(ctx context.Context, sess service.Session, id int64, req model.MemberAddRequest) (model.WorkspaceMember, error) {
	args := m.Called(ctx, sess, id, req)
	return args.Get(0).(model.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) RemoveMember(ctx context.Context, sess service.Session, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, sess, id, userID)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
