package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"planner-backend/cmd/planner/apis"
	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDBConfig = EnvCfg{
	DBHost:     "localhost",
	DBPort:     5432,
	DBUser:     "postgres",
	DBPassword: "mypassword",
	DBName:     "postgres",
}

func setupTestDB(t *testing.T) *gorm.DB {
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=1 to run.")
	}

	cfg, err := loadConfig()
	if err != nil {
		cfg = testDBConfig
	}

	db, err := openDB(cfg)
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, repository.Migrate(db), "Failed to migrate test database")
	truncateAll(db)

	return db
}

func truncateAll(db *gorm.DB) {
	db.Exec("TRUNCATE TABLE events, templates, workspace_members, workspaces RESTART IDENTITY CASCADE")
}

func teardownTestDB(t *testing.T, db *gorm.DB) {
	truncateAll(db)

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func createTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	db := setupTestDB(t)
	e := newServer(db, slog.New(slog.NewTextHandler(io.Discard, nil)), time.UTC, false)
	return e, db
}

func decodeInto(t *testing.T, resp model.BaseResponse, out any) {
	t.Helper()

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestIntegration_HealthCheckEndpoint(t *testing.T) {
	server, db := createTestServer(t)
	defer teardownTestDB(t, db)

	rec, resp := serve(server, http.MethodGet, "/healthz", "", uuid.Nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", resp.Message)
}

func TestIntegration_WorkspaceEventLifecycle(t *testing.T) {
	server, db := createTestServer(t)
	defer teardownTestDB(t, db)

	owner := uuid.New()

	rec, resp := serve(server, http.MethodPost, "/api/v1/workspaces", `{"name":"Family"}`, owner)
	require.Equal(t, http.StatusCreated, rec.Code, resp.Message)
	var ws model.Workspace
	decodeInto(t, resp, &ws)
	require.NotZero(t, ws.ID)

	rec, resp = serve(server, http.MethodPost, "/api/v1/templates",
		`{"name":"Chore","fields":[{"id":"done","name":"Done","type":"checkbox"}]}`, owner)
	require.Equal(t, http.StatusCreated, rec.Code, resp.Message)

	body, _ := json.Marshal(map[string]any{
		"title":        "Laundry",
		"date":         "2024-03-12T09:00:00Z",
		"workspace_id": ws.ID,
		"data":         []map[string]any{{"id": "done", "value": true}},
	})
	rec, resp = serve(server, http.MethodPost, "/api/v1/events", string(body), owner)
	require.Equal(t, http.StatusCreated, rec.Code, resp.Message)
	assert.Equal(t, "Event created successfully!", resp.Message)

	var created model.EventView
	decodeInto(t, resp, &created)
	assert.Equal(t, "Done: Yes", created.Preview)

	rec, resp = serve(server, http.MethodPatch, "/api/v1/events/"+itoa(created.ID),
		`{"fields":[{"id":"done","name":"Done","type":"checkbox"},{"id":"who","name":"Who","type":"text"}],"data":[{"id":"who","value":"Sam"}]}`, owner)
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)

	var edited model.EventView
	decodeInto(t, resp, &edited)
	assert.NotEqual(t, created.TemplateID, edited.TemplateID, "schema edits move the event to a hidden template")
	assert.Len(t, edited.Fields, 2)

	rec, resp = serve(server, http.MethodGet, "/api/v1/workspaces/"+itoa(ws.ID)+"/events?start=2024-03-01&end=2024-03-31", "", owner)
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)
	var listed []model.EventView
	decodeInto(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Laundry", listed[0].Title)

	stranger := uuid.New()
	rec, _ = serve(server, http.MethodGet, "/api/v1/workspaces/"+itoa(ws.ID)+"/events", "", stranger)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = serve(server, http.MethodDelete, "/api/v1/workspaces/"+itoa(ws.ID), "", owner)
	require.Equal(t, http.StatusOK, rec.Code, resp.Message)

	var remaining int64
	db.Model(&model.Event{}).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestIntegration_ImportAndExport(t *testing.T) {
	server, db := createTestServer(t)
	defer teardownTestDB(t, db)

	owner := uuid.New()

	_, resp := serve(server, http.MethodPost, "/api/v1/workspaces", `{"name":"Team"}`, owner)
	var ws model.Workspace
	decodeInto(t, resp, &ws)
	serve(server, http.MethodPost, "/api/v1/templates", `{"name":"Meeting","fields":[]}`, owner)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("csvfile", "events.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title,date\nStandup,2024-03-12 09:00\nRetro,2024-03-15 16:00\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspaces/"+itoa(ws.ID)+"/events/import", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(apis.HeaderUserID, owner.String())
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+itoa(ws.ID)+"/events.ics?start=2024-03-01&end=2024-03-31", nil)
	req.Header.Set(apis.HeaderUserID, owner.String())
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUMMARY:Standup")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Retro")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
