package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"planner-backend/cmd/planner/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setDBEnv(t *testing.T) {
	t.Setenv("PLANNER_DB_HOST", "localhost")
	t.Setenv("PLANNER_DB_PORT", "5432")
	t.Setenv("PLANNER_DB_USER", "testuser")
	t.Setenv("PLANNER_DB_PASSWORD", "testpass")
	t.Setenv("PLANNER_DB_NAME", "testdb")
}

func TestEnvCfg_EnvironmentVariables(t *testing.T) {
	setDBEnv(t)
	t.Setenv("PLANNER_HTTP_ADDR", ":9090")
	t.Setenv("PLANNER_TIMEZONE", "Asia/Bangkok")
	t.Setenv("PLANNER_LOG_LEVEL", "debug")
	t.Setenv("PLANNER_DEBUG", "true")

	cfg, err := loadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "Asia/Bangkok", cfg.Timezone)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug)
}

func TestEnvCfg_Defaults(t *testing.T) {
	setDBEnv(t)
	for _, v := range []string{"PLANNER_HTTP_ADDR", "PLANNER_TIMEZONE", "PLANNER_LOG_LEVEL", "PLANNER_DEBUG"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	cfg, err := loadConfig()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestEnvCfg_MissingRequiredVariables(t *testing.T) {
	vars := []string{
		"PLANNER_DB_HOST",
		"PLANNER_DB_PORT",
		"PLANNER_DB_USER",
		"PLANNER_DB_PASSWORD",
		"PLANNER_DB_NAME",
	}

	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	_, err := loadConfig()
	assert.Error(t, err, "Should fail when required environment variables are missing")
}

func TestEnvCfg_PartiallyMissingVariables(t *testing.T) {
	setDBEnv(t)
	t.Setenv("PLANNER_DB_NAME", "")
	os.Unsetenv("PLANNER_DB_NAME")

	_, err := loadConfig()
	assert.Error(t, err, "Should fail when some required environment variables are missing")
}

func TestEnvCfg_InvalidPortValue(t *testing.T) {
	setDBEnv(t)
	t.Setenv("PLANNER_DB_PORT", "invalid_port")

	_, err := loadConfig()
	assert.Error(t, err, "Should fail when port is not a valid integer")
}

func TestEnvCfg_Location(t *testing.T) {
	loc, err := EnvCfg{Timezone: "America/New_York"}.location()
	assert.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	_, err = EnvCfg{Timezone: "Mars/Olympus"}.location()
	assert.ErrorContains(t, err, "invalid timezone 'Mars/Olympus'")
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := EnvCfg{
		DBHost:     "db.internal",
		DBPort:     5433,
		DBUser:     "planner",
		DBPassword: "p@ss",
		DBName:     "calendar",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=planner password=p@ss dbname=calendar sslmode=disable TimeZone=UTC",
		cfg.dsn(),
	)
}

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		logger := setupLogger(tt.level)
		ctx := context.Background()
		assert.True(t, logger.Enabled(ctx, tt.want), tt.level)
		assert.False(t, logger.Enabled(ctx, tt.want-1), tt.level)
	}
}

func TestParseSeed(t *testing.T) {
	data := []byte(`
templates:
  - name: Meeting
    fields:
      - {id: room, name: Room, type: text}
      - {name: Priority, type: select, options: [Low, High]}
      - {name: Done, type: checkbox}
  - name: Scratch
    hidden: true
`)

	templates, err := parseSeed(data)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	meeting := templates[0]
	assert.Equal(t, "Meeting", meeting.Name)
	require.Len(t, meeting.Fields, 3)
	assert.Equal(t, "room", meeting.Fields[0].ID)
	assert.True(t, strings.HasPrefix(meeting.Fields[1].ID, "field-"))
	assert.Equal(t, model.FieldSelect, meeting.Fields[1].Type)
	assert.Equal(t, []string{"Low", "High"}, meeting.Fields[1].Options)
	assert.Equal(t, model.FieldCheckbox, meeting.Fields[2].Type)
	assert.NotEqual(t, meeting.Fields[1].ID, meeting.Fields[2].ID)

	assert.True(t, templates[1].IsHidden)
	assert.Empty(t, templates[1].Fields)
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := parseSeed([]byte("templates: {"))
	assert.Error(t, err)

	_, err = parseSeed([]byte("templates: []"))
	assert.EqualError(t, err, "no templates defined")

	_, err = parseSeed([]byte("templates:\n  - name: Broken\n    fields:\n      - {type: text}\n"))
	assert.ErrorContains(t, err, "template 1")
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - name: Chore\n"), 0o600))

	templates, err := loadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Chore", templates[0].Name)

	_, err = loadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewServer_Routes(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	e := newServer(db, setupLogger("error"), time.UTC, false)

	routes := map[string]bool{}
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		http.MethodGet + " /healthz",
		http.MethodGet + " /api/v1/workspaces/:id/events",
		http.MethodPost + " /api/v1/workspaces/:id/events/import",
		http.MethodGet + " /api/v1/workspaces/:id/events.ics",
		http.MethodPost + " /api/v1/events",
		http.MethodPatch + " /api/v1/events/:id",
		http.MethodGet + " /api/v1/templates",
		http.MethodPost + " /api/v1/templates/:id/fields",
		http.MethodGet + " /api/v1/workspaces",
		http.MethodDelete + " /api/v1/workspaces/:id/members/:userId",
		http.MethodGet + " /api/v1/workspaces/:id/calendar/month",
		http.MethodGet + " /api/v1/workspaces/:id/calendar/week",
		http.MethodGet + " /api/v1/workspaces/:id/calendar/day",
		http.MethodGet + " /api/v1/dashboard",
		http.MethodPut + " /api/v1/dashboard",
	} {
		assert.True(t, routes[want], want)
	}
}
