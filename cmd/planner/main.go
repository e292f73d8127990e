package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"planner-backend/cmd/planner/apis"
	"planner-backend/cmd/planner/repository"
	"planner-backend/cmd/planner/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const envPrefix = "PLANNER"

// maxBodySize caps request bodies, CSV uploads included.
const maxBodySize = "5M"

type EnvCfg struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" required:"true"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

func (cfg EnvCfg) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)
}

func (cfg EnvCfg) location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", cfg.Timezone, err)
	}
	return loc, nil
}

func loadConfig() (EnvCfg, error) {
	var cfg EnvCfg
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return EnvCfg{}, err
	}
	return cfg, nil
}

func openDB(cfg EnvCfg) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.dsn()))
}

func main() {

	_ = godotenv.Load()

	if err := os.Setenv("TZ", "UTC"); err != nil {
		panic(err)
	}

	app := &cli.App{
		Name:  "planner",
		Usage: "Shared calendar and event planner backend.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedTemplatesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Migrate the schema before serving."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			loc, err := cfg.location()
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			if c.Bool("migrate") {
				if err := repository.Migrate(db); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				logger.Info("Schema migrated.")
			}

			e := newServer(db, logger, loc, cfg.Debug)

			logger.Info("Starting server.", "addr", cfg.HTTPAddr, "timezone", loc.String())
			if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newServer(db *gorm.DB, logger *slog.Logger, loc *time.Location, debug bool) *echo.Echo {

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(apis.SessionMiddleware())

	rootg := e.Group("")
	v1g := rootg.Group("/api/v1")

	apis.
		NewHealthCheckAPI(repository.NewPinger(db)).
		Setup(rootg)

	eventRepo := repository.NewEventRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	workspaceRepo := repository.NewWorkspaceRepo(db)

	eventService := service.NewEventService(eventRepo, templateRepo, workspaceRepo, logger, loc, debug)
	templateService := service.NewTemplateService(templateRepo, logger)
	workspaceService := service.NewWorkspaceService(workspaceRepo, logger)

	apis.
		NewEventAPI(eventService, logger, loc).
		Setup(v1g)

	apis.
		NewTemplateAPI(templateService).
		Setup(v1g)

	apis.
		NewWorkspaceAPI(workspaceService).
		Setup(v1g)

	apis.
		NewCalendarAPI(eventService, logger, loc).
		Setup(v1g)

	apis.
		NewDashboardAPI(eventService, workspaceService, logger, loc).
		Setup(v1g)

	return e
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema.",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			if err := repository.Migrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}

			logger.Info("Schema migrated.")
			return nil
		},
	}
}

func seedTemplatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed-templates",
		Usage: "Create the event templates listed in a YAML file for a user.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Value: "templates.yaml", Usage: "Path to the template definitions."},
			&cli.StringFlag{Name: "user", Required: true, Usage: "Id of the user who will own the templates."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			userID, err := uuid.Parse(c.String("user"))
			if err != nil {
				return fmt.Errorf("invalid user id: %w", err)
			}

			templates, err := loadSeedFile(c.String("file"))
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			svc := service.NewTemplateService(repository.NewTemplateRepo(db), logger)
			created, err := svc.Seed(c.Context, userID, templates)
			if err != nil {
				return fmt.Errorf("seeded %d templates before failing: %w", created, err)
			}

			logger.Info("Templates seeded.", "created", created, "skipped", len(templates)-created)
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
