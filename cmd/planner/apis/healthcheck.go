package apis

import (
	"context"
	"net/http"
	"time"

	"planner-backend/cmd/planner/model"

	"github.com/labstack/echo/v4"
)

type IPinger interface {
	Ping(ctx context.Context) error
}

type HealthCheckAPI struct {
	db IPinger
}

func NewHealthCheckAPI(db IPinger) *HealthCheckAPI {
	return &HealthCheckAPI{
		db: db,
	}
}

func (a *HealthCheckAPI) Setup(g *echo.Group) {
	g.GET("/healthz", a.healthCheck)
}

func (a *HealthCheckAPI) healthCheck(c echo.Context) error {

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	err := a.db.Ping(ctx)
	if err != nil {
		return c.JSON(
			http.StatusServiceUnavailable,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "healthy",
		},
	)
}
