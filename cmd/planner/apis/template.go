package apis

import (
	"context"
	"net/http"
	"strconv"

	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/labstack/echo/v4"
)

type ITemplateService interface {
	List(ctx context.Context, sess service.Session, includeHidden bool) ([]model.Template, error)
	Get(ctx context.Context, sess service.Session, id int64) (model.Template, error)
	Create(ctx context.Context, sess service.Session, req model.TemplateCreateRequest) (model.Template, error)
	Update(ctx context.Context, sess service.Session, id int64, req model.TemplateUpdateRequest) (model.Template, error)
	AddField(ctx context.Context, sess service.Session, id int64, req model.FieldAddRequest) (model.Template, error)
	Delete(ctx context.Context, sess service.Session, id int64) error
}

type TemplateAPI struct {
	templates ITemplateService
}

func NewTemplateAPI(templates ITemplateService) *TemplateAPI {
	return &TemplateAPI{
		templates: templates,
	}
}

func (a *TemplateAPI) Setup(g *echo.Group) {
	g.GET("/templates", a.listTemplates)
	g.POST("/templates", a.createTemplate)
	g.GET("/templates/:id", a.getTemplate)
	g.PATCH("/templates/:id", a.updateTemplate)
	g.DELETE("/templates/:id", a.deleteTemplate)
	g.POST("/templates/:id/fields", a.addField)
}

func (a *TemplateAPI) listTemplates(c echo.Context) error {

	includeHidden := false
	if v := c.QueryParam("include_hidden"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return badRequest(c, "include_hidden must be a boolean")
		}
		includeHidden = b
	}

	templates, err := a.templates.List(c.Request().Context(), sessionOf(c), includeHidden)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    templates,
		},
	)
}

func (a *TemplateAPI) getTemplate(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	tmpl, err := a.templates.Get(c.Request().Context(), sessionOf(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    tmpl,
		},
	)
}

func (a *TemplateAPI) createTemplate(c echo.Context) error {

	var req model.TemplateCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tmpl, err := a.templates.Create(c.Request().Context(), sessionOf(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    tmpl,
		},
	)
}

func (a *TemplateAPI) updateTemplate(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.TemplateUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tmpl, err := a.templates.Update(c.Request().Context(), sessionOf(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    tmpl,
		},
	)
}

func (a *TemplateAPI) addField(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.FieldAddRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tmpl, err := a.templates.AddField(c.Request().Context(), sessionOf(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    tmpl,
		},
	)
}

func (a *TemplateAPI) deleteTemplate(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := a.templates.Delete(c.Request().Context(), sessionOf(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}
