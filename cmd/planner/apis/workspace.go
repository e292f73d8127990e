package apis

import (
	"context"
	"net/http"

	"planner-backend/cmd/planner/model"
	"planner-backend/cmd/planner/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type IWorkspaceService interface {
	List(ctx context.Context, sess service.Session) ([]model.Workspace, error)
	Get(ctx context.Context, sess service.Session, id int64) (model.Workspace, error)
	Create(ctx context.Context, sess service.Session, req model.WorkspaceCreateRequest) (model.Workspace, error)
	Update(ctx context.Context, sess service.Session, id int64, req model.WorkspaceUpdateRequest) (model.Workspace, error)
	Delete(ctx context.Context, sess service.Session, id int64) error
	ListMembers(ctx context.Context, sess service.Session, id int64) ([]model.WorkspaceMember, error)
	AddMember(ctx context.Context, sess service.Session, id int64, req model.MemberAddRequest) (model.WorkspaceMember, error)
	RemoveMember(ctx context.Context, sess service.Session, id int64, userID uuid.UUID) error
}

type WorkspaceAPI struct {
	workspaces IWorkspaceService
}

func NewWorkspaceAPI(workspaces IWorkspaceService) *WorkspaceAPI {
	return &WorkspaceAPI{
		workspaces: workspaces,
	}
}

func (a *WorkspaceAPI) Setup(g *echo.Group) {
	g.GET("/workspaces", a.listWorkspaces)
	g.POST("/workspaces", a.createWorkspace)
	g.GET("/workspaces/:id", a.getWorkspace)
	g.PATCH("/workspaces/:id", a.updateWorkspace)
	g.DELETE("/workspaces/:id", a.deleteWorkspace)
	g.GET("/workspaces/:id/members", a.listMembers)
	g.POST("/workspaces/:id/members", a.addMember)
	g.DELETE("/workspaces/:id/members/:userId", a.removeMember)
}

func (a *WorkspaceAPI) listWorkspaces(c echo.Context) error {

	workspaces, err := a.workspaces.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    workspaces,
		},
	)
}

func (a *WorkspaceAPI) getWorkspace(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ws, err := a.workspaces.Get(c.Request().Context(), sessionOf(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    ws,
		},
	)
}

func (a *WorkspaceAPI) createWorkspace(c echo.Context) error {

	var req model.WorkspaceCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ws, err := a.workspaces.Create(c.Request().Context(), sessionOf(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    ws,
		},
	)
}

func (a *WorkspaceAPI) updateWorkspace(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.WorkspaceUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ws, err := a.workspaces.Update(c.Request().Context(), sessionOf(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    ws,
		},
	)
}

func (a *WorkspaceAPI) deleteWorkspace(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := a.workspaces.Delete(c.Request().Context(), sessionOf(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}

func (a *WorkspaceAPI) listMembers(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	members, err := a.workspaces.ListMembers(c.Request().Context(), sessionOf(c), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    members,
		},
	)
}

func (a *WorkspaceAPI) addMember(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req model.MemberAddRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	member, err := a.workspaces.AddMember(c.Request().Context(), sessionOf(c), id, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    member,
		},
	)
}

func (a *WorkspaceAPI) removeMember(c echo.Context) error {

	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return badRequest(c, "invalid userId")
	}

	if err := a.workspaces.RemoveMember(c.Request().Context(), sessionOf(c), id, userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
		},
	)
}
