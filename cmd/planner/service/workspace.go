package service

import (
	"context"
	"log/slog"
	"strings"

	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
)

type WorkspaceService struct {
	workspaces WorkspaceStore
	logger     *slog.Logger
}

func NewWorkspaceService(workspaces WorkspaceStore, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		logger:     logger,
	}
}

func (s *WorkspaceService) List(ctx context.Context, sess Session) ([]model.Workspace, error) {
	if !sess.Valid() {
		return nil, ErrNoSession
	}
	return s.workspaces.ListWorkspacesForUser(ctx, sess.UserID)
}

func (s *WorkspaceService) Get(ctx context.Context, sess Session, id int64) (model.Workspace, error) {
	if err := requireMember(ctx, s.workspaces, sess, id); err != nil {
		return model.Workspace{}, err
	}
	return s.workspaces.GetWorkspace(ctx, id)
}

func (s *WorkspaceService) Create(ctx context.Context, sess Session, req model.WorkspaceCreateRequest) (model.Workspace, error) {
	if !sess.Valid() {
		return model.Workspace{}, ErrNoSession
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Workspace{}, invalid("workspace name is required")
	}

	ws := model.Workspace{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		OwnerUserID: sess.UserID,
	}
	if err := s.workspaces.CreateWorkspace(ctx, &ws); err != nil {
		return model.Workspace{}, err
	}

	s.logger.Info("workspace created", "workspace_id", ws.ID)
	return ws, nil
}

func (s *WorkspaceService) Update(ctx context.Context, sess Session, id int64, req model.WorkspaceUpdateRequest) (model.Workspace, error) {
	if _, err := s.owned(ctx, sess, id); err != nil {
		return model.Workspace{}, err
	}

	cols := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.Workspace{}, invalid("workspace name is required")
		}
		cols["name"] = name
	}
	if req.Description != nil {
		cols["description"] = strings.TrimSpace(*req.Description)
	}

	return s.workspaces.UpdateWorkspace(ctx, id, cols)
}

func (s *WorkspaceService) Delete(ctx context.Context, sess Session, id int64) error {
	if _, err := s.owned(ctx, sess, id); err != nil {
		return err
	}
	return s.workspaces.DeleteWorkspace(ctx, id)
}

func (s *WorkspaceService) ListMembers(ctx context.Context, sess Session, id int64) ([]model.WorkspaceMember, error) {
	if err := requireMember(ctx, s.workspaces, sess, id); err != nil {
		return nil, err
	}
	return s.workspaces.ListMembers(ctx, id)
}

func (s *WorkspaceService) AddMember(ctx context.Context, sess Session, id int64, req model.MemberAddRequest) (model.WorkspaceMember, error) {
	if _, err := s.owned(ctx, sess, id); err != nil {
		return model.WorkspaceMember{}, err
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return model.WorkspaceMember{}, invalid("user_id must be a uuid")
	}

	ok, err := s.workspaces.IsMember(ctx, id, userID)
	if err != nil {
		return model.WorkspaceMember{}, err
	}
	if ok {
		return model.WorkspaceMember{}, invalid("user is already a member")
	}

	member := model.WorkspaceMember{
		WorkspaceID: id,
		UserID:      userID,
		IsOwner:     req.IsOwner,
	}
	if err := s.workspaces.AddMember(ctx, &member); err != nil {
		return model.WorkspaceMember{}, err
	}
	return member, nil
}

func (s *WorkspaceService) RemoveMember(ctx context.Context, sess Session, id int64, userID uuid.UUID) error {
	ws, err := s.owned(ctx, sess, id)
	if err != nil {
		return err
	}
	if userID == ws.OwnerUserID {
		return invalid("the workspace owner cannot be removed")
	}
	return s.workspaces.RemoveMember(ctx, id, userID)
}

func (s *WorkspaceService) owned(ctx context.Context, sess Session, id int64) (model.Workspace, error) {
	ws, err := s.Get(ctx, sess, id)
	if err != nil {
		return model.Workspace{}, err
	}
	if ws.OwnerUserID != sess.UserID {
		return model.Workspace{}, ErrForbidden
	}
	return ws, nil
}
