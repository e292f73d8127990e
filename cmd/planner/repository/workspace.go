package repository

import (
	"context"

	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceRepo struct {
	db *gorm.DB
}

func NewWorkspaceRepo(db *gorm.DB) *WorkspaceRepo {
	return &WorkspaceRepo{
		db: db,
	}
}

// ListWorkspacesForUser returns every workspace the user is a member of.
func (r *WorkspaceRepo) ListWorkspacesForUser(ctx context.Context, userID uuid.UUID) ([]model.Workspace, error) {

	var workspaces []model.Workspace

	result := r.db.
		WithContext(ctx).
		Model(&model.Workspace{}).
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.id asc").
		Find(&workspaces)

	if result.Error != nil {
		return nil, result.Error
	}

	return workspaces, nil
}

func (r *WorkspaceRepo) GetWorkspace(ctx context.Context, id int64) (model.Workspace, error) {

	var ws model.Workspace

	result := r.db.
		WithContext(ctx).
		Model(&model.Workspace{}).
		First(&ws, id)

	if result.Error != nil {
		return model.Workspace{}, notFound(result.Error)
	}

	return ws, nil
}

// CreateWorkspace inserts the workspace and its owner membership together.
func (r *WorkspaceRepo) CreateWorkspace(ctx context.Context, ws *model.Workspace) error {

	return r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(ws).Error; err != nil {
				return err
			}
			return tx.Create(&model.WorkspaceMember{
				WorkspaceID: ws.ID,
				UserID:      ws.OwnerUserID,
				IsOwner:     true,
			}).Error
		})
}

func (r *WorkspaceRepo) UpdateWorkspace(ctx context.Context, id int64, cols map[string]any) (model.Workspace, error) {

	if len(cols) > 0 {
		result := r.db.
			WithContext(ctx).
			Model(&model.Workspace{}).
			Where("id = ?", id).
			Updates(cols)

		if result.Error != nil {
			return model.Workspace{}, result.Error
		}
		if result.RowsAffected == 0 {
			return model.Workspace{}, ErrNotFound
		}
	}

	return r.GetWorkspace(ctx, id)
}

// DeleteWorkspace removes the workspace with its events and memberships.
func (r *WorkspaceRepo) DeleteWorkspace(ctx context.Context, id int64) error {

	return r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("workspace_id = ?", id).Delete(&model.Event{}).Error; err != nil {
				return err
			}
			if err := tx.Where("workspace_id = ?", id).Delete(&model.WorkspaceMember{}).Error; err != nil {
				return err
			}
			result := tx.Delete(&model.Workspace{}, id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
			return nil
		})
}

func (r *WorkspaceRepo) IsMember(ctx context.Context, workspaceID int64, userID uuid.UUID) (bool, error) {

	var count int64

	result := r.db.
		WithContext(ctx).
		Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count)

	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (r *WorkspaceRepo) ListMembers(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error) {

	var members []model.WorkspaceMember

	result := r.db.
		WithContext(ctx).
		Model(&model.WorkspaceMember{}).
		Where("workspace_id = ?", workspaceID).
		Order("id asc").
		Find(&members)

	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (r *WorkspaceRepo) AddMember(ctx context.Context, member *model.WorkspaceMember) error {

	result := r.db.
		WithContext(ctx).
		Create(member)

	return result.Error
}

func (r *WorkspaceRepo) RemoveMember(ctx context.Context, workspaceID int64, userID uuid.UUID) error {

	result := r.db.
		WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&model.WorkspaceMember{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
