package model

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	Name        string    `gorm:"column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	OwnerUserID uuid.UUID `gorm:"column:owner_user_id;type:uuid" json:"owner_user_id"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (m *Workspace) TableName() string {
	return "workspaces"
}

type WorkspaceMember struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	WorkspaceID int64     `gorm:"column:workspace_id" json:"workspace_id"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid" json:"user_id"`
	IsOwner     bool      `gorm:"column:is_owner" json:"is_owner"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (m *WorkspaceMember) TableName() string {
	return "workspace_members"
}
