package model

import (
	"encoding/json"
	"time"
)

type BaseResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

type EventCreateRequest struct {
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	WorkspaceID int64           `json:"workspace_id"`
	TemplateID  int64           `json:"template_id,omitempty"`
	Fields      json.RawMessage `json:"fields,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

type EventUpdateRequest struct {
	Title      *string         `json:"title,omitempty"`
	Date       *time.Time      `json:"date,omitempty"`
	TemplateID *int64          `json:"template_id,omitempty"`
	Fields     json.RawMessage `json:"fields,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

type TemplateCreateRequest struct {
	Name     string          `json:"name"`
	IsHidden bool            `json:"is_hidden"`
	Fields   json.RawMessage `json:"fields"`
}

type TemplateUpdateRequest struct {
	Name     *string         `json:"name,omitempty"`
	IsHidden *bool           `json:"is_hidden,omitempty"`
	Fields   json.RawMessage `json:"fields,omitempty"`
}

type WorkspaceCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WorkspaceUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type MemberAddRequest struct {
	UserID  string `json:"user_id"`
	IsOwner bool   `json:"is_owner"`
}

type DashboardUpdateRequest struct {
	SelectedDate        string  `json:"selected_date,omitempty"`
	View                string  `json:"view,omitempty"`
	SelectedWorkspaceID *int64  `json:"selected_workspace_id,omitempty"`
	SearchQuery         *string `json:"search_query,omitempty"`
	ToggleLeftSidebar   bool    `json:"toggle_left_sidebar,omitempty"`
	ToggleRightPanel    bool    `json:"toggle_right_panel,omitempty"`
}

type FieldAddRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
