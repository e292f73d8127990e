package model

import "time"

type Event struct {
	ID          int64     `gorm:"column:id;primaryKey" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	Date        time.Time `gorm:"column:date" json:"date"`
	WorkspaceID int64     `gorm:"column:workspace_id" json:"workspace_id"`
	TemplateID  int64     `gorm:"column:template_id" json:"template_id"`
	Data        JSON      `gorm:"column:data;type:jsonb" json:"data"`
}

func (m *Event) TableName() string {
	return "events"
}

// EventPatch is a partial update; nil fields are left untouched.
type EventPatch struct {
	Title      *string
	Date       *time.Time
	TemplateID *int64
	Data       JSON
}

// Columns returns the column/value pairs the patch writes.
func (p EventPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.TemplateID != nil {
		cols["template_id"] = *p.TemplateID
	}
	if p.Data != nil {
		cols["data"] = p.Data
	}
	return cols
}

// EventView is an event with its data reconciled against the template schema.
type EventView struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Date        time.Time         `json:"date"`
	WorkspaceID int64             `json:"workspace_id"`
	TemplateID  int64             `json:"template_id"`
	Fields      []TemplateField   `json:"fields"`
	Data        []EventFieldValue `json:"data"`
	Preview     string            `json:"preview"`
	Details     []Detail          `json:"details"`
}

// EventCSV is one row of an event import file.
type EventCSV struct {
	Title string `csv:"title"`
	Date  string `csv:"date"`
}
