package model

import (
	"time"

	"github.com/google/uuid"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldCheckbox FieldType = "checkbox"
	FieldSelect   FieldType = "select"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldCheckbox, FieldSelect:
		return true
	}
	return false
}

// TemplateField describes one custom field of an event. Options only carry
// meaning for select fields.
type TemplateField struct {
	ID      string    `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Type    FieldType `json:"type" yaml:"type"`
	Options []string  `json:"options,omitempty" yaml:"options,omitempty"`
}

const DefaultTemplateName = "Untitled template"

type Template struct {
	ID        int64           `gorm:"column:id;primaryKey" json:"id"`
	Name      string          `gorm:"column:name" json:"name"`
	IsHidden  bool            `gorm:"column:is_hidden" json:"is_hidden"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid" json:"user_id"`
	Data      JSON            `gorm:"column:data;type:jsonb" json:"-"`
	Fields    []TemplateField `gorm:"-" json:"fields"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (m *Template) TableName() string {
	return "templates"
}

type TemplatePatch struct {
	Name     *string
	IsHidden *bool
	Fields   []TemplateField
}

// SchemaChange describes the template work that has to commit together with
// an event update: either a new hidden template to create, or an existing
// template whose fields get replaced.
type SchemaChange struct {
	Create   *Template
	UpdateID int64
	Fields   []TemplateField
}
