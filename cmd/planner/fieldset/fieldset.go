// Package fieldset validates the user-authored field schema of a template.
//
// Schemas arrive as untrusted JSON (stored rows, edit forms). Normalization
// never fails: elements that do not describe a usable field are dropped and
// the rest keep their order.
package fieldset

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("field name is required")

// starter options given to a freshly added select field
var defaultSelectOptions = []string{"Option 1", "Option 2"}

type rawField struct {
	ID      json.RawMessage `json:"id"`
	Name    json.RawMessage `json:"name"`
	Type    json.RawMessage `json:"type"`
	Options json.RawMessage `json:"options"`
}

// Normalize decodes raw into a field list. Anything that is not a JSON array
// yields an empty list.
func Normalize(raw json.RawMessage) []model.TemplateField {
	fields := []model.TemplateField{}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fields
	}

	for _, item := range items {
		var rf rawField
		if err := json.Unmarshal(item, &rf); err != nil {
			continue
		}

		field := model.TemplateField{
			ID:   decodeString(rf.ID),
			Name: decodeString(rf.Name),
			Type: model.FieldType(decodeString(rf.Type)),
		}
		if field.Type == model.FieldSelect {
			var options []json.RawMessage
			_ = json.Unmarshal(rf.Options, &options)
			for _, o := range options {
				field.Options = append(field.Options, decodeString(o))
			}
		}

		if f, ok := normalizeField(field); ok {
			fields = append(fields, f)
		}
	}

	return fields
}

// NormalizeFields applies the same rules as Normalize to typed input.
func NormalizeFields(in []model.TemplateField) []model.TemplateField {
	fields := make([]model.TemplateField, 0, len(in))
	for _, field := range in {
		if f, ok := normalizeField(field); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

func normalizeField(f model.TemplateField) (model.TemplateField, bool) {
	if f.ID == "" || f.Name == "" || !f.Type.Valid() {
		return model.TemplateField{}, false
	}

	if f.Type != model.FieldSelect {
		f.Options = nil
		return f, true
	}

	options := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}
	f.Options = options
	return f, true
}

// decodeString returns the JSON string held in raw, or "" for any other kind.
func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Marshal encodes a normalized copy of fields for storage.
func Marshal(fields []model.TemplateField) model.JSON {
	data, _ := json.Marshal(NormalizeFields(fields))
	return data
}

// Equal reports whether two schemas describe the same fields in the same order.
func Equal(a, b []model.TemplateField) bool {
	return slices.EqualFunc(a, b, func(x, y model.TemplateField) bool {
		return x.ID == y.ID &&
			x.Name == y.Name &&
			x.Type == y.Type &&
			slices.Equal(x.Options, y.Options)
	})
}

// Lookup returns the first field with the given id.
func Lookup(fields []model.TemplateField, id string) (model.TemplateField, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return model.TemplateField{}, false
}

// NewField builds a field with a generated id.
func NewField(name string, fieldType model.FieldType) (model.TemplateField, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.TemplateField{}, ErrEmptyName
	}
	if !fieldType.Valid() {
		fieldType = model.FieldText
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.TemplateField{}, err
	}

	field := model.TemplateField{
		ID:   "field-" + id.String(),
		Name: name,
		Type: fieldType,
	}
	if fieldType == model.FieldSelect {
		field.Options = slices.Clone(defaultSelectOptions)
	}
	return field, nil
}
