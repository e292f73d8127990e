package fieldvalue

import (
	"encoding/json"
	"fmt"
	"strings"

	"planner-backend/cmd/planner/model"
)

const NoDetails = "No details"

// Preview returns a single-line summary: the first checkbox, or the first
// field with a non-blank text value, whichever comes first in schema order.
func Preview(fields []model.TemplateField, raw json.RawMessage) string {
	return PreviewValues(fields, Parse(raw))
}

func PreviewValues(fields []model.TemplateField, values []model.EventFieldValue) string {
	if len(fields) == 0 {
		return NoDetails
	}
	normalized := Reconcile(fields, values)

	for _, f := range fields {
		value, _ := Lookup(normalized, f.ID)
		if f.Type == model.FieldCheckbox {
			return f.Name + ": " + yesNo(value == true)
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			return f.Name + ": " + s
		}
	}

	return NoDetails
}

// DetailList formats every field of the schema for the full detail view.
func DetailList(fields []model.TemplateField, raw json.RawMessage) []model.Detail {
	return DetailListValues(fields, Parse(raw))
}

func DetailListValues(fields []model.TemplateField, values []model.EventFieldValue) []model.Detail {
	normalized := Reconcile(fields, values)

	details := make([]model.Detail, 0, len(fields))
	for i, f := range fields {
		details = append(details, model.Detail{
			Label: f.Name,
			Value: display(normalized[i].Value),
		})
	}
	return details
}

func display(v any) string {
	switch v := v.(type) {
	case nil:
		return "N/A"
	case bool:
		return yesNo(v)
	case string:
		if v == "" {
			return "N/A"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
