// Package fieldvalue reconciles the stored custom data of an event with the
// current field schema of its template, and formats it for display.
//
// The field list is always authoritative: values for fields that no longer
// exist are dropped, and missing or mistyped values fall back to the field's
// default. None of these functions fail.
package fieldvalue

import (
	"encoding/json"

	"planner-backend/cmd/planner/model"
)

type rawValue struct {
	ID    json.RawMessage `json:"id"`
	Value json.RawMessage `json:"value"`
}

// Default is the value a field holds before anyone fills it in.
func Default(field model.TemplateField) any {
	if field.Type == model.FieldCheckbox {
		return false
	}
	return ""
}

// BuildDefaults returns one default entry per field, in schema order.
func BuildDefaults(fields []model.TemplateField) []model.EventFieldValue {
	values := make([]model.EventFieldValue, 0, len(fields))
	for _, f := range fields {
		values = append(values, model.EventFieldValue{ID: f.ID, Value: Default(f)})
	}
	return values
}

// Parse decodes stored event data, keeping entries with a non-empty string id
// and a string or bool value.
func Parse(raw json.RawMessage) []model.EventFieldValue {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	values := make([]model.EventFieldValue, 0, len(items))
	for _, item := range items {
		var rv rawValue
		if err := json.Unmarshal(item, &rv); err != nil {
			continue
		}

		var id string
		if err := json.Unmarshal(rv.ID, &id); err != nil || id == "" {
			continue
		}

		if len(rv.Value) == 0 || string(rv.Value) == "null" {
			continue
		}
		var b bool
		if err := json.Unmarshal(rv.Value, &b); err == nil {
			values = append(values, model.EventFieldValue{ID: id, Value: b})
			continue
		}
		var s string
		if err := json.Unmarshal(rv.Value, &s); err == nil {
			values = append(values, model.EventFieldValue{ID: id, Value: s})
		}
	}
	return values
}

// Reconcile shapes values to fields. When values repeats an id, the first
// entry wins.
func Reconcile(fields []model.TemplateField, values []model.EventFieldValue) []model.EventFieldValue {
	byID := make(map[string]any, len(values))
	for _, v := range values {
		if _, seen := byID[v.ID]; !seen {
			byID[v.ID] = v.Value
		}
	}

	out := make([]model.EventFieldValue, 0, len(fields))
	for _, f := range fields {
		candidate := byID[f.ID]
		value := Default(f)
		switch f.Type {
		case model.FieldCheckbox:
			if b, ok := candidate.(bool); ok {
				value = b
			}
		default:
			if s, ok := candidate.(string); ok {
				value = s
			}
		}
		out = append(out, model.EventFieldValue{ID: f.ID, Value: value})
	}
	return out
}

// Normalize parses raw stored data and reconciles it with fields.
func Normalize(fields []model.TemplateField, raw json.RawMessage) []model.EventFieldValue {
	return Reconcile(fields, Parse(raw))
}

// Lookup returns the first value stored for id.
func Lookup(values []model.EventFieldValue, id string) (any, bool) {
	for _, v := range values {
		if v.ID == id {
			return v.Value, true
		}
	}
	return nil, false
}

// Set returns a copy of values with the entry for id replaced. Unknown ids
// leave the list unchanged.
func Set(values []model.EventFieldValue, id string, value any) []model.EventFieldValue {
	out := make([]model.EventFieldValue, len(values))
	copy(out, values)
	for i := range out {
		if out[i].ID == id {
			out[i].Value = value
		}
	}
	return out
}

// Marshal encodes values for the events.data column.
func Marshal(values []model.EventFieldValue) model.JSON {
	if values == nil {
		values = []model.EventFieldValue{}
	}
	data, _ := json.Marshal(values)
	return data
}
