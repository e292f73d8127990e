package model

// EventFieldValue holds the value of one template field for an event. Value is
// either a string or a bool once reconciled against a schema.
type EventFieldValue struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// Detail is one formatted label/value row of an event.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
