package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"planner-backend/cmd/planner/repository"
)

var (
	ErrNoSession    = errors.New("No active session")
	ErrNoWorkspace  = errors.New("Please select a workspace first")
	ErrNoTemplate   = errors.New("No event template found for your account")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("only the workspace owner can do this")
	ErrNotFound     = repository.ErrNotFound
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// ReadableError turns an error into a message for people. Validation layers
// often report a JSON array of {"message": ...} issues; only the first
// message is kept. Anything else is returned trimmed, or fallback if empty.
func ReadableError(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	raw := strings.TrimSpace(err.Error())
	if raw == "" {
		return fallback
	}

	var issues []struct {
		Message *string `json:"message"`
	}
	if json.Unmarshal([]byte(raw), &issues) == nil && len(issues) > 0 && issues[0].Message != nil {
		return *issues[0].Message
	}

	return raw
}
