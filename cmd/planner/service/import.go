package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"planner-backend/cmd/planner/calendar"
	"planner-backend/cmd/planner/fieldvalue"
	"planner-backend/cmd/planner/model"

	"github.com/gocarina/gocsv"
	"github.com/goforj/godump"
)

// Layouts accepted in the date column of an import file, besides a bare
// date, which stands for the first instant of that day. Layouts without a
// zone are read in the service's display location.
var importLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops the byte order mark spreadsheet exports put in front of the
// header row.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

func (s *EventService) parseImportDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(time.DateOnly, value); err == nil {
		return calendar.StartOfDay(calendar.KeyOf(d), s.loc), nil
	}
	for _, layout := range importLayouts {
		if t, err := time.ParseInLocation(layout, value, s.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// ImportCSV reads title,date rows and stores them as events of the workspace
// using the user's default template. Nothing is stored if any row is invalid.
func (s *EventService) ImportCSV(ctx context.Context, sess Session, workspaceID int64, r io.Reader) ([]model.Event, error) {

	if err := requireMember(ctx, s.workspaces, sess, workspaceID); err != nil {
		return nil, err
	}

	var rows []model.EventCSV
	if err := gocsv.Unmarshal(skipBOM(r), &rows); err != nil {
		return nil, invalid(err.Error())
	}

	if s.debug {
		godump.Dump(rows)
	}

	if len(rows) == 0 {
		return []model.Event{}, nil
	}

	tmpl, err := s.templates.FirstVisibleTemplate(ctx, sess.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoTemplate
	}
	if err != nil {
		return nil, err
	}

	defaults := fieldvalue.Marshal(fieldvalue.BuildDefaults(tmpl.Fields))

	events := make([]model.Event, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1

		title := strings.TrimSpace(row.Title)
		if title == "" {
			return nil, invalid(fmt.Sprintf("line %d: title is required", line))
		}

		date, err := s.parseImportDate(row.Date)
		if err != nil {
			return nil, invalid(fmt.Sprintf("line %d: %v", line, err))
		}

		events = append(events, model.Event{
			Title:       title,
			Date:        date,
			WorkspaceID: workspaceID,
			TemplateID:  tmpl.ID,
			Data:        defaults,
		})
	}

	if err := s.events.CreateEvents(ctx, events); err != nil {
		s.logger.Error("import events failed", "workspace_id", workspaceID, "rows", len(events), "error", err)
		return nil, err
	}

	s.logger.Info("events imported", "workspace_id", workspaceID, "rows", len(events))
	return events, nil
}
