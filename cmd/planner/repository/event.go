package repository

import (
	"context"
	"errors"
	"time"

	"planner-backend/cmd/planner/fieldset"
	"planner-backend/cmd/planner/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{
		db: db,
	}
}

// ListEventsInRange returns the workspace's events with start <= date <= end.
func (r *EventRepo) ListEventsInRange(ctx context.Context, workspaceID int64, start, end time.Time) ([]model.Event, error) {

	var events []model.Event

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		Where("workspace_id = ? AND date BETWEEN ? AND ?", workspaceID, start, end).
		Order("date asc").
		Order("id asc").
		Find(&events)

	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (r *EventRepo) GetEvent(ctx context.Context, id int64) (model.Event, error) {

	var event model.Event

	result := r.db.
		WithContext(ctx).
		Model(&model.Event{}).
		First(&event, id)

	if result.Error != nil {
		return model.Event{}, notFound(result.Error)
	}

	return event, nil
}

func (r *EventRepo) CreateEvent(ctx context.Context, event *model.Event) error {

	result := r.db.
		WithContext(ctx).
		Create(event)

	return result.Error
}

// CreateEvents inserts the events in one statement; ids are written back.
func (r *EventRepo) CreateEvents(ctx context.Context, events []model.Event) error {

	if len(events) == 0 {
		return nil
	}

	result := r.db.
		WithContext(ctx).
		Create(&events)

	return result.Error
}

// CreateEventWithTemplate inserts tmpl (when non-nil) and the event in one
// transaction, pointing the event at the new template.
func (r *EventRepo) CreateEventWithTemplate(ctx context.Context, tmpl *model.Template, event *model.Event) error {

	return r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			if tmpl != nil {
				if err := createTemplate(tx, tmpl); err != nil {
					return err
				}
				event.TemplateID = tmpl.ID
			}
			return tx.Create(event).Error
		})
}

// UpdateEvent applies the schema change and the patch together. Nothing is
// written if either step fails.
func (r *EventRepo) UpdateEvent(ctx context.Context, id int64, patch model.EventPatch, change *model.SchemaChange) (model.Event, error) {

	var event model.Event

	err := r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			if change != nil {
				switch {
				case change.Create != nil:
					if err := createTemplate(tx, change.Create); err != nil {
						return err
					}
					patch.TemplateID = &change.Create.ID
				case change.UpdateID != 0:
					result := tx.
						Model(&model.Template{}).
						Where("id = ?", change.UpdateID).
						Update("data", fieldset.Marshal(change.Fields))
					if result.Error != nil {
						return result.Error
					}
					if result.RowsAffected == 0 {
						return ErrNotFound
					}
				}
			}

			if cols := patch.Columns(); len(cols) > 0 {
				result := tx.
					Model(&model.Event{}).
					Where("id = ?", id).
					Updates(cols)
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return ErrNotFound
				}
			}

			return notFound(tx.First(&event, id).Error)
		})

	if err != nil {
		return model.Event{}, err
	}

	return event, nil
}

func (r *EventRepo) DeleteEvent(ctx context.Context, id int64) error {

	result := r.db.
		WithContext(ctx).
		Delete(&model.Event{}, id)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
