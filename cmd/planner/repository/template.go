package repository

import (
	"context"
	"encoding/json"
	"strings"

	"planner-backend/cmd/planner/fieldset"
	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateRepo stores templates. The jsonb field list is normalized on the
// way out, so callers only ever see well-formed fields.
type TemplateRepo struct {
	db *gorm.DB
}

func NewTemplateRepo(db *gorm.DB) *TemplateRepo {
	return &TemplateRepo{
		db: db,
	}
}

func loadFields(t *model.Template) {
	t.Fields = fieldset.Normalize(json.RawMessage(t.Data))
}

func createTemplate(tx *gorm.DB, t *model.Template) error {
	if strings.TrimSpace(t.Name) == "" {
		t.Name = model.DefaultTemplateName
	}
	t.Fields = fieldset.NormalizeFields(t.Fields)
	t.Data = fieldset.Marshal(t.Fields)
	return tx.Create(t).Error
}

func (r *TemplateRepo) GetTemplate(ctx context.Context, id int64) (model.Template, error) {

	var tmpl model.Template

	result := r.db.
		WithContext(ctx).
		Model(&model.Template{}).
		First(&tmpl, id)

	if result.Error != nil {
		return model.Template{}, notFound(result.Error)
	}

	loadFields(&tmpl)
	return tmpl, nil
}

// ListTemplatesByUser returns the user's templates, oldest first.
func (r *TemplateRepo) ListTemplatesByUser(ctx context.Context, userID uuid.UUID, includeHidden bool) ([]model.Template, error) {

	var templates []model.Template

	query := r.db.
		WithContext(ctx).
		Model(&model.Template{}).
		Where("user_id = ?", userID)

	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}

	result := query.
		Order("id asc").
		Find(&templates)

	if result.Error != nil {
		return nil, result.Error
	}

	for i := range templates {
		loadFields(&templates[i])
	}
	return templates, nil
}

// FirstVisibleTemplate is the user's default template for new events.
func (r *TemplateRepo) FirstVisibleTemplate(ctx context.Context, userID uuid.UUID) (model.Template, error) {

	var tmpl model.Template

	result := r.db.
		WithContext(ctx).
		Model(&model.Template{}).
		Where("user_id = ? AND is_hidden = ?", userID, false).
		Order("id asc").
		Take(&tmpl)

	if result.Error != nil {
		return model.Template{}, notFound(result.Error)
	}

	loadFields(&tmpl)
	return tmpl, nil
}

func (r *TemplateRepo) CreateTemplate(ctx context.Context, tmpl *model.Template) error {
	return createTemplate(r.db.WithContext(ctx), tmpl)
}

func (r *TemplateRepo) UpdateTemplate(ctx context.Context, id int64, patch model.TemplatePatch) (model.Template, error) {

	cols := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			name = model.DefaultTemplateName
		}
		cols["name"] = name
	}
	if patch.IsHidden != nil {
		cols["is_hidden"] = *patch.IsHidden
	}
	if patch.Fields != nil {
		cols["data"] = fieldset.Marshal(fieldset.NormalizeFields(patch.Fields))
	}

	if len(cols) > 0 {
		result := r.db.
			WithContext(ctx).
			Model(&model.Template{}).
			Where("id = ?", id).
			Updates(cols)

		if result.Error != nil {
			return model.Template{}, result.Error
		}
		if result.RowsAffected == 0 {
			return model.Template{}, ErrNotFound
		}
	}

	return r.GetTemplate(ctx, id)
}

func (r *TemplateRepo) DeleteTemplate(ctx context.Context, id int64) error {

	result := r.db.
		WithContext(ctx).
		Delete(&model.Template{}, id)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
