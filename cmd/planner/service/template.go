package service

import (
	"context"
	"log/slog"

	"planner-backend/cmd/planner/fieldset"
	"planner-backend/cmd/planner/model"

	"github.com/google/uuid"
)

type TemplateService struct {
	templates TemplateStore
	logger    *slog.Logger
}

func NewTemplateService(templates TemplateStore, logger *slog.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		logger:    logger,
	}
}

func (s *TemplateService) List(ctx context.Context, sess Session, includeHidden bool) ([]model.Template, error) {
	if !sess.Valid() {
		return nil, ErrNoSession
	}
	return s.templates.ListTemplatesByUser(ctx, sess.UserID, includeHidden)
}

func (s *TemplateService) Get(ctx context.Context, sess Session, id int64) (model.Template, error) {
	if !sess.Valid() {
		return model.Template{}, ErrNoSession
	}

	tmpl, err := s.templates.GetTemplate(ctx, id)
	if err != nil {
		return model.Template{}, err
	}
	if tmpl.UserID != sess.UserID {
		return model.Template{}, ErrNotFound
	}
	return tmpl, nil
}

func (s *TemplateService) Create(ctx context.Context, sess Session, req model.TemplateCreateRequest) (model.Template, error) {
	if !sess.Valid() {
		return model.Template{}, ErrNoSession
	}

	tmpl := model.Template{
		Name:     req.Name,
		IsHidden: req.IsHidden,
		UserID:   sess.UserID,
		Fields:   fieldset.Normalize(req.Fields),
	}
	if err := s.templates.CreateTemplate(ctx, &tmpl); err != nil {
		return model.Template{}, err
	}

	s.logger.Info("template created", "template_id", tmpl.ID, "fields", len(tmpl.Fields))
	return tmpl, nil
}

func (s *TemplateService) Update(ctx context.Context, sess Session, id int64, req model.TemplateUpdateRequest) (model.Template, error) {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return model.Template{}, err
	}

	patch := model.TemplatePatch{
		Name:     req.Name,
		IsHidden: req.IsHidden,
	}
	if req.Fields != nil {
		patch.Fields = fieldset.Normalize(req.Fields)
	}

	return s.templates.UpdateTemplate(ctx, id, patch)
}

// AddField appends a new field with a generated id to the template.
func (s *TemplateService) AddField(ctx context.Context, sess Session, id int64, req model.FieldAddRequest) (model.Template, error) {
	tmpl, err := s.Get(ctx, sess, id)
	if err != nil {
		return model.Template{}, err
	}

	field, err := fieldset.NewField(req.Name, model.FieldType(req.Type))
	if err != nil {
		return model.Template{}, invalid(err.Error())
	}

	fields := append(append([]model.TemplateField{}, tmpl.Fields...), field)
	return s.templates.UpdateTemplate(ctx, id, model.TemplatePatch{Fields: fields})
}

func (s *TemplateService) Delete(ctx context.Context, sess Session, id int64) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	return s.templates.DeleteTemplate(ctx, id)
}

// Seed creates the given templates for a user, skipping names the user
// already has.
func (s *TemplateService) Seed(ctx context.Context, userID uuid.UUID, templates []model.Template) (int, error) {
	existing, err := s.templates.ListTemplatesByUser(ctx, userID, true)
	if err != nil {
		return 0, err
	}

	names := make(map[string]bool, len(existing))
	for _, t := range existing {
		names[t.Name] = true
	}

	created := 0
	for _, t := range templates {
		if names[t.Name] {
			s.logger.Debug("template exists, skipping", "name", t.Name)
			continue
		}
		t.ID = 0
		t.UserID = userID
		if err := s.templates.CreateTemplate(ctx, &t); err != nil {
			return created, err
		}
		names[t.Name] = true
		created++
	}

	return created, nil
}
