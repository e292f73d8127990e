package main

import (
	"errors"
	"fmt"
	"os"

	"planner-backend/cmd/planner/fieldset"
	"planner-backend/cmd/planner/model"

	"gopkg.in/yaml.v3"
)

// seedFile is the layout of a seed-templates file. Fields without an id get
// a generated one.
//
//	templates:
//	  - name: Meeting
//	    fields:
//	      - {name: Room, type: text}
//	      - {name: Priority, type: select, options: [Low, High]}
type seedFile struct {
	Templates []seedTemplate `yaml:"templates"`
}

type seedTemplate struct {
	Name   string                `yaml:"name"`
	Hidden bool                  `yaml:"hidden"`
	Fields []model.TemplateField `yaml:"fields"`
}

func parseSeed(data []byte) ([]model.Template, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Templates) == 0 {
		return nil, errors.New("no templates defined")
	}

	templates := make([]model.Template, 0, len(f.Templates))
	for i, t := range f.Templates {
		fields := make([]model.TemplateField, 0, len(t.Fields))
		for _, field := range t.Fields {
			if field.ID == "" {
				generated, err := fieldset.NewField(field.Name, field.Type)
				if err != nil {
					return nil, fmt.Errorf("template %d: %w", i+1, err)
				}
				if len(field.Options) > 0 {
					generated.Options = field.Options
				}
				field = generated
			}
			fields = append(fields, field)
		}

		templates = append(templates, model.Template{
			Name:     t.Name,
			IsHidden: t.Hidden,
			Fields:   fields,
		})
	}
	return templates, nil
}

func loadSeedFile(path string) ([]model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSeed(data)
}
