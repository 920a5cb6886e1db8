package xltable

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ukaji3/xltable-go/pkg/xltable/models"
	"gopkg.in/yaml.v3"
)

// Schema declares the layout and column types of a sheet.
//
//	sheet: Students
//	title: true
//	start_row: 0
//	columns:
//	  - name: id
//	  - name: sex
//	    kind: int
//	  - name: birthday
//	    data_type: Date
type Schema struct {
	Sheet    string         `yaml:"sheet"`
	Title    bool           `yaml:"title"`
	StartRow int            `yaml:"start_row" validate:"min=0"`
	Columns  []SchemaColumn `yaml:"columns" validate:"required,min=1,unique=Name,dive"`
}

// SchemaColumn declares one column of a Schema.
type SchemaColumn struct {
	Name     string `yaml:"name" validate:"required"`
	Kind     string `yaml:"kind" validate:"omitempty,oneof=any string text int integer double float decimal bool boolean datetime date time other"`
	DataType string `yaml:"data_type" validate:"omitempty,oneof=Null Date DateTime Int Double Boolean Formula RichText Text"`
}

var validate = validator.New()

// LoadSchema reads and validates a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// ParseSchema decodes and validates a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for i := range s.Columns {
		s.Columns[i].Kind = strings.ToLower(strings.TrimSpace(s.Columns[i].Kind))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the schema constraints.
func (s *Schema) Validate() error {
	if err := validate.Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidArgument, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// ColumnDefs converts the schema columns to table columns.
func (s *Schema) ColumnDefs() ([]models.Column, error) {
	cols := make([]models.Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		kind, err := models.ParseValueKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		cols = append(cols, models.Column{Name: c.Name, Kind: kind, DataType: c.DataType})
	}
	return cols, nil
}

// Table returns an empty table with the schema columns.
func (s *Schema) Table() (*models.Table, error) {
	cols, err := s.ColumnDefs()
	if err != nil {
		return nil, err
	}
	return models.NewTable(cols...)
}
