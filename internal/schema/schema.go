package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldType is the declared semantic type of a filterable field.
type FieldType string

const (
	FieldText         FieldType = "text"
	FieldNumber       FieldType = "number"
	FieldDate         FieldType = "date"
	FieldAmount       FieldType = "amount" // numerically identical to number, formatted as currency
	FieldSingleSelect FieldType = "single-select"
	FieldMultiSelect  FieldType = "multi-select"
	FieldBoolean      FieldType = "boolean"
)

// FieldDefinition describes one filterable column of the dataset.
// Key may be a dot-path for nested access. Options is required for
// select-typed fields and meaningless otherwise.
type FieldDefinition struct {
	Key     string    `yaml:"key" json:"key"`
	Label   string    `yaml:"label" json:"label"`
	Type    FieldType `yaml:"type" json:"type"`
	Options []string  `yaml:"options,omitempty" json:"options,omitempty"`
}

// Schema is the ordered field list for a dataset.
type Schema struct {
	Name   string            `yaml:"name"`
	Fields []FieldDefinition `yaml:"fields"`
}

// Field looks up a field definition by key.
func (s *Schema) Field(key string) (FieldDefinition, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Load reads a schema descriptor from a YAML file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}
	for _, f := range s.Fields {
		if f.Key == "" {
			return fmt.Errorf("schema field with empty key")
		}
		switch f.Type {
		case FieldText, FieldNumber, FieldDate, FieldAmount, FieldBoolean:
		case FieldSingleSelect, FieldMultiSelect:
			if len(f.Options) == 0 {
				return fmt.Errorf("select field %q has no options", f.Key)
			}
		default:
			return fmt.Errorf("field %q has unknown type %q", f.Key, f.Type)
		}
	}
	return nil
}
