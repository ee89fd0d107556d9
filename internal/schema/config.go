package schema

import (
	"strings"
)

// FieldConfig is the configuration form of Field, as read from folio.yaml.
type FieldConfig struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Optional bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
	Default  any    `yaml:"default,omitempty" json:"default,omitempty"`
}

// FromConfig builds and checks a schema from configured fields.
func FromConfig(name string, fields []FieldConfig) (Schema, error) {
	s := Schema{Name: strings.TrimSpace(name), Fields: make([]Field, 0, len(fields))}
	for _, fc := range fields {
		s.Fields = append(s.Fields, Field{
			Name:     strings.TrimSpace(fc.Name),
			Type:     FieldType(strings.ToLower(strings.TrimSpace(fc.Type))),
			Optional: fc.Optional,
			Default:  fc.Default,
		})
	}
	if err := s.Check(); err != nil {
		return Schema{}, err
	}
	return s, nil
}
