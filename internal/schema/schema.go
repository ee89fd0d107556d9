// Package schema declares per-collection front-matter schemas and validates
// raw metadata against them.
package schema

import (
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// FieldType is the declared type of a metadata field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDate    FieldType = "date"
	TypeStrings FieldType = "strings"
	TypeBool    FieldType = "bool"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeDate, TypeStrings, TypeBool:
		return true
	}
	return false
}

// SlugKey is the front-matter key that overrides a derived entry id. It is
// never copied into Metadata.
const SlugKey = "slug"

// Field declares one metadata field. Fields are required unless Optional is
// set, in which case Default fills a missing value.
type Field struct {
	Name     string
	Type     FieldType
	Optional bool
	Default  any
}

// Schema is the metadata contract for one collection.
type Schema struct {
	Name   string
	Fields []Field
}

// Check reports declaration errors: blank or duplicate names, unknown
// types, the reserved slug key, and defaults that do not match their type.
func (s Schema) Check() error {
	errs := validation.Errors{}
	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = validation.ErrRequired
	}
	seen := map[string]bool{}
	for i, field := range s.Fields {
		key := fmt.Sprintf("fields.%d", i)
		name := strings.TrimSpace(field.Name)
		switch {
		case name == "":
			errs[key] = validation.NewError("schema_field_name", "name is required")
		case name == SlugKey:
			errs[key] = validation.NewError("schema_field_reserved", "slug is reserved")
		case seen[name]:
			errs[key] = validation.NewError("schema_field_duplicate", "duplicate field "+name)
		case !field.Type.Valid():
			errs[key] = validation.NewError("schema_field_type", fmt.Sprintf("unknown type %q", field.Type))
		case field.Optional && field.Default != nil:
			if _, err := coerce(field.Type, field.Default); err != nil {
				errs[key] = validation.NewError("schema_field_default", "default "+err.Error())
			}
		}
		seen[name] = true
	}
	if err := errs.Filter(); err != nil {
		return goerrors.FromOzzoValidation(err, "invalid schema "+s.Name)
	}
	return nil
}

// Validate checks raw against the schema and returns typed metadata.
// Validation is all-or-nothing: any issue returns a *ValidationError and
// nil metadata. Keys not declared by the schema are dropped.
func (s Schema) Validate(raw map[string]any) (Metadata, error) {
	out := make(Metadata, len(s.Fields))
	errs := validation.Errors{}

	for _, field := range s.Fields {
		value := raw[field.Name]
		if value == nil {
			if field.Optional {
				out[field.Name] = defaultValue(field)
				continue
			}
			errs[field.Name] = validation.Validate(value, validation.NotNil)
			continue
		}

		var typed any
		err := validation.Validate(value, validation.By(func(v any) error {
			coerced, err := coerce(field.Type, v)
			typed = coerced
			return err
		}))
		if err != nil {
			errs[field.Name] = err
			continue
		}
		out[field.Name] = typed
	}

	if err := errs.Filter(); err != nil {
		return nil, newValidationError(s.Name, err)
	}
	return out, nil
}

func defaultValue(field Field) any {
	if field.Default != nil {
		if v, err := coerce(field.Type, field.Default); err == nil {
			return v
		}
	}
	switch field.Type {
	case TypeString:
		return ""
	case TypeBool:
		return false
	case TypeStrings:
		return []string{}
	}
	return nil
}

var (
	errNotString  = validation.NewError("validation_is_string", "must be a string")
	errNotBool    = validation.NewError("validation_is_bool", "must be a boolean")
	errNotStrings = validation.NewError("validation_is_string_list", "must be a list of strings")
	errNotDate    = validation.NewError("validation_is_date", "must be a valid date")
)

// DateLayouts are the string encodings accepted for date fields, in the
// order they are tried.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

func coerce(t FieldType, value any) (any, error) {
	switch t {
	case TypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return nil, errNotString
	case TypeBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return nil, errNotBool
	case TypeStrings:
		return coerceStrings(value)
	case TypeDate:
		return coerceDate(value)
	}
	return nil, validation.NewError("validation_unknown_type", fmt.Sprintf("unknown field type %q", t))
}

func coerceStrings(value any) ([]string, error) {
	switch list := value.(type) {
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errNotStrings
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errNotStrings
}

func coerceDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, errNotDate
		}
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range DateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, nil
			}
		}
	}
	return time.Time{}, errNotDate
}
