// Package validation checks JSON-compatible documents against JSON Schema
// (draft 2020-12) using santhosh-tekuri/jsonschema.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("validation: schema invalid")
	ErrSchemaValidation = errors.New("validation: document does not match schema")
)

// Issue is a single schema violation. Location is a JSON pointer into the
// document.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if location == "" {
		location = "/"
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// DocumentError lists every violation found in a document.
type DocumentError struct {
	Name   string
	Issues []Issue
	Cause  error
}

func (e *DocumentError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	if len(parts) == 0 && e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	prefix := "validation"
	if e.Name != "" {
		prefix += " " + e.Name
	}
	return prefix + ": " + strings.Join(parts, "; ")
}

func (e *DocumentError) Unwrap() error {
	return ErrSchemaValidation
}

// Schema is a compiled JSON schema.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Compile compiles raw as a draft 2020-12 schema registered under name.
func Compile(name string, raw []byte) (*Schema, error) {
	if strings.TrimSpace(name) == "" {
		name = "schema.json"
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustCompile is Compile for schemas embedded at build time.
func MustCompile(name string, raw []byte) *Schema {
	s, err := Compile(name, raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc, which may hold any value json.Marshal accepts
// (for example a YAML decoded map). It is normalised to JSON types first.
func (s *Schema) Validate(doc any) error {
	normalized, err := Normalize(doc)
	if err != nil {
		return &DocumentError{Name: s.name, Cause: err, Issues: []Issue{{Message: err.Error()}}}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &DocumentError{Name: s.name, Issues: Issues(err), Cause: err}
	}
	return nil
}

// Normalize converts v into the value space jsonschema expects: maps,
// slices, strings, bools, json.Number and nil.
func Normalize(v any) (any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	return out, nil
}

// Issues flattens err into leaf violations.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.Issues
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Issue{{Message: err.Error()}}
	}
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return issues
}
