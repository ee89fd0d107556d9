package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Well-known field names shared by the default collections.
const (
	FieldTitle       = "title"
	FieldPubDate     = "pubDate"
	FieldTags        = "tags"
	FieldDraft       = "draft"
	FieldDescription = "description"
)

// Registry maps collection names to schemas. It is built explicitly and
// passed to the loader; there is no package level registration.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry returns a registry holding schemas. Later schemas with the
// same name replace earlier ones.
func NewRegistry(schemas ...Schema) *Registry {
	r := &Registry{schemas: make(map[string]Schema, len(schemas))}
	for _, s := range schemas {
		r.Register(s)
	}
	return r
}

// Register adds or replaces s.
func (r *Registry) Register(s Schema) {
	if r.schemas == nil {
		r.schemas = map[string]Schema{}
	}
	r.schemas[strings.TrimSpace(s.Name)] = s
}

// Lookup returns the schema registered for collection.
func (r *Registry) Lookup(collection string) (Schema, bool) {
	if r == nil {
		return Schema{}, false
	}
	s, ok := r.schemas[strings.TrimSpace(collection)]
	return s, ok
}

// Names lists registered collections in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate validates raw against the schema of collection.
func (r *Registry) Validate(collection string, raw map[string]any) (Metadata, error) {
	s, ok := r.Lookup(collection)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, collection)
	}
	return s.Validate(raw)
}

// Posts is the schema of the posts collection.
func Posts() Schema {
	return Schema{
		Name: "posts",
		Fields: []Field{
			{Name: FieldTitle, Type: TypeString},
			{Name: FieldPubDate, Type: TypeDate},
			{Name: FieldTags, Type: TypeStrings},
			{Name: FieldDraft, Type: TypeBool, Optional: true, Default: false},
		},
	}
}

// Newsletters is the schema of the newsletters collection. description
// feeds the RSS item description and may be omitted.
func Newsletters() Schema {
	return Schema{
		Name: "newsletters",
		Fields: []Field{
			{Name: FieldTitle, Type: TypeString},
			{Name: FieldPubDate, Type: TypeDate},
			{Name: FieldTags, Type: TypeStrings},
			{Name: FieldDescription, Type: TypeString, Optional: true, Default: ""},
		},
	}
}

// DefaultRegistry returns a fresh registry with posts and newsletters.
func DefaultRegistry() *Registry {
	return NewRegistry(Posts(), Newsletters())
}
