package schema

import (
	"maps"
	"slices"
	"time"
)

// Metadata holds validated front-matter values keyed by field name.
// Values are string, time.Time, []string or bool depending on FieldType.
type Metadata map[string]any

func (m Metadata) String(key string) string {
	s, _ := m[key].(string)
	return s
}

func (m Metadata) Time(key string) time.Time {
	t, _ := m[key].(time.Time)
	return t
}

// Strings returns a copy of the list stored under key.
func (m Metadata) Strings(key string) []string {
	list, _ := m[key].([]string)
	return slices.Clone(list)
}

func (m Metadata) Bool(key string) bool {
	b, _ := m[key].(bool)
	return b
}

// Clone returns a copy safe to hand to another consumer.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := maps.Clone(m)
	for key, value := range out {
		if list, ok := value.([]string); ok {
			out[key] = slices.Clone(list)
		}
	}
	return out
}
