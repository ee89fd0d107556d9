package runtimeconfig

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-folio/internal/validation"
)

//go:embed config.schema.json
var schemaJSON []byte

// ErrConfigSchema is matched when a document fails the JSON schema check.
var ErrConfigSchema = errors.New("folio config: schema mismatch")

var configSchema = validation.MustCompile("folio.schema.json", schemaJSON)

// SchemaJSON returns the JSON schema config documents are checked against.
func SchemaJSON() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)
	return out
}

// Load reads and parses the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("folio config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over DefaultConfig. The raw document is
// checked against the embedded JSON schema before decoding and the result
// is validated with Validate. Keys absent from the document keep their
// defaults; lists replace the default lists.
func Parse(data []byte) (Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("folio config: decode yaml: %w", err)
	}
	if err := configSchema.Validate(raw); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigSchema, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("folio config: decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
