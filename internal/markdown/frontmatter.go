package markdown

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFrontMatter is matched by every front-matter parse failure.
	ErrFrontMatter = errors.New("markdown: invalid front matter")
	// ErrNoFrontMatter reports a document without a front-matter block.
	ErrNoFrontMatter = fmt.Errorf("%w: no front matter block", ErrFrontMatter)
)

// Formats lists the supported front-matter delimiters. yaml.v3 decodes into
// map[string]any without timestamp resolution, so unquoted dates arrive as
// strings and schema.DateLayouts parses them during validation.
func Formats() []*frontmatter.Format {
	return []*frontmatter.Format{
		frontmatter.NewFormat("---", "---", yaml.Unmarshal),
		frontmatter.NewFormat("---yaml", "---", yaml.Unmarshal),
		frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
		frontmatter.NewFormat("---toml", "---", toml.Unmarshal),
		frontmatter.NewFormat(";;;", ";;;", json.Unmarshal),
		frontmatter.NewFormat("---json", "---", json.Unmarshal),
		{Start: "{", End: "}", Unmarshal: json.Unmarshal, UnmarshalDelims: true, RequiresNewLine: true},
	}
}

// ParseFrontMatter splits source into its front-matter map and Markdown
// body. A missing or undecodable block yields an error wrapping
// ErrFrontMatter. An empty block yields an empty map.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	var raw map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(source), &raw, Formats()...)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, nil, ErrNoFrontMatter
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, bytes.Clone(body), nil
}
