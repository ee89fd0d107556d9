package interfaces

// MarkdownParser converts Markdown bodies into HTML for the page renderer.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions toggles goldmark extensions and output safety.
type ParseOptions struct {
	Extensions []string `yaml:"extensions" json:"extensions,omitempty"`
	HardWraps  bool     `yaml:"hard_wraps" json:"hard_wraps,omitempty"`
	SafeMode   bool     `yaml:"safe_mode" json:"safe_mode,omitempty"`
}
