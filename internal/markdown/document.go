package markdown

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is one parsed source file.
type Document struct {
	// Path is slash separated and relative to the loader's base.
	Path         string
	FrontMatter  map[string]any
	Body         []byte
	Checksum     string
	LastModified time.Time
}

// BuildDocument parses source into a Document. Checksum is the hex SHA-256
// of the full source.
func BuildDocument(path string, source []byte, modified time.Time) (*Document, error) {
	raw, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(source)
	return &Document{
		Path:         path,
		FrontMatter:  raw,
		Body:         body,
		Checksum:     hex.EncodeToString(sum[:]),
		LastModified: modified,
	}, nil
}
