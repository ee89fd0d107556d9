// Package collections loads named content collections: it discovers
// Markdown files, validates their front matter against the collection
// schema and derives stable entry ids.
package collections

import (
	"cmp"
	"slices"
	"time"

	"github.com/goliatone/go-folio/internal/schema"
)

// Entry is one validated document of a collection. Entries are values;
// Metadata and Body must be treated as read-only.
type Entry struct {
	ID           string
	Collection   string
	FilePath     string
	Metadata     schema.Metadata
	Body         []byte
	Checksum     string
	LastModified time.Time
}

func (e Entry) Title() string       { return e.Metadata.String(schema.FieldTitle) }
func (e Entry) PubDate() time.Time  { return e.Metadata.Time(schema.FieldPubDate) }
func (e Entry) Tags() []string      { return e.Metadata.Strings(schema.FieldTags) }
func (e Entry) Draft() bool         { return e.Metadata.Bool(schema.FieldDraft) }
func (e Entry) Description() string { return e.Metadata.String(schema.FieldDescription) }

// Route returns the canonical page path of an entry: /<collection>/<id>/.
func Route(collection, id string) string {
	return "/" + collection + "/" + id + "/"
}

// Route returns the canonical page path of e.
func (e Entry) Route() string {
	return Route(e.Collection, e.ID)
}

// Published returns the entries not marked as drafts, preserving order.
func Published(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Draft() {
			out = append(out, entry)
		}
	}
	return out
}

// SortByPubDateDesc returns a copy of entries, newest first. Entries with
// the same pubDate are ordered by id.
func SortByPubDateDesc(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := b.PubDate().Compare(a.PubDate()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
