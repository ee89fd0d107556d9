package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/schema"
)

const jsonContentType = "application/json"

// IndexEntry is one record of <collection>/index.json, the listing the
// page renderer consumes.
type IndexEntry struct {
	ID           string          `json:"id"`
	Route        string          `json:"route"`
	FilePath     string          `json:"file_path"`
	Title        string          `json:"title"`
	PubDate      time.Time       `json:"pub_date"`
	Tags         []string        `json:"tags,omitempty"`
	Draft        bool            `json:"draft"`
	Description  string          `json:"description,omitempty"`
	Metadata     schema.Metadata `json:"metadata"`
	Checksum     string          `json:"checksum"`
	LastModified time.Time       `json:"last_modified,omitzero"`
	HTML         string          `json:"html,omitempty"`
}

// CollectionIndex is the document written to <collection>/index.json.
// Entries are ordered newest first; drafts are kept and flagged.
type CollectionIndex struct {
	Collection string       `json:"collection"`
	Entries    []IndexEntry `json:"entries"`
}

// IndexPath returns the index location of collection below outputDir.
func IndexPath(outputDir, collection string) string {
	return joinOutputPath(outputDir, path.Join(collection, "index.json"))
}

func (s *service) buildIndex(result *collections.Result) (*CollectionIndex, error) {
	ordered := collections.SortByPubDateDesc(result.Entries)
	index := &CollectionIndex{
		Collection: result.Collection,
		Entries:    make([]IndexEntry, 0, len(ordered)),
	}
	for _, entry := range ordered {
		record := IndexEntry{
			ID:           entry.ID,
			Route:        entry.Route(),
			FilePath:     entry.FilePath,
			Title:        entry.Title(),
			PubDate:      entry.PubDate(),
			Tags:         entry.Tags(),
			Draft:        entry.Draft(),
			Description:  entry.Description(),
			Metadata:     entry.Metadata.Clone(),
			Checksum:     entry.Checksum,
			LastModified: entry.LastModified,
		}
		if s.cfg.RenderHTML && s.parser != nil {
			html, err := s.parser.ParseWithOptions(entry.Body, s.cfg.Markdown)
			if err != nil {
				return nil, fmt.Errorf("generator: render %s: %w", entry.FilePath, err)
			}
			record.HTML = string(html)
		}
		index.Entries = append(index.Entries, record)
	}
	return index, nil
}

func (s *service) writeIndexes(ctx context.Context, writer *artifactWriter, results []*collections.Result) (int, error) {
	written := 0
	for _, result := range results {
		index, err := s.buildIndex(result)
		if err != nil {
			return written, err
		}
		payload, err := marshalJSON(index)
		if err != nil {
			return written, err
		}
		if err := writer.write(ctx, writeFileRequest{
			Path:        IndexPath(s.cfg.OutputDir, result.Collection),
			Content:     payload,
			Category:    categoryIndex,
			ContentType: jsonContentType,
		}); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func marshalJSON(v any) ([]byte, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(payload, '\n'), nil
}
