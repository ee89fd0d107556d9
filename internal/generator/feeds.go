package generator

import (
	"context"
	"strings"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/feeds"
)

// FeedTarget places the feed of one collection in the output tree.
type FeedTarget struct {
	Collection string
	Path       string
	Atom       bool
}

// AtomPath derives the Atom companion path: "news.xml" becomes
// "news.atom.xml".
func AtomPath(rssPath string) string {
	return strings.TrimSuffix(rssPath, ".xml") + ".atom.xml"
}

// renderFeeds builds every configured feed in memory. It performs no
// writes, so a bad feed config fails the build before the output
// directory is cleaned.
func (s *service) renderFeeds(loaded map[string]*collections.Result) ([]writeFileRequest, error) {
	var requests []writeFileRequest
	for _, target := range s.cfg.Feeds {
		result, ok := loaded[target.Collection]
		if !ok {
			continue
		}
		feed, err := s.feeds.FromResult(s.feeds.ConfigFor(target.Collection), result)
		if err != nil {
			return nil, err
		}

		rss, err := feed.RSS()
		if err != nil {
			return nil, err
		}
		rssPath := joinOutputPath(s.cfg.OutputDir, target.Path)
		requests = append(requests, writeFileRequest{
			Path:        rssPath,
			Content:     rss,
			Category:    categoryFeed,
			ContentType: feeds.RSSContentType,
		})

		if !target.Atom {
			continue
		}
		atom, err := feed.Atom()
		if err != nil {
			return nil, err
		}
		requests = append(requests, writeFileRequest{
			Path:        AtomPath(rssPath),
			Content:     atom,
			Category:    categoryFeed,
			ContentType: feeds.AtomContentType,
		})
	}
	return requests, nil
}

func (s *service) writeFeeds(ctx context.Context, writer *artifactWriter, requests []writeFileRequest) (int, error) {
	written := 0
	for _, req := range requests {
		if err := writer.write(ctx, req); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
