package feeds

import (
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/schema"
)

type rssProbe struct {
	Version string `xml:"version,attr"`
	Channel struct {
		Title       string `xml:"title"`
		Description string `xml:"description"`
		Link        string `xml:"link"`
		Language    string `xml:"language"`
		Items       []struct {
			Title       string  `xml:"title"`
			Link        string  `xml:"link"`
			GUID        string  `xml:"guid"`
			PubDate     string  `xml:"pubDate"`
			Description *string `xml:"description"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomProbe struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Updated string `xml:"updated"`
	Entries []struct {
		ID   string `xml:"id"`
		Link struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
	} `xml:"entry"`
}

func newsletter(id, title string, pub time.Time, description string) collections.Entry {
	return collections.Entry{
		ID:         id,
		Collection: "newsletters",
		Metadata: schema.Metadata{
			schema.FieldTitle:       title,
			schema.FieldPubDate:     pub,
			schema.FieldTags:        []string{},
			schema.FieldDescription: description,
		},
	}
}

func siteConfig() Config {
	return Config{
		Collection:  "newsletters",
		SiteURL:     "https://parda.me",
		SiteTitle:   "parda.me",
		Description: "Typescript related news",
	}
}

func TestItemLink(t *testing.T) {
	if got := ItemLink("posts", "2024-01-01-hello"); got != "/posts/2024-01-01-hello/" {
		t.Fatalf("unexpected link %q", got)
	}
}

func TestFromEntriesOrdersAndMaps(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	feed, err := FromEntries(siteConfig(), []collections.Entry{
		newsletter("issue-1", "Issue 1", jan, "First"),
		newsletter("issue-3", "Issue 3", feb, ""),
		newsletter("issue-2", "Issue 2", jan, "Second"),
	})
	if err != nil {
		t.Fatalf("FromEntries: %v", err)
	}

	if feed.Title != "parda.me | Newsletters" || feed.Language != "en-us" {
		t.Fatalf("unexpected feed header %q %q", feed.Title, feed.Language)
	}
	var ids []string
	for _, item := range feed.Items {
		ids = append(ids, item.ID)
	}
	if strings.Join(ids, ",") != "issue-3,issue-1,issue-2" {
		t.Fatalf("unexpected order %v", ids)
	}
	if feed.Items[1].Link != "/newsletters/issue-1/" || feed.Items[1].Description != "First" {
		t.Fatalf("unexpected item %#v", feed.Items[1])
	}
}

func TestFromEntriesDraftsAndLimit(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	draft := newsletter("draft", "Draft", day.AddDate(0, 0, 5), "")
	draft.Metadata[schema.FieldDraft] = true
	entries := []collections.Entry{newsletter("a", "A", day, ""), draft, newsletter("b", "B", day.AddDate(0, 0, 1), "")}

	feed, err := FromEntries(siteConfig(), entries)
	if err != nil {
		t.Fatalf("FromEntries: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("expected drafts to be excluded, got %d items", len(feed.Items))
	}

	cfg := siteConfig()
	cfg.IncludeDrafts = true
	cfg.Limit = 1
	feed, err = FromEntries(cfg, entries)
	if err != nil {
		t.Fatalf("FromEntries: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].ID != "draft" {
		t.Fatalf("expected newest draft only, got %#v", feed.Items)
	}
}

func TestFromEntriesConstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing site", Config{Collection: "posts"}},
		{"relative site", Config{Collection: "posts", SiteURL: "/blog"}},
		{"ftp site", Config{Collection: "posts", SiteURL: "ftp://parda.me"}},
		{"missing collection", Config{SiteURL: "https://parda.me"}},
		{"bad language", Config{Collection: "posts", SiteURL: "https://parda.me", Language: "not a tag!"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed, err := FromEntries(tt.cfg, nil)
			if feed != nil {
				t.Fatal("expected no feed")
			}
			if !errors.Is(err, ErrFeedConstruction) {
				t.Fatalf("expected ErrFeedConstruction, got %v", err)
			}
			var ferr *FeedConstructionError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected *FeedConstructionError, got %T", err)
			}
		})
	}
}

func TestRSSDocument(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feed, err := FromEntries(siteConfig(), []collections.Entry{
		newsletter("issue-1", "Issue <1> & more", jan, ""),
		newsletter("issue-2", "Issue 2", jan.AddDate(0, 0, 7), "Weekly"),
	})
	if err != nil {
		t.Fatalf("FromEntries: %v", err)
	}

	out, err := feed.RSS()
	if err != nil {
		t.Fatalf("RSS: %v", err)
	}
	if !strings.HasPrefix(string(out), "<?xml") || !strings.Contains(string(out), "<language>en-us</language>") {
		t.Fatalf("unexpected document %s", out)
	}

	var probe rssProbe
	if err := xml.Unmarshal(out, &probe); err != nil {
		t.Fatalf("rss does not parse: %v", err)
	}
	if probe.Version != "2.0" || probe.Channel.Title != "parda.me | Newsletters" || probe.Channel.Link != "https://parda.me/" {
		t.Fatalf("unexpected channel %#v", probe.Channel)
	}
	if probe.Channel.Description != "Typescript related news" {
		t.Fatalf("unexpected description %q", probe.Channel.Description)
	}
	if len(probe.Channel.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(probe.Channel.Items))
	}
	first, second := probe.Channel.Items[0], probe.Channel.Items[1]
	if first.Link != "https://parda.me/newsletters/issue-2/" || first.GUID != first.Link {
		t.Fatalf("unexpected first item %#v", first)
	}
	if first.Description == nil || *first.Description != "Weekly" {
		t.Fatal("expected description on first item")
	}
	if second.Title != "Issue <1> & more" || second.Description != nil {
		t.Fatalf("unexpected second item %#v", second)
	}
	if second.PubDate != "Mon, 01 Jan 2024 00:00:00 +0000" {
		t.Fatalf("unexpected pubDate %q", second.PubDate)
	}
}

func TestRSSZeroItems(t *testing.T) {
	feed, err := FromEntries(siteConfig(), nil)
	if err != nil {
		t.Fatalf("FromEntries: %v", err)
	}
	out, err := feed.RSS()
	if err != nil {
		t.Fatalf("RSS: %v", err)
	}
	var probe rssProbe
	if err := xml.Unmarshal(out, &probe); err != nil {
		t.Fatalf("rss does not parse: %v", err)
	}
	if len(probe.Channel.Items) != 0 || strings.Contains(string(out), "<item>") {
		t.Fatalf("expected zero items, got %s", out)
	}
}

func TestAtomDocumentIsStable(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []collections.Entry{newsletter("issue-1", "Issue 1", jan, "")}

	first, _ := FromEntries(siteConfig(), entries)
	second, _ := FromEntries(siteConfig(), entries)
	a, err := first.Atom()
	if err != nil {
		t.Fatalf("Atom: %v", err)
	}
	b, _ := second.Atom()
	if string(a) != string(b) {
		t.Fatal("expected identical atom output across builds")
	}

	var probe atomProbe
	if err := xml.Unmarshal(a, &probe); err != nil {
		t.Fatalf("atom does not parse: %v", err)
	}
	if !strings.HasPrefix(probe.ID, "urn:uuid:") || len(probe.Entries) != 1 {
		t.Fatalf("unexpected atom feed %#v", probe)
	}
	if probe.Updated != "2024-01-01T00:00:00Z" {
		t.Fatalf("unexpected updated %q", probe.Updated)
	}
	if probe.Entries[0].Link.Href != "https://parda.me/newsletters/issue-1/" || !strings.HasPrefix(probe.Entries[0].ID, "urn:uuid:") {
		t.Fatalf("unexpected entry %#v", probe.Entries[0])
	}
}

func TestServiceBuildLoadsCollection(t *testing.T) {
	files := fstest.MapFS{
		"newsletters/2024-01-07-issue.md": {Data: []byte("---\ntitle: Weekly\npubDate: 2024-01-07\ntags: [ts]\ndescription: Seven days\n---\nbody\n")},
		"newsletters/broken.md":           {Data: []byte("---\ntitle: Missing date\ntags: []\n---\n")},
	}
	loader := collections.NewLoader(files, schema.DefaultRegistry(), collections.Config{})
	clock := func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	svc := NewService(loader, Config{SiteURL: "https://parda.me", SiteTitle: "parda.me"},
		WithClock(clock),
		WithFeed(Config{Collection: "newsletters", Description: "Typescript related news"}),
	)

	feed, err := svc.Build(context.Background(), "newsletters")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].Link != "/newsletters/2024-01-07-issue/" {
		t.Fatalf("unexpected items %#v", feed.Items)
	}
	if feed.Description != "Typescript related news" || !feed.GeneratedAt.Equal(clock()) {
		t.Fatalf("unexpected feed %#v", feed)
	}
}

func TestServiceBuildRejectsBeforeLoading(t *testing.T) {
	loader := &countingLoader{}
	svc := NewService(loader, Config{})

	if _, err := svc.Build(context.Background(), "posts"); !errors.Is(err, ErrFeedConstruction) {
		t.Fatalf("expected ErrFeedConstruction, got %v", err)
	}
	if loader.calls != 0 {
		t.Fatal("expected no load when configuration is invalid")
	}
}

func TestServiceBuildPropagatesUnknownCollection(t *testing.T) {
	loader := collections.NewLoader(fstest.MapFS{}, schema.DefaultRegistry(), collections.Config{})
	svc := NewService(loader, Config{SiteURL: "https://parda.me"})

	if _, err := svc.Build(context.Background(), "news"); !errors.Is(err, collections.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

type countingLoader struct{ calls int }

func (c *countingLoader) Load(context.Context, string) (*collections.Result, error) {
	c.calls++
	return &collections.Result{}, nil
}
