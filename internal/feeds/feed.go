// Package feeds projects collection entries into syndication feeds and
// renders them as RSS 2.0 and Atom 1.0.
package feeds

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-folio/internal/collections"
	foliovalidation "github.com/goliatone/go-folio/internal/validation"
)

// DefaultLanguage is used when Config.Language is blank.
const DefaultLanguage = "en-us"

// Config describes one feed. SiteURL and Collection are required.
type Config struct {
	Collection    string
	SiteURL       string
	SiteTitle     string
	Title         string
	Description   string
	Language      string
	IncludeDrafts bool
	// Limit caps the number of items; zero keeps all of them.
	Limit int
}

// Item is the feed projection of one entry. Link is site relative.
type Item struct {
	ID          string
	Title       string
	PubDate     time.Time
	Description string
	Link        string
}

// Feed is a serialisable feed document.
type Feed struct {
	Collection  string
	Title       string
	Description string
	SiteURL     string
	Language    string
	GeneratedAt time.Time
	Items       []Item
	site        *url.URL
}

// ItemLink is the canonical item link: /<collection>/<id>/.
func ItemLink(collection, id string) string {
	return collections.Route(collection, id)
}

// FromEntries maps entries to a feed. Items are ordered by pubDate, newest
// first, with ties broken by id. Drafts are dropped unless
// cfg.IncludeDrafts is set.
func FromEntries(cfg Config, entries []collections.Entry) (*Feed, error) {
	site, lang, err := checkConfig(cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.IncludeDrafts {
		entries = collections.Published(entries)
	}
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{
			ID:          entry.ID,
			Title:       entry.Title(),
			PubDate:     entry.PubDate(),
			Description: entry.Description(),
			Link:        ItemLink(cfg.Collection, entry.ID),
		})
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if cfg.Limit > 0 && len(items) > cfg.Limit {
		items = items[:cfg.Limit]
	}

	return &Feed{
		Collection:  cfg.Collection,
		Title:       feedTitle(cfg, site),
		Description: cfg.Description,
		SiteURL:     site.String(),
		Language:    lang,
		Items:       items,
		site:        site,
	}, nil
}

// AbsoluteLink resolves a site relative link against the feed's site URL.
func (f *Feed) AbsoluteLink(link string) string {
	site := f.site
	if site == nil {
		parsed, err := url.Parse(f.SiteURL)
		if err != nil {
			return link
		}
		site = parsed
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return site.ResolveReference(ref).String()
}

var validLanguage = validation.By(func(value any) error {
	s, _ := value.(string)
	if _, err := language.Parse(s); err != nil {
		return validation.NewError("validation_is_language", "must be a BCP 47 language tag")
	}
	return nil
})

func checkConfig(cfg Config) (*url.URL, string, error) {
	lang := strings.ToLower(strings.TrimSpace(cfg.Language))
	if lang == "" {
		lang = DefaultLanguage
	}
	siteURL := strings.TrimSpace(cfg.SiteURL)

	err := validation.Errors{
		"collection": validation.Validate(strings.TrimSpace(cfg.Collection), validation.Required),
		"site_url":   validation.Validate(siteURL, validation.Required, is.RequestURL, foliovalidation.AbsoluteURL),
		"language":   validation.Validate(lang, validLanguage),
	}.Filter()
	if err != nil {
		return nil, "", &FeedConstructionError{Collection: cfg.Collection, Err: err}
	}

	site, _ := url.Parse(siteURL)
	if site.Path == "" {
		site.Path = "/"
	}
	return site, lang, nil
}

func feedTitle(cfg Config, site *url.URL) string {
	if title := strings.TrimSpace(cfg.Title); title != "" {
		return title
	}
	siteTitle := strings.TrimSpace(cfg.SiteTitle)
	if siteTitle == "" {
		siteTitle = site.Hostname()
	}
	return siteTitle + " | " + cases.Title(language.English).String(cfg.Collection)
}
