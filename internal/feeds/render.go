package feeds

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/goliatone/go-folio/internal/identity"
)

// Media types of the rendered documents.
const (
	RSSContentType  = "application/rss+xml"
	AtomContentType = "application/atom+xml"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Description string  `xml:"description,omitempty"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSS renders the feed as an RSS 2.0 document. Item links and guids are
// absolute; dates keep the offset they were authored with.
func (f *Feed) RSS() ([]byte, error) {
	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:       f.Title,
			Description: f.Description,
			Link:        f.SiteURL,
			Language:    f.Language,
			Items:       make([]rssItem, 0, len(f.Items)),
		},
	}
	if !f.GeneratedAt.IsZero() {
		doc.Channel.LastBuildDate = f.GeneratedAt.Format(time.RFC1123Z)
	}
	for _, item := range f.Items {
		link := f.AbsoluteLink(item.Link)
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       item.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: "true", Value: link},
			PubDate:     item.PubDate.Format(time.RFC1123Z),
			Description: item.Description,
		})
	}
	return marshal(doc)
}

type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Lang    string      `xml:"xml:lang,attr,omitempty"`
	ID      string      `xml:"id"`
	Title   string      `xml:"title"`
	Summary string      `xml:"subtitle,omitempty"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Link      atomLink `xml:"link"`
	Updated   string   `xml:"updated"`
	Published string   `xml:"published"`
	Summary   string   `xml:"summary,omitempty"`
}

// Atom renders the feed as an Atom 1.0 document. Feed and entry ids are
// urn:uuid values derived from the site URL, collection and entry id, so
// they are stable across builds.
func (f *Feed) Atom() ([]byte, error) {
	doc := atomFeed{
		Lang:    f.Language,
		ID:      identity.URN(identity.FeedUUID(f.SiteURL, f.Collection)),
		Title:   f.Title,
		Summary: f.Description,
		Updated: f.updated().Format(time.RFC3339),
		Links:   []atomLink{{Rel: "alternate", Href: f.SiteURL}},
		Entries: make([]atomEntry, 0, len(f.Items)),
	}
	for _, item := range f.Items {
		stamp := item.PubDate.Format(time.RFC3339)
		doc.Entries = append(doc.Entries, atomEntry{
			ID:        identity.URN(identity.EntryUUID(f.SiteURL, f.Collection, item.ID)),
			Title:     item.Title,
			Link:      atomLink{Rel: "alternate", Href: f.AbsoluteLink(item.Link)},
			Updated:   stamp,
			Published: stamp,
			Summary:   item.Description,
		})
	}
	return marshal(doc)
}

// updated is the newest item date, then GeneratedAt, then the Unix epoch.
func (f *Feed) updated() time.Time {
	if len(f.Items) > 0 && !f.Items[0].PubDate.IsZero() {
		return f.Items[0].PubDate
	}
	if !f.GeneratedAt.IsZero() {
		return f.GeneratedAt
	}
	return time.Unix(0, 0).UTC()
}

func marshal(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("feeds: encode: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
