package sitecmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/generator"
)

const (
	buildSiteMessageType       = "folio.site.build"
	buildFeedMessageType       = "folio.site.feed"
	validateContentMessageType = "folio.site.validate"
	cleanSiteMessageType       = "folio.site.clean"
)

// Feed document formats accepted by BuildFeedCommand.
const (
	FormatRSS  = "rss"
	FormatAtom = "atom"
)

var collectionName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var collectionRules = []validation.Rule{
	validation.By(func(value any) error {
		name, _ := value.(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return validation.NewError("folio.site.collection_required", "collection names must not be empty")
		}
		if !collectionName.MatchString(name) {
			return validation.NewError("folio.site.collection_slug", "collection names must be lowercase slugs")
		}
		return nil
	}),
}

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build or clean.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand runs a generator build. Empty Collections builds every
// configured collection.
type BuildSiteCommand struct {
	Collections    []string       `json:"collections,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Strict         bool           `json:"strict,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures every requested collection name is a non-empty slug.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Collections, validation.Each(collectionRules...)),
	)
}

// FeedEnvelope carries a rendered feed document.
type FeedEnvelope struct {
	Feed        *feeds.Feed
	Format      string
	ContentType string
	Document    []byte
}

// FeedCallback receives the rendered feed of a BuildFeedCommand.
type FeedCallback func(FeedEnvelope)

// BuildFeedCommand builds and renders the feed of one collection. Format
// defaults to rss.
type BuildFeedCommand struct {
	Collection     string       `json:"collection"`
	Format         string       `json:"format,omitempty"`
	ResultCallback FeedCallback `json:"-"`
}

// Type implements command.Message.
func (BuildFeedCommand) Type() string { return buildFeedMessageType }

// Validate requires a collection and a known format.
func (m BuildFeedCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Collection, append([]validation.Rule{validation.Required}, collectionRules...)...),
		validation.Field(&m.Format, validation.In(FormatRSS, FormatAtom)),
	)
}

// ValidationReport lists the load outcome of every checked collection.
type ValidationReport struct {
	Results []*collections.Result
}

// Failures counts excluded files across the report.
func (r ValidationReport) Failures() int {
	total := 0
	for _, result := range r.Results {
		total += len(result.Failures)
	}
	return total
}

// ReportCallback receives the report of a ValidateContentCommand.
type ReportCallback func(ValidationReport)

// ValidateContentCommand loads collections without writing anything.
// Empty Collections checks every configured collection.
type ValidateContentCommand struct {
	Collections    []string       `json:"collections,omitempty"`
	ResultCallback ReportCallback `json:"-"`
}

// Type implements command.Message.
func (ValidateContentCommand) Type() string { return validateContentMessageType }

// Validate ensures every requested collection name is a non-empty slug.
func (m ValidateContentCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Collections, validation.Each(collectionRules...)),
	)
}

// CleanSiteCommand removes the generator output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }
