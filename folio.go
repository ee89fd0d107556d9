// Package folio loads Markdown content collections, validates their
// front-matter and publishes feeds and site data for a static blog.
package folio

import (
	"github.com/goliatone/go-folio/internal/collections"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/di"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/schema"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// GeneratorService exports the site generator contract.
type GeneratorService = generator.Service

// BuildOptions exports the generator build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator build summary.
type BuildResult = generator.BuildResult

// Entry exports a validated collection entry.
type Entry = collections.Entry

// LoadResult exports the outcome of loading one collection.
type LoadResult = collections.Result

// Feed exports a built syndication feed.
type Feed = feeds.Feed

// Module represents the top level folio runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a folio module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the configured site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Collections returns the collection loader.
func (m *Module) Collections() *collections.Loader {
	return m.container.CollectionLoader()
}

// Feeds returns the feed service.
func (m *Module) Feeds() *feeds.Service {
	return m.container.FeedService()
}

// Schemas returns the schema registry built from the configuration.
func (m *Module) Schemas() *schema.Registry {
	return m.container.Schemas()
}

// Logger returns a module scoped logger from the configured provider.
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.container.LoggerProvider(), module)
}

func (m *Module) BuildSiteHandler() *sitecmd.BuildSiteHandler {
	return m.container.BuildSiteHandler()
}

func (m *Module) BuildFeedHandler() *sitecmd.BuildFeedHandler {
	return m.container.BuildFeedHandler()
}

func (m *Module) ValidateContentHandler() *sitecmd.ValidateContentHandler {
	return m.container.ValidateContentHandler()
}

func (m *Module) CleanSiteHandler() *sitecmd.CleanSiteHandler {
	return m.container.CleanSiteHandler()
}
