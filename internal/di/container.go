// Package di wires the folio pipeline from a runtime configuration.
package di

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/commands"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/internal/logging/gologger"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/internal/schema"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// CommandRegistry receives every command handler built by the container,
// typically a go-command dispatcher adapter.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	contentFS      fs.FS
	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	storage        generator.Storage
	parser         interfaces.MarkdownParser
	clock          func() time.Time
	registry       CommandRegistry

	schemas      *schema.Registry
	loader       *collections.Loader
	feedSvc      *feeds.Service
	generatorSvc generator.Service

	buildSiteHandler       *sitecmd.BuildSiteHandler
	buildFeedHandler       *sitecmd.BuildFeedHandler
	validateContentHandler *sitecmd.ValidateContentHandler
	cleanSiteHandler       *sitecmd.CleanSiteHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithContentFS reads collections from fsys instead of the disk. The
// configured content directory is then resolved inside fsys.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		if fsys != nil {
			c.contentFS = fsys
		}
	}
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogWriter sets the destination of the console provider. Defaults to
// os.Stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		if w != nil {
			c.logWriter = w
		}
	}
}

// WithStorage overrides the default filesystem storage of the generator.
// Artifacts are written below Config.Generator.OutputDir inside it.
func WithStorage(storage generator.Storage) Option {
	return func(c *Container) {
		if storage != nil {
			c.storage = storage
		}
	}
}

// WithMarkdownParser overrides the goldmark parser used for entry HTML.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithClock overrides the clock stamped on feeds.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithCommandRegistry registers every command handler with registry.
func WithCommandRegistry(registry CommandRegistry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer validates cfg and builds the pipeline services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:    cfg,
		logWriter: os.Stderr,
		clock:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureSchemas(); err != nil {
		return nil, err
	}
	c.configureServices()
	if err := c.configureCommands(); err != nil {
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "folio.di").Debug("container.configured",
		"collections", strings.Join(c.schemas.Names(), ","),
		"feeds", len(cfg.Feeds),
		"logger", cfg.Logging.Provider,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		level, ok := console.ParseLevel(c.Config.Logging.Level)
		if !ok {
			level = console.LevelInfo
		}
		c.loggerProvider = console.NewProvider(console.Options{
			Writer:   c.logWriter,
			MinLevel: level,
		})
	}
	return nil
}

// configureSchemas registers one schema per configured collection: the
// declared fields when present, the built-in schema of the same name
// otherwise.
func (c *Container) configureSchemas() error {
	builtin := schema.DefaultRegistry()
	c.schemas = schema.NewRegistry()
	for _, cc := range c.Config.Content.Collections {
		name := strings.TrimSpace(cc.Name)
		if len(cc.Fields) > 0 {
			s, err := schema.FromConfig(name, cc.Fields)
			if err != nil {
				return err
			}
			c.schemas.Register(s)
			continue
		}
		s, ok := builtin.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", schema.ErrUnknownSchema, name)
		}
		c.schemas.Register(s)
	}
	return nil
}

func (c *Container) configureServices() {
	cfg := c.Config

	contentDir := ""
	if c.contentFS == nil {
		c.contentFS = os.DirFS(filepath.Clean(cfg.Content.Dir))
	} else {
		contentDir = strings.Trim(cfg.Content.Dir, "/")
	}

	loaderCollections := make([]collections.CollectionConfig, 0, len(cfg.Content.Collections))
	names := make([]string, 0, len(cfg.Content.Collections))
	for _, cc := range cfg.Content.Collections {
		loaderCollections = append(loaderCollections, collections.CollectionConfig{
			Name:    strings.TrimSpace(cc.Name),
			Base:    cc.Base,
			Pattern: cc.Pattern,
		})
		names = append(names, strings.TrimSpace(cc.Name))
	}
	c.loader = collections.NewLoader(c.contentFS, c.schemas, collections.Config{
		ContentDir:  contentDir,
		Collections: loaderCollections,
		Workers:     cfg.Content.Workers,
	}, collections.WithLogger(logging.CollectionsLogger(c.loggerProvider)))

	feedOpts := []feeds.Option{
		feeds.WithLogger(logging.FeedsLogger(c.loggerProvider)),
		feeds.WithClock(c.clock),
	}
	targets := make([]generator.FeedTarget, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		feedOpts = append(feedOpts, feeds.WithFeed(feeds.Config{
			Collection:    strings.TrimSpace(feed.Collection),
			Title:         feed.Title,
			Description:   feed.Description,
			Language:      feed.Language,
			Limit:         feed.Limit,
			IncludeDrafts: feed.IncludeDrafts,
		}))
		targets = append(targets, generator.FeedTarget{
			Collection: strings.TrimSpace(feed.Collection),
			Path:       strings.TrimSpace(feed.Path),
			Atom:       feed.Atom,
		})
	}
	c.feedSvc = feeds.NewService(c.loader, feeds.Config{
		SiteURL:   cfg.Site.URL,
		SiteTitle: cfg.Site.Title,
		Language:  cfg.Site.Language,
	}, feedOpts...)

	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(cfg.Content.Markdown)
	}

	outputDir := cfg.Generator.OutputDir
	if c.storage == nil {
		// The output directory is a child of the storage root so Clean
		// never removes the root itself.
		clean := filepath.Clean(outputDir)
		c.storage = generator.NewFilesystemStorage(filepath.Dir(clean))
		outputDir = filepath.Base(clean)
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:   filepath.ToSlash(outputDir),
		BaseURL:     cfg.Site.URL,
		Collections: names,
		Feeds:       targets,
		CleanBuild:  cfg.Generator.CleanBuild,
		Sitemap:     cfg.Generator.Sitemap,
		Robots:      cfg.Generator.Robots,
		EntryIndex:  cfg.Generator.EntryIndex,
		RenderHTML:  cfg.Generator.RenderHTML,
		SiteData:    cfg.Generator.SiteData,
		Markdown:    cfg.Content.Markdown,
		Workers:     cfg.Content.Workers,
	}, generator.Dependencies{
		Loader:  c.loader,
		Feeds:   c.feedSvc,
		Parser:  c.parser,
		Storage: c.storage,
		Logger:  logging.GeneratorLogger(c.loggerProvider),
	})
}

func (c *Container) configureCommands() error {
	logger := logging.WithFields(logging.CommandsLogger(c.loggerProvider), map[string]any{
		"command_group": "site",
	})
	timeout := c.Config.Commands.Timeout

	c.buildSiteHandler = sitecmd.NewBuildSiteHandler(c.generatorSvc, logger,
		commands.WithTimeout[sitecmd.BuildSiteCommand](timeout))
	c.buildFeedHandler = sitecmd.NewBuildFeedHandler(c.feedSvc, logger,
		commands.WithTimeout[sitecmd.BuildFeedCommand](timeout))
	c.validateContentHandler = sitecmd.NewValidateContentHandler(c.loader, logger,
		commands.WithTimeout[sitecmd.ValidateContentCommand](timeout))
	c.cleanSiteHandler = sitecmd.NewCleanSiteHandler(c.generatorSvc, logger,
		commands.WithTimeout[sitecmd.CleanSiteCommand](timeout))

	if c.registry == nil {
		return nil
	}
	for _, handler := range c.CommandHandlers() {
		if err := c.registry.RegisterCommand(handler); err != nil {
			return fmt.Errorf("di: register command: %w", err)
		}
	}
	return nil
}

// CommandHandlers lists every command handler in registration order.
func (c *Container) CommandHandlers() []any {
	return []any{
		c.buildSiteHandler,
		c.buildFeedHandler,
		c.validateContentHandler,
		c.cleanSiteHandler,
	}
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Schemas() *schema.Registry { return c.schemas }

func (c *Container) CollectionLoader() *collections.Loader { return c.loader }

func (c *Container) FeedService() *feeds.Service { return c.feedSvc }

func (c *Container) GeneratorService() generator.Service { return c.generatorSvc }

func (c *Container) MarkdownParser() interfaces.MarkdownParser { return c.parser }

func (c *Container) BuildSiteHandler() *sitecmd.BuildSiteHandler { return c.buildSiteHandler }

func (c *Container) BuildFeedHandler() *sitecmd.BuildFeedHandler { return c.buildFeedHandler }

func (c *Container) ValidateContentHandler() *sitecmd.ValidateContentHandler {
	return c.validateContentHandler
}

func (c *Container) CleanSiteHandler() *sitecmd.CleanSiteHandler { return c.cleanSiteHandler }
