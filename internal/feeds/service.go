package feeds

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// EntryLoader loads a collection by name. *collections.Loader satisfies it.
type EntryLoader interface {
	Load(ctx context.Context, name string) (*collections.Result, error)
}

// Option customises a Service.
type Option func(*Service)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFeed registers per-collection settings that override the defaults
// for cfg.Collection.
func WithFeed(cfg Config) Option {
	return func(s *Service) {
		s.feeds[strings.TrimSpace(cfg.Collection)] = cfg
	}
}

// Service builds feeds for named collections.
type Service struct {
	loader   EntryLoader
	defaults Config
	feeds    map[string]Config
	logger   interfaces.Logger
	now      func() time.Time
}

// NewService returns a feed service. defaults carries the site wide
// settings (SiteURL, SiteTitle, Language) shared by every feed.
func NewService(loader EntryLoader, defaults Config, opts ...Option) *Service {
	s := &Service{
		loader:   loader,
		defaults: defaults,
		feeds:    map[string]Config{},
		logger:   logging.NoOp(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ConfigFor merges the registered settings for collection over the defaults.
func (s *Service) ConfigFor(collection string) Config {
	collection = strings.TrimSpace(collection)
	cfg := s.defaults
	cfg.Collection = collection
	if override, ok := s.feeds[collection]; ok {
		cfg.IncludeDrafts = override.IncludeDrafts
		if override.Title != "" {
			cfg.Title = override.Title
		}
		if override.Description != "" {
			cfg.Description = override.Description
		}
		if override.Language != "" {
			cfg.Language = override.Language
		}
		if override.SiteTitle != "" {
			cfg.SiteTitle = override.SiteTitle
		}
		if override.Limit > 0 {
			cfg.Limit = override.Limit
		}
	}
	return cfg
}

// Build loads collection and maps its entries into a feed. The
// configuration is checked before anything is loaded.
func (s *Service) Build(ctx context.Context, collection string) (*Feed, error) {
	cfg := s.ConfigFor(collection)
	logger := logging.WithFields(s.logger, map[string]any{"collection": cfg.Collection})

	if _, _, err := checkConfig(cfg); err != nil {
		logger.Error("feeds.build.invalid", "error", err)
		return nil, err
	}

	result, err := s.loader.Load(ctx, cfg.Collection)
	if err != nil {
		logger.Error("feeds.build.load_failed", "error", err)
		return nil, err
	}
	return s.FromResult(cfg, result)
}

// FromResult builds the feed for an already loaded collection.
func (s *Service) FromResult(cfg Config, result *collections.Result) (*Feed, error) {
	var entries []collections.Entry
	if result != nil {
		entries = result.Entries
	}
	feed, err := FromEntries(cfg, entries)
	if err != nil {
		return nil, err
	}
	feed.GeneratedAt = s.now()
	s.logger.Info("feeds.build.complete", "collection", cfg.Collection, "items", len(feed.Items))
	return feed, nil
}
