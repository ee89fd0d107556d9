// Package runtimeconfig defines the folio configuration: site identity,
// content collections, feeds, generator toggles and logging.
package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-folio/internal/schema"
	foliovalidation "github.com/goliatone/go-folio/internal/validation"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// ErrInvalidConfig is matched by every error returned from Validate.
var ErrInvalidConfig = errors.New("folio config: invalid")

type Config struct {
	Site      SiteConfig      `yaml:"site" json:"site"`
	Content   ContentConfig   `yaml:"content" json:"content"`
	Feeds     []FeedConfig    `yaml:"feeds" json:"feeds"`
	Generator GeneratorConfig `yaml:"generator" json:"generator"`
	Commands  CommandsConfig  `yaml:"commands" json:"commands"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// SiteConfig carries the host build settings. Only URL, Title and Language
// are interpreted; the rest are passed through to the page renderer.
type SiteConfig struct {
	URL           string   `yaml:"url" json:"url"`
	Title         string   `yaml:"title" json:"title"`
	Language      string   `yaml:"language" json:"language"`
	Locales       []string `yaml:"locales" json:"locales"`
	DefaultLocale string   `yaml:"default_locale" json:"default_locale"`
	Output        string   `yaml:"output" json:"output"`
	ImageService  string   `yaml:"image_service" json:"image_service"`
}

type ContentConfig struct {
	Dir         string                  `yaml:"dir" json:"dir"`
	Workers     int                     `yaml:"workers" json:"workers"`
	Markdown    interfaces.ParseOptions `yaml:"markdown" json:"markdown"`
	Collections []CollectionConfig      `yaml:"collections" json:"collections"`
}

// CollectionConfig declares a collection. Without Fields the built-in
// schema of the same name is used.
type CollectionConfig struct {
	Name    string               `yaml:"name" json:"name"`
	Base    string               `yaml:"base,omitempty" json:"base,omitempty"`
	Pattern string               `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Fields  []schema.FieldConfig `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FeedConfig declares one feed. Path is relative to the output directory;
// the Atom companion replaces the .xml suffix with .atom.xml.
type FeedConfig struct {
	Collection    string `yaml:"collection" json:"collection"`
	Path          string `yaml:"path" json:"path"`
	Title         string `yaml:"title,omitempty" json:"title,omitempty"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	Language      string `yaml:"language,omitempty" json:"language,omitempty"`
	Limit         int    `yaml:"limit,omitempty" json:"limit,omitempty"`
	IncludeDrafts bool   `yaml:"include_drafts,omitempty" json:"include_drafts,omitempty"`
	Atom          bool   `yaml:"atom" json:"atom"`
}

type GeneratorConfig struct {
	OutputDir  string `yaml:"output_dir" json:"output_dir"`
	CleanBuild bool   `yaml:"clean_build" json:"clean_build"`
	Sitemap    bool   `yaml:"sitemap" json:"sitemap"`
	Robots     bool   `yaml:"robots" json:"robots"`
	EntryIndex bool   `yaml:"entry_index" json:"entry_index"`
	RenderHTML bool   `yaml:"render_html" json:"render_html"`
	SiteData   bool   `yaml:"site_data" json:"site_data"`
}

type CommandsConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

type LoggingConfig struct {
	Provider  string   `yaml:"provider" json:"provider"`
	Level     string   `yaml:"level" json:"level"`
	Format    string   `yaml:"format" json:"format"`
	AddSource bool     `yaml:"add_source" json:"add_source"`
	Focus     []string `yaml:"focus" json:"focus"`
}

// DefaultConfig mirrors the parda.me site: two collections and an RSS
// feed for newsletters.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			URL:           "https://parda.me",
			Title:         "parda.me",
			Language:      "en-us",
			Locales:       []string{"en", "pl"},
			DefaultLocale: "en",
			Output:        "static",
			ImageService:  "passthrough",
		},
		Content: ContentConfig{
			Dir: "src/content",
			Collections: []CollectionConfig{
				{Name: "posts"},
				{Name: "newsletters"},
			},
		},
		Feeds: []FeedConfig{
			{
				Collection:  "newsletters",
				Path:        "news.xml",
				Description: "Typescript related news",
				Atom:        true,
			},
		},
		Generator: GeneratorConfig{
			OutputDir:  "dist",
			CleanBuild: false,
			Sitemap:    true,
			Robots:     true,
			EntryIndex: true,
			RenderHTML: true,
			SiteData:   true,
		},
		Commands: CommandsConfig{Timeout: 30 * time.Second},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

var (
	outputModes    = []any{"static", "server", "hybrid"}
	logProviders   = []any{"console", "gologger"}
	logLevels      = []any{"trace", "debug", "info", "warn", "warning", "error", "fatal"}
	logFormats     = []any{"json", "console", "pretty"}
	relativeOutput = validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.HasPrefix(s, "/") || strings.Contains(s, "..") {
			return validation.NewError("validation_relative_path", "must be a relative path inside the output directory")
		}
		return nil
	})
)

// Validate checks the configuration for consistency. The returned error
// wraps ErrInvalidConfig and the ozzo validation.Errors describing each
// offending field.
func (cfg Config) Validate() error {
	err := validation.Errors{
		"site":      cfg.Site.validate(),
		"content":   cfg.Content.validate(),
		"feeds":     cfg.validateFeeds(),
		"generator": validation.Validate(strings.TrimSpace(cfg.Generator.OutputDir), validation.Required),
		"commands":  validation.Validate(int64(cfg.Commands.Timeout), validation.Min(int64(0))),
		"logging":   cfg.Logging.validate(),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (s SiteConfig) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.URL, validation.Required, foliovalidation.AbsoluteURL),
		validation.Field(&s.DefaultLocale, validation.When(len(s.Locales) > 0, validation.In(toAny(s.Locales)...))),
		validation.Field(&s.Output, validation.In(outputModes...)),
	)
}

func (c ContentConfig) validate() error {
	errs := validation.Errors{}
	if c.Workers < 0 {
		errs["workers"] = validation.NewError("validation_min", "must be no less than 0")
	}
	seen := map[string]bool{}
	for i, cc := range c.Collections {
		key := fmt.Sprintf("collections.%d", i)
		name := strings.TrimSpace(cc.Name)
		switch {
		case name == "":
			errs[key] = validation.NewError("validation_required", "name is required")
		case seen[name]:
			errs[key] = validation.NewError("validation_duplicate", "duplicate collection "+name)
		case len(cc.Fields) == 0 && !slices.Contains(schema.DefaultRegistry().Names(), name):
			errs[key] = validation.NewError("validation_schema_required", "fields are required for collection "+name)
		case len(cc.Fields) > 0:
			if _, err := schema.FromConfig(name, cc.Fields); err != nil {
				errs[key] = err
			}
		}
		seen[name] = true
	}
	return errs.Filter()
}

func (cfg Config) validateFeeds() error {
	declared := map[string]bool{}
	for _, cc := range cfg.Content.Collections {
		declared[strings.TrimSpace(cc.Name)] = true
	}
	errs := validation.Errors{}
	paths := map[string]bool{}
	for i, feed := range cfg.Feeds {
		key := fmt.Sprintf("%d", i)
		collection := strings.TrimSpace(feed.Collection)
		path := strings.TrimSpace(feed.Path)
		switch {
		case !declared[collection]:
			errs[key] = validation.NewError("validation_unknown_collection", fmt.Sprintf("collection %q is not declared", collection))
		case path == "":
			errs[key] = validation.NewError("validation_required", "path is required")
		case paths[path]:
			errs[key] = validation.NewError("validation_duplicate", "duplicate feed path "+path)
		case feed.Limit < 0:
			errs[key] = validation.NewError("validation_min", "limit must be no less than 0")
		default:
			if err := validation.Validate(path, relativeOutput); err != nil {
				errs[key] = err
			}
		}
		paths[path] = true
	}
	return errs.Filter()
}

func (l LoggingConfig) validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Provider, validation.Required, validation.In(logProviders...)),
		validation.Field(&l.Level, validation.In(logLevels...)),
		validation.Field(&l.Format, validation.In(logFormats...)),
	)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
