// Package generator turns loaded collections into the static artifacts of
// the site: feeds, sitemap, robots, entry indexes and site data.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

var (
	// ErrStrictBuild is returned when a strict build finds file failures.
	ErrStrictBuild      = errors.New("generator: content failures in strict build")
	errLoaderRequired   = errors.New("generator: collection loader is required")
	errFeedsRequired    = errors.New("generator: feed builder is required")
	errStorageRequired  = errors.New("generator: storage is required")
	errNoCollectionsSet = errors.New("generator: no collections to build")
	errCleanRoot        = errors.New("generator: refusing to clean without an output directory")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir   string
	BaseURL     string
	Collections []string
	Feeds       []FeedTarget
	CleanBuild  bool
	Sitemap     bool
	Robots      bool
	EntryIndex  bool
	RenderHTML  bool
	SiteData    bool
	Markdown    interfaces.ParseOptions
	Workers     int
}

// BuildOptions narrows a build. Empty Collections builds every configured
// collection.
type BuildOptions struct {
	Collections []string
	DryRun      bool
	Strict      bool
}

// CollectionReport summarises one loaded collection.
type CollectionReport struct {
	Name      string
	Entries   int
	Published int
	Failures  []collections.Failure
}

// BuildResult reports what a build loaded and wrote. On dry runs Artifacts
// lists what would have been written.
type BuildResult struct {
	Collections []CollectionReport
	Artifacts   []Artifact
	Duration    time.Duration
	DryRun      bool
}

// Failures returns every file failure across collections.
func (r *BuildResult) Failures() []collections.Failure {
	if r == nil {
		return nil
	}
	var out []collections.Failure
	for _, report := range r.Collections {
		out = append(out, report.Failures...)
	}
	return out
}

// CollectionLoader loads a collection by name. *collections.Loader satisfies it.
type CollectionLoader interface {
	Load(ctx context.Context, name string) (*collections.Result, error)
}

// FeedBuilder maps a loaded collection into a feed. *feeds.Service satisfies it.
type FeedBuilder interface {
	ConfigFor(collection string) feeds.Config
	FromResult(cfg feeds.Config, result *collections.Result) (*feeds.Feed, error)
}

// Dependencies enumerates the collaborators used by the generator.
type Dependencies struct {
	Loader  CollectionLoader
	Feeds   FeedBuilder
	Parser  interfaces.MarkdownParser
	Storage Storage
	Logger  interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:     cfg,
		loader:  deps.Loader,
		feeds:   deps.Feeds,
		parser:  deps.Parser,
		storage: deps.Storage,
		logger:  logger,
	}
}

type service struct {
	cfg     Config
	loader  CollectionLoader
	feeds   FeedBuilder
	parser  interfaces.MarkdownParser
	storage Storage
	logger  interfaces.Logger
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case s.loader == nil:
		return nil, errLoaderRequired
	case s.feeds == nil && len(s.cfg.Feeds) > 0:
		return nil, errFeedsRequired
	case s.storage == nil && !opts.DryRun:
		return nil, errStorageRequired
	}

	names := selectCollections(s.cfg.Collections, opts.Collections)
	if len(names) == 0 {
		return nil, errNoCollectionsSet
	}

	start := time.Now()
	logger := logging.WithFields(s.logger, map[string]any{
		"collections": strings.Join(names, ","),
		"dry_run":     opts.DryRun,
		"strict":      opts.Strict,
	})
	logger.Info("generator.build.start")

	loaded, err := s.loadConcurrently(ctx, names)
	if err != nil {
		logger.Error("generator.build.load_failed", "error", err)
		return nil, err
	}

	result := &BuildResult{DryRun: opts.DryRun}
	failed := 0
	byName := make(map[string]*collections.Result, len(loaded))
	for _, res := range loaded {
		byName[res.Collection] = res
		result.Collections = append(result.Collections, CollectionReport{
			Name:      res.Collection,
			Entries:   len(res.Entries),
			Published: len(collections.Published(res.Entries)),
			Failures:  res.Failures,
		})
		failed += len(res.Failures)
	}

	if opts.Strict && failed > 0 {
		result.Duration = time.Since(start)
		logger.Warn("generator.build.strict_abort", "failures", failed)
		return result, fmt.Errorf("%w: %d file(s) failed", ErrStrictBuild, failed)
	}

	feedFiles, err := s.renderFeeds(byName)
	if err != nil {
		logger.Error("generator.build.feeds_failed", "error", err)
		return nil, err
	}

	storage := s.storage
	if opts.DryRun {
		storage = NewMemoryStorage()
	} else if s.cfg.CleanBuild {
		if err := s.Clean(ctx); err != nil {
			return nil, err
		}
	}
	writer := newArtifactWriter(storage)

	if _, err := s.writeFeeds(ctx, writer, feedFiles); err != nil {
		logger.Error("generator.build.feeds_failed", "error", err)
		return nil, err
	}
	if s.cfg.EntryIndex {
		if _, err := s.writeIndexes(ctx, writer, loaded); err != nil {
			logger.Error("generator.build.index_failed", "error", err)
			return nil, err
		}
	}
	if s.cfg.Sitemap {
		if err := s.writeSitemap(ctx, writer, loaded); err != nil {
			return nil, err
		}
	}
	if s.cfg.Robots {
		if err := s.writeRobots(ctx, writer); err != nil {
			return nil, err
		}
	}
	if s.cfg.SiteData {
		if _, err := s.writeSiteData(ctx, writer); err != nil {
			return nil, err
		}
	}

	result.Artifacts = writer.artifacts
	result.Duration = time.Since(start)
	logger.Info("generator.build.complete",
		"artifacts", len(result.Artifacts),
		"failures", failed,
		"duration", result.Duration.String(),
	)
	return result, nil
}

// Clean removes the output directory. The storage root itself is never
// removed.
func (s *service) Clean(ctx context.Context) error {
	if s.storage == nil {
		return errStorageRequired
	}
	dir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if dir == "" || dir == "." {
		return errCleanRoot
	}
	if err := s.storage.RemoveAll(ctx, dir); err != nil {
		return err
	}
	s.logger.Info("generator.clean", "output_dir", dir)
	return nil
}

type loadOutcome struct {
	index  int
	result *collections.Result
	err    error
}

// loadConcurrently loads every named collection once. Results keep the
// order of names; the first error in that order wins.
func (s *service) loadConcurrently(ctx context.Context, names []string) ([]*collections.Result, error) {
	outcomes := make([]loadOutcome, len(names))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workerCount := s.effectiveWorkerCount(len(names))
	for range workerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := s.loader.Load(ctx, names[idx])
				outcomes[idx] = loadOutcome{index: idx, result: res, err: err}
			}
		}()
	}

	for idx := range names {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	results := make([]*collections.Result, 0, len(names))
	for _, outcome := range outcomes {
		if outcome.err != nil {
			return nil, outcome.err
		}
		if outcome.result == nil {
			outcome.result = &collections.Result{Collection: names[outcome.index]}
		}
		results = append(results, outcome.result)
	}
	return results, nil
}

func (s *service) writeSitemap(ctx context.Context, writer *artifactWriter, results []*collections.Result) error {
	content := buildSitemap(s.cfg.BaseURL, sitemapRoutes(results))
	return writer.write(ctx, writeFileRequest{
		Path:        joinOutputPath(s.cfg.OutputDir, "sitemap.xml"),
		Content:     []byte(content),
		Category:    categorySitemap,
		ContentType: "application/xml",
	})
}

func (s *service) writeRobots(ctx context.Context, writer *artifactWriter) error {
	content := buildRobots(s.cfg.BaseURL, s.cfg.Sitemap)
	return writer.write(ctx, writeFileRequest{
		Path:        joinOutputPath(s.cfg.OutputDir, "robots.txt"),
		Content:     []byte(content),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
	})
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if jobs > 0 && workers > jobs {
		return jobs
	}
	return workers
}

// selectCollections returns requested, or configured when nothing was
// requested, trimmed and without duplicates.
func selectCollections(configured, requested []string) []string {
	source := requested
	if len(source) == 0 {
		source = configured
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(source))
	for _, name := range source {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
