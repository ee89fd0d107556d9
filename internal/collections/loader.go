package collections

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/schema"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// CollectionConfig locates a collection below the content directory.
// Base defaults to the collection name and Pattern to "**/*.md".
type CollectionConfig struct {
	Name    string
	Base    string
	Pattern string
}

// Config configures a Loader.
type Config struct {
	// ContentDir is the root of every collection base inside the filesystem.
	ContentDir  string
	Collections []CollectionConfig
	// Workers bounds concurrent file reads; zero means runtime.NumCPU().
	Workers int
}

// Collection is a fully resolved collection for LoadCollection.
type Collection struct {
	Name    string
	Base    string
	Pattern string
	Schema  schema.Schema
}

// Result is the outcome of loading one collection. Entries are sorted by
// FilePath; Failures lists excluded files in the same order.
type Result struct {
	Collection string
	Entries    []Entry
	Failures   []Failure
}

// Option customises a Loader.
type Option func(*Loader)

// WithLogger routes loader diagnostics to logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader loads collections declared in a schema registry from a filesystem.
type Loader struct {
	fs       fs.FS
	registry *schema.Registry
	cfg      Config
	logger   interfaces.Logger
}

// NewLoader builds a loader reading from fsys. Only collections with a
// schema in registry can be loaded by name.
func NewLoader(fsys fs.FS, registry *schema.Registry, cfg Config, opts ...Option) *Loader {
	l := &Loader{
		fs:       fsys,
		registry: registry,
		cfg:      cfg,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Names lists the collections the loader can load by name.
func (l *Loader) Names() []string {
	return l.registry.Names()
}

// Resolve returns the collection definition used by Load for name.
func (l *Loader) Resolve(name string) (Collection, error) {
	name = strings.TrimSpace(name)
	s, ok := l.registry.Lookup(name)
	if !ok {
		return Collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	c := Collection{Name: name, Base: name, Schema: s}
	for _, cc := range l.cfg.Collections {
		if strings.TrimSpace(cc.Name) != name {
			continue
		}
		if base := strings.TrimSpace(cc.Base); base != "" {
			c.Base = base
		}
		c.Pattern = cc.Pattern
	}
	if dir := strings.TrimSpace(l.cfg.ContentDir); dir != "" {
		c.Base = path.Join(dir, c.Base)
	}
	return c, nil
}

// Load loads the named collection.
func (l *Loader) Load(ctx context.Context, name string) (*Result, error) {
	c, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	return l.LoadCollection(ctx, c)
}

// LoadCollection reads every file of c matching its pattern. Files that
// fail to parse or validate are reported in Result.Failures and skipped.
// Duplicate ids, I/O errors and cancellation abort the load.
func (l *Loader) LoadCollection(ctx context.Context, c Collection) (*Result, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: collection name is required", ErrUnknownCollection)
	}
	if c.Schema.Name == "" {
		c.Schema.Name = c.Name
	}
	base := c.Base
	if strings.TrimSpace(base) == "" {
		base = c.Name
	}

	files, err := markdown.NewLoader(l.fs, markdown.LoaderConfig{BasePath: base, Pattern: c.Pattern})
	if err != nil {
		return nil, fmt.Errorf("collections: %s: %w", c.Name, err)
	}
	paths, err := files.Discover(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("collections: %s: %w", c.Name, err)
	}

	logger := logging.WithFields(l.logger, map[string]any{"collection": c.Name})
	logger.Debug("collections.load.start", "base", files.BasePath(), "pattern", files.Pattern(), "files", len(paths))

	outcomes, err := l.readAll(ctx, files, c, paths)
	if err != nil {
		return nil, err
	}

	if err := checkDuplicates(c.Name, outcomes); err != nil {
		logger.Error("collections.load.duplicate", "error", err)
		return nil, err
	}

	result := &Result{Collection: c.Name}
	for _, o := range outcomes {
		if o.failure != nil {
			result.Failures = append(result.Failures, Failure{Path: o.path, Err: o.failure})
			logging.WithEntryContext(logger, "", o.path, "").Warn("collections.entry.excluded", "error", o.failure)
			continue
		}
		result.Entries = append(result.Entries, o.entry)
	}

	logger.Info("collections.load.complete", "entries", len(result.Entries), "failures", len(result.Failures))
	return result, nil
}

// outcome of reading one file. id is set whenever it could be derived,
// including for files that later failed validation.
type outcome struct {
	path    string
	id      string
	entry   Entry
	failure error
	err     error
}

// readAll reads paths with a bounded pool. Outcomes keep the order of paths.
func (l *Loader) readAll(ctx context.Context, files *markdown.Loader, c Collection, paths []string) ([]outcome, error) {
	outcomes := make([]outcome, len(paths))
	if len(paths) == 0 {
		return outcomes, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range l.effectiveWorkerCount(len(paths)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = l.readOne(ctx, files, c, paths[i])
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("collections: %s: %w", c.Name, o.err)
		}
	}
	return outcomes, nil
}

func (l *Loader) readOne(ctx context.Context, files *markdown.Loader, c Collection, rel string) outcome {
	doc, err := files.LoadFile(ctx, rel)
	if err != nil {
		if errors.Is(err, markdown.ErrFrontMatter) {
			return outcome{path: rel, failure: &MalformedDocumentError{Collection: c.Name, Path: rel, Err: err}}
		}
		return outcome{path: rel, err: err}
	}

	id, err := deriveID(rel, doc.FrontMatter)
	if err != nil {
		return outcome{path: rel, failure: &MalformedDocumentError{Collection: c.Name, Path: rel, Err: err}}
	}

	meta, err := c.Schema.Validate(doc.FrontMatter)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			verr = verr.WithPath(rel)
			verr.Collection = c.Name
			err = verr
		}
		return outcome{path: rel, id: id, failure: err}
	}

	return outcome{path: rel, id: id, entry: Entry{
		ID:           id,
		Collection:   c.Name,
		FilePath:     rel,
		Metadata:     meta,
		Body:         doc.Body,
		Checksum:     doc.Checksum,
		LastModified: doc.LastModified,
	}}
}

func (l *Loader) effectiveWorkerCount(files int) int {
	workers := l.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if files > 0 && workers > files {
		return files
	}
	return workers
}

var errEmptyID = errors.New("entry id is empty")

// deriveID normalises each path segment of rel, without its extension.
// A string slug in front matter replaces the path.
func deriveID(rel string, frontMatter map[string]any) (string, error) {
	source := strings.TrimSuffix(rel, path.Ext(rel))
	if override, ok := frontMatter[schema.SlugKey].(string); ok && strings.TrimSpace(override) != "" {
		source = strings.Trim(strings.TrimSpace(override), "/")
	}

	segments := strings.Split(source, "/")
	for i, segment := range segments {
		normalized, err := normalizeSegment(segment)
		if err != nil {
			return "", fmt.Errorf("normalise id segment %q: %w", segment, err)
		}
		if normalized == "" {
			return "", fmt.Errorf("%w: segment %q", errEmptyID, segment)
		}
		segments[i] = normalized
	}
	return strings.Join(segments, "/"), nil
}

// normalizeSegment transliterates through the go-slug charmap before
// stripping what is left outside [a-z0-9-]. Underscores separate words.
func normalizeSegment(segment string) (string, error) {
	transliterated, err := slug.HashNormalize(strings.ReplaceAll(segment, "_", " "))
	if err != nil {
		return "", err
	}
	return slug.Normalize(transliterated)
}

// checkDuplicates considers every file that yielded an id, valid or not,
// so an invalid file never hides a collision.
func checkDuplicates(collection string, outcomes []outcome) error {
	byID := make(map[string][]string, len(outcomes))
	for _, o := range outcomes {
		if o.id == "" {
			continue
		}
		byID[o.id] = append(byID[o.id], o.path)
	}
	var dups []string
	for id, paths := range byID {
		if len(paths) > 1 {
			dups = append(dups, id)
		}
	}
	if len(dups) == 0 {
		return nil
	}
	slices.Sort(dups)
	paths := slices.Clone(byID[dups[0]])
	slices.Sort(paths)
	return &DuplicateIDError{Collection: collection, ID: dups[0], Paths: paths}
}
