package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultPattern matches Markdown files at any depth below the base.
const DefaultPattern = "**/*.md"

// LoaderConfig configures discovery below BasePath.
type LoaderConfig struct {
	BasePath string
	Pattern  string
}

// Loader discovers and reads Markdown documents from a filesystem.
type Loader struct {
	fs       fs.FS
	basePath string
	pattern  string
	matchers []glob.Glob
}

// NewLoader compiles cfg.Pattern. "**" spans directories, "*" does not; a
// leading "**/" also matches files directly under BasePath.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) (*Loader, error) {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	base := path.Clean(strings.Trim(strings.TrimSpace(cfg.BasePath), "/"))
	if base == "" {
		base = "."
	}

	variants := []string{pattern}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		variants = append(variants, rest)
	}
	matchers := make([]glob.Glob, 0, len(variants))
	for _, variant := range variants {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, fmt.Errorf("markdown loader: invalid pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}

	return &Loader{fs: filesystem, basePath: base, pattern: pattern, matchers: matchers}, nil
}

// BasePath returns the cleaned base directory.
func (l *Loader) BasePath() string { return l.basePath }

// Pattern returns the effective discovery pattern.
func (l *Loader) Pattern() string { return l.pattern }

// Match reports whether rel, relative to the base, matches the pattern.
func (l *Loader) Match(rel string) bool {
	for _, m := range l.matchers {
		if m.Match(rel) {
			return true
		}
	}
	return false
}

// Discover walks the base directory and returns matching paths relative to
// it, sorted lexicographically.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	var out []string
	err := fs.WalkDir(l.fs, l.basePath, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := l.relative(p)
		if l.Match(rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("markdown loader walk %s: %w", l.basePath, err)
	}
	slices.Sort(out)
	return out, nil
}

// LoadFile reads and parses rel. Read failures are returned as wrapped I/O
// errors; parse failures wrap ErrFrontMatter.
func (l *Loader) LoadFile(ctx context.Context, rel string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := path.Join(l.basePath, rel)
	data, err := fs.ReadFile(l.fs, full)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", full, err)
	}
	info, err := fs.Stat(l.fs, full)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", full, err)
	}
	return BuildDocument(rel, data, info.ModTime())
}

func (l *Loader) relative(p string) string {
	if l.basePath == "." {
		return p
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, l.basePath), "/")
}
