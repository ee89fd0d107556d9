package generator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

const (
	storageOpEnsureDir = "generator.ensure_dir"
	storageOpWrite     = "generator.write"
	storageOpRemove    = "generator.remove"
)

type writeCategory string

const (
	categoryFeed    writeCategory = "feed"
	categorySitemap writeCategory = "sitemap"
	categoryRobots  writeCategory = "robots"
	categoryIndex   writeCategory = "index"
	categoryData    writeCategory = "data"
)

// Storage receives generated artifacts. Paths are slash separated and
// relative to the storage root.
type Storage interface {
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, name string, data []byte) error
	RemoveAll(ctx context.Context, dir string) error
}

// Artifact records one file written by a build.
type Artifact struct {
	Path        string `json:"path"`
	Category    string `json:"category"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
}

// writeFileRequest describes a file write routed through the artifact writer.
type writeFileRequest struct {
	Path        string
	Content     []byte
	Category    writeCategory
	ContentType string
}

// artifactWriter creates parent directories once per build and records
// every artifact it writes.
type artifactWriter struct {
	storage   Storage
	dirs      map[string]struct{}
	artifacts []Artifact
}

func newArtifactWriter(storage Storage) *artifactWriter {
	return &artifactWriter{storage: storage, dirs: map[string]struct{}{}}
}

func (w *artifactWriter) write(ctx context.Context, req writeFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.ensureDir(ctx, path.Dir(req.Path)); err != nil {
		return err
	}
	if err := w.storage.WriteFile(ctx, req.Path, req.Content); err != nil {
		return fmt.Errorf("%s %s: %w", storageOpWrite, req.Path, err)
	}
	w.artifacts = append(w.artifacts, Artifact{
		Path:        req.Path,
		Category:    string(req.Category),
		ContentType: req.ContentType,
		Size:        int64(len(req.Content)),
		Checksum:    computeHash(req.Content),
	})
	return nil
}

func (w *artifactWriter) ensureDir(ctx context.Context, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.storage.EnsureDir(ctx, dir); err != nil {
		return fmt.Errorf("%s %s: %w", storageOpEnsureDir, dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

// FilesystemStorage writes artifacts below a root directory on disk. Names
// are cleaned so they never resolve outside the root.
type FilesystemStorage struct {
	root string
}

func NewFilesystemStorage(root string) *FilesystemStorage {
	return &FilesystemStorage{root: root}
}

func (s *FilesystemStorage) Root() string {
	return s.root
}

func (s *FilesystemStorage) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(s.resolve(dir), 0o755)
}

func (s *FilesystemStorage) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := s.resolve(name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s *FilesystemStorage) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.resolve(dir)); err != nil {
		return fmt.Errorf("%s %s: %w", storageOpRemove, dir, err)
	}
	return nil
}

func (s *FilesystemStorage) resolve(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+name)))
}

// MemoryStorage keeps artifacts in memory. It backs dry runs and tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		files: map[string][]byte{},
		dirs:  map[string]struct{}{},
	}
}

func (s *MemoryStorage) EnsureDir(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirs[cleanKey(dir)] = struct{}{}
	return nil
}

func (s *MemoryStorage) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[cleanKey(name)] = slices.Clone(data)
	return nil
}

func (s *MemoryStorage) RemoveAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := cleanKey(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.files {
		if within(name, prefix) {
			delete(s.files, name)
		}
	}
	for name := range s.dirs {
		if within(name, prefix) {
			delete(s.dirs, name)
		}
	}
	return nil
}

// ReadFile returns a copy of a stored file.
func (s *MemoryStorage) ReadFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[cleanKey(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

// Files lists stored file paths in sorted order.
func (s *MemoryStorage) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func cleanKey(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

func within(name, prefix string) bool {
	return prefix == "" || name == prefix || strings.HasPrefix(name, prefix+"/")
}
