package collections

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-folio/internal/schema"
)

func post(title, date string, extra string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(fmt.Sprintf("---\ntitle: %s\npubDate: %s\ntags: [go]\n%s---\nBody of %s\n", title, date, extra, title))}
}

func newTestLoader(files fstest.MapFS, workers int) *Loader {
	return NewLoader(files, schema.DefaultRegistry(), Config{ContentDir: "content", Workers: workers})
}

func TestLoadProducesSortedEntries(t *testing.T) {
	files := fstest.MapFS{
		"content/posts/2024-01-01-hello.md": post("Hello", "2024-01-01", ""),
		"content/posts/2023/recap.md":       post("Recap", "2023-12-31", "draft: true\n"),
		"content/posts/b-side.md":           post("B", "2024-02-01", ""),
	}

	result, err := newTestLoader(files, 2).Load(context.Background(), "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures %v", result.Failures)
	}

	var ids, paths []string
	for _, e := range result.Entries {
		ids = append(ids, e.ID)
		paths = append(paths, e.FilePath)
	}
	if !reflect.DeepEqual(paths, []string{"2023/recap.md", "2024-01-01-hello.md", "b-side.md"}) {
		t.Fatalf("unexpected order %v", paths)
	}
	if !reflect.DeepEqual(ids, []string{"2023/recap", "2024-01-01-hello", "b-side"}) {
		t.Fatalf("unexpected ids %v", ids)
	}

	hello := result.Entries[1]
	if hello.Collection != "posts" || hello.Title() != "Hello" {
		t.Fatalf("unexpected entry %#v", hello)
	}
	if !hello.PubDate().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected pubDate %v", hello.PubDate())
	}
	if !reflect.DeepEqual(hello.Tags(), []string{"go"}) || hello.Draft() {
		t.Fatalf("unexpected metadata %#v", hello.Metadata)
	}
	if string(hello.Body) != "Body of Hello\n" {
		t.Fatalf("unexpected body %q", hello.Body)
	}
	if hello.Checksum == "" {
		t.Fatal("expected checksum")
	}
	if !result.Entries[0].Draft() {
		t.Fatal("expected draft flag on recap")
	}
}

func TestLoadExcludesInvalidFiles(t *testing.T) {
	files := fstest.MapFS{
		"content/posts/a.md":      post("A", "2024-01-01", ""),
		"content/posts/b.md":      {Data: []byte("---\npubDate: 2024-01-01\ntags: []\n---\nno title\n")},
		"content/posts/c.md":      post("C", "2024-01-03", ""),
		"content/posts/broken.md": {Data: []byte("---\ntitle: [oops\n---\n")},
	}

	result, err := newTestLoader(files, 0).Load(context.Background(), "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %v", result.Failures)
	}

	if result.Failures[0].Path != "b.md" {
		t.Fatalf("unexpected failure order %v", result.Failures)
	}
	var verr *schema.ValidationError
	if !errors.As(result.Failures[0], &verr) {
		t.Fatalf("expected validation error, got %v", result.Failures[0].Err)
	}
	if verr.Path != "b.md" || verr.Collection != "posts" || !reflect.DeepEqual(verr.Fields(), []string{"title"}) {
		t.Fatalf("unexpected validation error %#v", verr)
	}

	var merr *MalformedDocumentError
	if !errors.As(result.Failures[1], &merr) || merr.Path != "broken.md" {
		t.Fatalf("expected malformed document error, got %v", result.Failures[1].Err)
	}
	if !errors.Is(result.Failures[1], ErrMalformedDocument) {
		t.Fatal("expected ErrMalformedDocument sentinel")
	}
}

func TestLoadDuplicateIDAborts(t *testing.T) {
	files := fstest.MapFS{
		"content/posts/hello.md":   post("Hello", "2024-01-01", ""),
		"content/posts/another.md": post("Another", "2024-01-02", "slug: hello\n"),
		"content/posts/other.md":   post("Other", "2024-01-03", ""),
	}

	result, err := newTestLoader(files, 4).Load(context.Background(), "posts")
	if result != nil {
		t.Fatal("expected no partial result")
	}
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	if dup.ID != "hello" || !reflect.DeepEqual(dup.Paths, []string{"another.md", "hello.md"}) {
		t.Fatalf("unexpected duplicate %#v", dup)
	}
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatal("expected ErrDuplicateID sentinel")
	}
}

func TestLoadDuplicateIDIncludesInvalidFiles(t *testing.T) {
	files := fstest.MapFS{
		"content/posts/hello.md": post("Hello", "2024-01-01", ""),
		"content/posts/Hello.md": {Data: []byte("---\ntitle: Shadow\ntags: [go]\n---\nno date\n")},
	}

	result, err := newTestLoader(files, 2).Load(context.Background(), "posts")
	if result != nil {
		t.Fatal("expected no partial result")
	}
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	if dup.ID != "hello" || !reflect.DeepEqual(dup.Paths, []string{"Hello.md", "hello.md"}) {
		t.Fatalf("unexpected duplicate %#v", dup)
	}
}

func TestLoadTransliteratesFilenames(t *testing.T) {
	files := fstest.MapFS{
		"content/posts/Zażółć gęślą.md": post("Jaźń", "2024-03-01", ""),
		"content/posts/snake_case.md":   post("Snake", "2024-03-02", ""),
	}

	result, err := newTestLoader(files, 1).Load(context.Background(), "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	routes := map[string]string{}
	for _, e := range result.Entries {
		routes[e.ID] = e.Route()
	}
	want := map[string]string{
		"zazolc-gesla": "/posts/zazolc-gesla/",
		"snake-case":   "/posts/snake-case/",
	}
	if !reflect.DeepEqual(routes, want) {
		t.Fatalf("unexpected routes %v", routes)
	}
}

func TestLoadUnknownCollection(t *testing.T) {
	_, err := newTestLoader(fstest.MapFS{}, 1).Load(context.Background(), "news")
	if !errors.Is(err, ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestLoadMissingBaseDirectory(t *testing.T) {
	_, err := newTestLoader(fstest.MapFS{}, 1).Load(context.Background(), "newsletters")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

func TestLoadHonoursCollectionConfig(t *testing.T) {
	files := fstest.MapFS{
		"content/letters/one.md":      post("One", "2024-01-01", ""),
		"content/letters/drafts/x.md": post("X", "2024-01-01", ""),
	}
	loader := NewLoader(files, schema.DefaultRegistry(), Config{
		ContentDir:  "content",
		Collections: []CollectionConfig{{Name: "newsletters", Base: "letters", Pattern: "*.md"}},
	})

	result, err := loader.Load(context.Background(), "newsletters")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].ID != "one" {
		t.Fatalf("unexpected entries %#v", result.Entries)
	}
	if result.Entries[0].Description() != "" {
		t.Fatal("expected empty description default")
	}
}

func TestLoadIsDeterministicAcrossWorkerCounts(t *testing.T) {
	files := fstest.MapFS{}
	for i := range 20 {
		files[fmt.Sprintf("content/posts/p-%02d.md", i)] = post(fmt.Sprintf("P%d", i), "2024-01-01", "")
	}

	first, err := newTestLoader(files, 1).Load(context.Background(), "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := newTestLoader(files, 8).Load(context.Background(), "posts")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(first.Entries) != 20 || !reflect.DeepEqual(first.Entries, second.Entries) {
		t.Fatal("expected identical results regardless of worker count")
	}
}

func TestLoadCancelled(t *testing.T) {
	files := fstest.MapFS{"content/posts/a.md": post("A", "2024-01-01", "")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestLoader(files, 1).Load(ctx, "posts"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadCollectionAdHoc(t *testing.T) {
	files := fstest.MapFS{"notes/n.md": {Data: []byte("---\ntitle: Note\n---\n")}}
	loader := NewLoader(files, schema.NewRegistry(), Config{})

	result, err := loader.LoadCollection(context.Background(), Collection{
		Name:   "notes",
		Schema: schema.Schema{Fields: []schema.Field{{Name: "title", Type: schema.TypeString}}},
	})
	if err != nil {
		t.Fatalf("LoadCollection: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Route() != "/notes/n/" {
		t.Fatalf("unexpected entries %#v", result.Entries)
	}
}
