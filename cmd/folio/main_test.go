package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-folio/internal/collections"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/schema"
)

type stubHandlers struct {
	build    *stubBuildHandler
	feed     *stubFeedHandler
	validate *stubValidateHandler
	clean    *stubCleanHandler
}

type stubBuildHandler struct {
	last   sitecmd.BuildSiteCommand
	result *generator.BuildResult
	err    error
}

func (s *stubBuildHandler) Execute(ctx context.Context, msg sitecmd.BuildSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil && s.result != nil {
		result := *s.result
		result.DryRun = msg.DryRun
		msg.ResultCallback(sitecmd.ResultEnvelope{
			Result:   &result,
			Metadata: map[string]any{"operation": "build"},
		})
	}
	return s.err
}

type stubFeedHandler struct {
	last sitecmd.BuildFeedCommand
	err  error
}

func (s *stubFeedHandler) Execute(ctx context.Context, msg sitecmd.BuildFeedCommand) error {
	s.last = msg
	if s.err != nil {
		return s.err
	}
	if msg.ResultCallback != nil {
		msg.ResultCallback(sitecmd.FeedEnvelope{
			Format:   msg.Format,
			Document: []byte(fmt.Sprintf("<%s>%s</%s>", msg.Format, msg.Collection, msg.Format)),
		})
	}
	return nil
}

type stubValidateHandler struct {
	last   sitecmd.ValidateContentCommand
	report sitecmd.ValidationReport
}

func (s *stubValidateHandler) Execute(ctx context.Context, msg sitecmd.ValidateContentCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(s.report)
	}
	if s.report.Failures() > 0 {
		return errors.Join(sitecmd.ErrContentFailures, errors.New("file failures"))
	}
	return nil
}

type stubCleanHandler struct {
	calls int
	err   error
}

func (s *stubCleanHandler) Execute(ctx context.Context, msg sitecmd.CleanSiteCommand) error {
	s.calls++
	return s.err
}

var (
	activeStubHandlers *stubHandlers
	lastModuleOptions  moduleOptions
)

func withStubModule(t *testing.T) *stubHandlers {
	t.Helper()
	original := moduleBuilder
	stubs := &stubHandlers{
		build:    &stubBuildHandler{result: fixtureBuildResult()},
		feed:     &stubFeedHandler{},
		validate: &stubValidateHandler{},
		clean:    &stubCleanHandler{},
	}
	activeStubHandlers = stubs

	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		lastModuleOptions = opts
		out := opts.outputDir
		if out == "" {
			out = "dist"
		}
		return &moduleResources{
			handlers: handlerSet{
				build:    stubs.build,
				feed:     stubs.feed,
				validate: stubs.validate,
				clean:    stubs.clean,
			},
			outputDir: out,
		}, nil
	}

	t.Cleanup(func() {
		moduleBuilder = original
		activeStubHandlers = nil
		lastModuleOptions = moduleOptions{}
	})
	return stubs
}

func brokenPostFailure() collections.Failure {
	return collections.Failure{
		Path: "broken.md",
		Err: (&schema.ValidationError{
			Collection: "posts",
			Issues: []goerrors.FieldError{
				{Field: "pubDate", Message: "is required"},
				{Field: "title", Message: "is required"},
			},
		}).WithPath("broken.md"),
	}
}

func fixtureBuildResult() *generator.BuildResult {
	return &generator.BuildResult{
		Collections: []generator.CollectionReport{
			{Name: "newsletters", Entries: 2, Published: 2},
			{Name: "posts", Entries: 1, Published: 1, Failures: []collections.Failure{brokenPostFailure()}},
		},
		Artifacts: []generator.Artifact{
			{Path: "dist/news.xml", Size: 512},
			{Path: "dist/sitemap.xml", Size: 256},
		},
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunBuild_UsesCommandHandler(t *testing.T) {
	stubs := withStubModule(t)

	stdout, stderr, err := runCLI(t, "build", "--out", "public", "--dry-run", "--collection", "posts,newsletters", "--config", "site.yaml")
	if err != nil {
		t.Fatalf("run build: %v", err)
	}

	got := stubs.build.last
	if !got.DryRun || got.Strict {
		t.Fatalf("unexpected flags %+v", got)
	}
	if !slices.Equal(got.Collections, []string{"posts", "newsletters"}) {
		t.Fatalf("expected collections to propagate, got %v", got.Collections)
	}
	if lastModuleOptions.outputDir != "public" || lastModuleOptions.configPath != "site.yaml" {
		t.Fatalf("expected --out and --config to reach the module builder, got %+v", lastModuleOptions)
	}
	if !strings.Contains(stdout, "posts: 1 entries, 1 published, 1 failed") {
		t.Fatalf("expected collection summary, got %q", stdout)
	}
	if !strings.Contains(stdout, "would write dist/news.xml (512 bytes)") {
		t.Fatalf("expected dry run artifact listing, got %q", stdout)
	}
	if !strings.Contains(stderr, "posts/broken.md: title: is required") ||
		!strings.Contains(stderr, "posts/broken.md: pubDate: is required") {
		t.Fatalf("expected one failure line per field, got %q", stderr)
	}
}

func TestRunBuild_StrictFailureExitsWithError(t *testing.T) {
	stubs := withStubModule(t)
	stubs.build.err = fmt.Errorf("%w: 1 file(s) failed", generator.ErrStrictBuild)

	_, stderr, err := runCLI(t, "build", "--strict")
	if err == nil || !strings.Contains(err.Error(), "strict build aborted: 1 file(s) failed") {
		t.Fatalf("expected strict failure, got %v", err)
	}
	if !stubs.build.last.Strict {
		t.Fatal("expected strict flag to propagate")
	}
	if !strings.Contains(stderr, "posts/broken.md: title: is required") {
		t.Fatalf("expected failures to be printed, got %q", stderr)
	}
}

func TestRunBuild_PropagatesErrors(t *testing.T) {
	stubs := withStubModule(t)
	stubs.build.result = nil
	stubs.build.err = errors.New("boom")

	if _, _, err := runCLI(t, "build"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestRunFeed_WritesDocumentToStdout(t *testing.T) {
	stubs := withStubModule(t)

	stdout, _, err := runCLI(t, "feed", "newsletters")
	if err != nil {
		t.Fatalf("run feed: %v", err)
	}
	if stubs.feed.last.Collection != "newsletters" || stubs.feed.last.Format != sitecmd.FormatRSS {
		t.Fatalf("unexpected feed command %+v", stubs.feed.last)
	}
	if stdout != "<rss>newsletters</rss>" {
		t.Fatalf("expected rss document on stdout, got %q", stdout)
	}

	stdout, _, err = runCLI(t, "feed", "newsletters", "--format", "atom")
	if err != nil {
		t.Fatalf("run atom feed: %v", err)
	}
	if stdout != "<atom>newsletters</atom>" {
		t.Fatalf("expected atom document, got %q", stdout)
	}
}

func TestRunFeed_RequiresCollection(t *testing.T) {
	withStubModule(t)
	if _, _, err := runCLI(t, "feed"); err == nil {
		t.Fatal("expected an error without a collection argument")
	}
}

func TestRunFeed_UnknownCollection(t *testing.T) {
	stubs := withStubModule(t)
	stubs.feed.err = fmt.Errorf("%w: news", collections.ErrUnknownCollection)

	stdout, _, err := runCLI(t, "feed", "news")
	if !errors.Is(err, collections.ErrUnknownCollection) {
		t.Fatalf("expected unknown collection error, got %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected nothing on stdout, got %q", stdout)
	}
}

func TestRunValidate_ReportsFailures(t *testing.T) {
	stubs := withStubModule(t)
	stubs.validate.report = sitecmd.ValidationReport{Results: []*collections.Result{
		{Collection: "posts", Failures: []collections.Failure{brokenPostFailure()}},
	}}

	stdout, stderr, err := runCLI(t, "validate", "posts")
	if err == nil || !strings.Contains(err.Error(), "1 file(s) failed validation") {
		t.Fatalf("expected validation failure, got %v", err)
	}
	if !slices.Equal(stubs.validate.last.Collections, []string{"posts"}) {
		t.Fatalf("expected positional collections, got %v", stubs.validate.last.Collections)
	}
	if !strings.Contains(stdout, "posts: 0 valid, 1 failed") {
		t.Fatalf("expected summary, got %q", stdout)
	}
	if !strings.Contains(stderr, "posts/broken.md: title: is required") {
		t.Fatalf("expected failure lines, got %q", stderr)
	}
}

func TestRunValidate_CleanContent(t *testing.T) {
	stubs := withStubModule(t)
	stubs.validate.report = sitecmd.ValidationReport{Results: []*collections.Result{
		{Collection: "posts", Entries: []collections.Entry{{ID: "hello"}}},
	}}

	stdout, _, err := runCLI(t, "validate")
	if err != nil {
		t.Fatalf("run validate: %v", err)
	}
	if len(stubs.validate.last.Collections) != 0 {
		t.Fatalf("expected every collection to be checked, got %v", stubs.validate.last.Collections)
	}
	if !strings.Contains(stdout, "posts: 1 valid, 0 failed") {
		t.Fatalf("expected summary, got %q", stdout)
	}
}

func TestRunClean_UsesCommandHandler(t *testing.T) {
	stubs := withStubModule(t)

	stdout, _, err := runCLI(t, "clean", "--out", "public")
	if err != nil {
		t.Fatalf("run clean: %v", err)
	}
	if stubs.clean.calls != 1 {
		t.Fatalf("expected clean handler called once, got %d", stubs.clean.calls)
	}
	if !strings.Contains(stdout, "removed public") {
		t.Fatalf("expected clean output, got %q", stdout)
	}
}

func TestRun_ErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	for _, args := range [][]string{{"build"}, {"feed", "posts"}, {"validate"}, {"clean"}} {
		if _, _, err := runCLI(t, args...); err == nil || !strings.Contains(err.Error(), "not configured") {
			t.Fatalf("%v: expected handler error, got %v", args, err)
		}
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if _, _, err := runCLI(t, "unknown"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestFailureLines_MalformedDocument(t *testing.T) {
	lines := failureLines("posts", collections.Failure{
		Path: "bad.md",
		Err:  &collections.MalformedDocumentError{Collection: "posts", Path: "bad.md", Err: errors.New("yaml: line 2: did not find expected key")},
	})
	if len(lines) != 1 || lines[0] != "posts/bad.md: front-matter: yaml: line 2: did not find expected key" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestRunBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	writeFile(t, filepath.Join(content, "newsletters", "issue-1.md"), "---\ntitle: Issue 1\npubDate: 2024-03-01\ntags: [typescript]\ndescription: First issue\n---\n# Issue 1\n")
	writeFile(t, filepath.Join(content, "posts", "hello.md"), "---\ntitle: Hello\npubDate: 2024-01-01\ntags: [go]\n---\nHello\n")
	writeFile(t, filepath.Join(content, "posts", "broken.md"), "---\ntags: [go]\n---\nNo title\n")

	out := filepath.Join(dir, "site", "dist")
	config := filepath.Join(dir, "folio.yaml")
	writeFile(t, config, fmt.Sprintf("content:\n  dir: %q\ngenerator:\n  output_dir: %q\nlogging:\n  level: error\n", content, out))

	stdout, stderr, err := runCLI(t, "build", "--config", config)
	if err != nil {
		t.Fatalf("run build: %v (stderr %q)", err, stderr)
	}
	if !strings.Contains(stderr, "posts/broken.md: title: is required") {
		t.Fatalf("expected broken post to be reported, got %q", stderr)
	}
	if !strings.Contains(stdout, "newsletters: 1 entries, 1 published, 0 failed") {
		t.Fatalf("expected summary, got %q", stdout)
	}

	rss, err := os.ReadFile(filepath.Join(out, "news.xml"))
	if err != nil {
		t.Fatalf("read feed: %v", err)
	}
	if !strings.Contains(string(rss), "<link>https://parda.me/newsletters/issue-1/</link>") {
		t.Fatalf("unexpected feed %s", rss)
	}
	for _, name := range []string{"news.atom.xml", "sitemap.xml", "robots.txt", "posts/index.json", "data/projects.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	if _, _, err := runCLI(t, "build", "--config", config, "--strict"); err == nil {
		t.Fatal("expected strict build to fail on the broken post")
	}

	stdout, _, err = runCLI(t, "feed", "newsletters", "--config", config)
	if err != nil {
		t.Fatalf("run feed: %v", err)
	}
	if !strings.Contains(stdout, `<rss version="2.0">`) || !strings.Contains(stdout, "<language>en-us</language>") {
		t.Fatalf("expected rss on stdout, got %s", stdout)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
