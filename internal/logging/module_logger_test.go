package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := ModuleLogger(nil, collectionsModule)
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("dropped")
}

func TestModuleLoggerTagsModule(t *testing.T) {
	tests := []struct {
		name   string
		get    func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"collections", CollectionsLogger, collectionsModule},
		{"feeds", FeedsLogger, feedsModule},
		{"generator", GeneratorLogger, generatorModule},
		{"commands", CommandsLogger, commandsModule},
		{"root", func(p interfaces.LoggerProvider) interfaces.Logger { return ModuleLogger(p, " ") }, rootModule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingLogger{}
			provider := &stubProvider{logger: rec}
			tt.get(provider)
			if len(provider.requested) != 1 || provider.requested[0] != tt.module {
				t.Fatalf("expected request for %s, got %v", tt.module, provider.requested)
			}
			if len(rec.fields) != 1 || rec.fields[0]["module"] != tt.module {
				t.Fatalf("expected module field %s, got %v", tt.module, rec.fields)
			}
		})
	}
}

func TestWithEntryContextSkipsBlankValues(t *testing.T) {
	rec := &recordingLogger{}
	WithEntryContext(rec, "posts", " ", "hello")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldCollection] != "posts" || got[fieldEntryID] != "hello" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldPath]; ok {
		t.Fatalf("blank path should be skipped, got %v", got)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build": "b1"})
	ctx = ContextWithFields(ctx, map[string]any{"collection": "posts"})

	fields := ContextFields(ctx)
	if fields["build"] != "b1" || fields["collection"] != "posts" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["build"] = "mutated"
	if ContextFields(ctx)["build"] != "b1" {
		t.Fatal("ContextFields must return a copy")
	}
}
