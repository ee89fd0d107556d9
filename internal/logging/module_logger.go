package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	rootModule        = "folio"
	collectionsModule = "folio.collections"
	feedsModule       = "folio.feeds"
	generatorModule   = "folio.generator"
	commandsModule    = "folio.commands"
)

const (
	fieldCollection = "collection"
	fieldPath       = "path"
	fieldEntryID    = "entry_id"
)

// ModuleLogger returns the logger registered under module, tagged with a
// "module" field. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// CollectionsLogger scopes entries emitted while loading collections.
func CollectionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, collectionsModule)
}

// FeedsLogger scopes entries emitted by the feed serializer.
func FeedsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, feedsModule)
}

// GeneratorLogger scopes entries emitted during site builds.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// CommandsLogger scopes entries emitted by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithEntryContext attaches collection, source path and entry id fields,
// skipping blank values.
func WithEntryContext(logger interfaces.Logger, collection, path, entryID string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(collection); v != "" {
		fields[fieldCollection] = v
	}
	if v := strings.TrimSpace(path); v != "" {
		fields[fieldPath] = v
	}
	if v := strings.TrimSpace(entryID); v != "" {
		fields[fieldEntryID] = v
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
