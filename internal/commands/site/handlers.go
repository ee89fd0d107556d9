// Package sitecmd exposes the folio build pipeline as go-command messages
// and handlers.
package sitecmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/commands"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

var (
	// ErrContentFailures is returned by ValidateContentHandler when files were
	// excluded. It is joined with every file failure.
	ErrContentFailures = errors.New("site: content has failures")
	errServiceRequired = errors.New("site: service is required")
)

// FeedService builds the feed of a collection. *feeds.Service satisfies it.
type FeedService interface {
	Build(ctx context.Context, collection string) (*feeds.Feed, error)
}

// ContentLoader loads configured collections. *collections.Loader satisfies it.
type ContentLoader interface {
	Names() []string
	Load(ctx context.Context, name string) (*collections.Result, error)
}

// BuildSiteHandler orchestrates generator builds using the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if service == nil {
			return errServiceRequired
		}
		result, err := service.Build(ctx, generator.BuildOptions{
			Collections: normalizeNames(msg.Collections),
			DryRun:      msg.DryRun,
			Strict:      msg.Strict,
		})
		if result != nil {
			invokeCallback(msg.ResultCallback, ResultEnvelope{
				Result: result,
				Metadata: map[string]any{
					"operation": "build",
				},
			})
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("site.build"),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Collections) > 0 {
				fields["collections"] = strings.Join(msg.Collections, ",")
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.LogOutcome[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BuildFeedHandler renders the feed of a single collection.
type BuildFeedHandler struct {
	inner *commands.Handler[BuildFeedCommand]
}

// NewBuildFeedHandler constructs a handler wired to the provided feed service.
func NewBuildFeedHandler(service FeedService, logger interfaces.Logger, opts ...commands.HandlerOption[BuildFeedCommand]) *BuildFeedHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg BuildFeedCommand) error {
		if service == nil {
			return errServiceRequired
		}
		feed, err := service.Build(ctx, strings.TrimSpace(msg.Collection))
		if err != nil {
			return err
		}

		envelope := FeedEnvelope{Feed: feed, Format: FormatRSS, ContentType: feeds.RSSContentType}
		if msg.Format == FormatAtom {
			envelope.Format = FormatAtom
			envelope.ContentType = feeds.AtomContentType
			envelope.Document, err = feed.Atom()
		} else {
			envelope.Document, err = feed.RSS()
		}
		if err != nil {
			return fmt.Errorf("site: render %s feed: %w", envelope.Format, err)
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(envelope)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildFeedCommand]{
		commands.WithLogger[BuildFeedCommand](baseLogger),
		commands.WithOperation[BuildFeedCommand]("site.feed"),
		commands.WithMessageFields(func(msg BuildFeedCommand) map[string]any {
			return map[string]any{"collection": msg.Collection}
		}),
		commands.WithTelemetry(commands.LogOutcome[BuildFeedCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildFeedHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildFeedCommand].
func (h *BuildFeedHandler) Execute(ctx context.Context, msg BuildFeedCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ValidateContentHandler loads collections and reports excluded files.
type ValidateContentHandler struct {
	inner *commands.Handler[ValidateContentCommand]
}

// NewValidateContentHandler constructs a handler wired to the provided loader.
func NewValidateContentHandler(loader ContentLoader, logger interfaces.Logger, opts ...commands.HandlerOption[ValidateContentCommand]) *ValidateContentHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg ValidateContentCommand) error {
		if loader == nil {
			return errServiceRequired
		}
		names := normalizeNames(msg.Collections)
		if len(names) == 0 {
			names = loader.Names()
		}

		report := ValidationReport{Results: make([]*collections.Result, 0, len(names))}
		var failures []error
		for _, name := range names {
			result, err := loader.Load(ctx, name)
			if err != nil {
				return err
			}
			report.Results = append(report.Results, result)
			for _, failure := range result.Failures {
				failures = append(failures, failure)
			}
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(report)
		}
		if len(failures) > 0 {
			return errors.Join(append([]error{ErrContentFailures}, failures...)...)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ValidateContentCommand]{
		commands.WithLogger[ValidateContentCommand](baseLogger),
		commands.WithOperation[ValidateContentCommand]("site.validate"),
		commands.WithMessageFields(func(msg ValidateContentCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Collections) > 0 {
				fields["collections"] = strings.Join(msg.Collections, ",")
			}
			return fields
		}),
		commands.WithTelemetry(commands.LogOutcome[ValidateContentCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ValidateContentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ValidateContentCommand].
func (h *ValidateContentHandler) Execute(ctx context.Context, msg ValidateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler clears generator artifacts.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteCommand]
}

// NewCleanSiteHandler constructs a handler that cleans generator output.
func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, _ CleanSiteCommand) error {
		if service == nil {
			return errServiceRequired
		}
		return service.Clean(ctx)
	}

	handlerOpts := []commands.HandlerOption[CleanSiteCommand]{
		commands.WithLogger[CleanSiteCommand](baseLogger),
		commands.WithOperation[CleanSiteCommand]("site.clean"),
		commands.WithTelemetry(commands.LogOutcome[CleanSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanSiteCommand].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func normalizeNames(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, name := range values {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
