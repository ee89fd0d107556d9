package commands

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-folio/internal/collections"
	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/schema"
)

const (
	commandValidationCode   = "COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "COMMAND_EXECUTION_FAILED"

	contentValidationCode = "CONTENT_VALIDATION_FAILED"
	malformedDocumentCode = "CONTENT_MALFORMED_DOCUMENT"
	duplicateIDCode       = "CONTENT_DUPLICATE_ID"
	unknownCollectionCode = "CONTENT_UNKNOWN_COLLECTION"
	feedConstructionCode  = "FEED_CONSTRUCTION_FAILED"
	strictBuildCode       = "BUILD_STRICT_FAILURES"
)

type classification struct {
	sentinel error
	category goerrors.Category
	code     string
	message  string
}

// Checked in order; the first sentinel matched by errors.Is wins.
var classifications = []classification{
	{collections.ErrUnknownCollection, goerrors.CategoryNotFound, unknownCollectionCode, "unknown collection"},
	{collections.ErrDuplicateID, goerrors.CategoryConflict, duplicateIDCode, "duplicate entry id"},
	{feeds.ErrFeedConstruction, goerrors.CategoryBadInput, feedConstructionCode, "feed construction failed"},
	{generator.ErrStrictBuild, goerrors.CategoryValidation, strictBuildCode, "strict build failed"},
	{collections.ErrMalformedDocument, goerrors.CategoryBadInput, malformedDocumentCode, "malformed document"},
	{schema.ErrValidation, goerrors.CategoryValidation, contentValidationCode, "content validation failed"},
}

// Category reports the go-errors category of err: its own when already
// wrapped, the category mapped to its domain sentinel otherwise, and
// CategoryInternal as a fallback.
func Category(err error) goerrors.Category {
	if err == nil {
		return ""
	}
	var wrapped *goerrors.Error
	if errors.As(err, &wrapped) {
		return wrapped.Category
	}
	if c, ok := classify(err); ok {
		return c.category
	}
	return goerrors.CategoryInternal
}

func classify(err error) (classification, bool) {
	for _, c := range classifications {
		if errors.Is(err, c.sentinel) {
			return c, true
		}
	}
	return classification{}, false
}

// validateMessage runs the message's own Validate so ozzo field errors
// survive into the go-errors envelope. Anything else ValidateMessage
// rejects, such as a nil pointer, is returned as go-command wrapped it.
func validateMessage(msg any) error {
	if v, ok := msg.(interface{ Validate() error }); ok && !command.IsNilMessage(msg) {
		if err := v.Validate(); err != nil {
			return goerrors.FromOzzoValidation(err, "command validation failed").
				WithTextCode(commandValidationCode)
		}
	}
	return wrapValidationError(command.ValidateMessage(msg))
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "command validation failed").
		WithTextCode(commandValidationCode)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

// wrapExecuteError tags domain failures with their category so callers can
// branch on goerrors.IsCategory. The source error stays reachable through
// errors.Is and errors.As.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if c, ok := classify(err); ok {
		return goerrors.Wrap(err, c.category, c.message).WithTextCode(c.code)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(commandExecuteFailed)
}
