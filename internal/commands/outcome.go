package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// TelemetryStatus is how a site command finished.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

func statusOf(err error) TelemetryStatus {
	switch {
	case err == nil:
		return TelemetryStatusSuccess
	case isContextError(err):
		return TelemetryStatusContextError
	default:
		return TelemetryStatusFailed
	}
}

// TelemetryInfo is handed to a Telemetry callback once per Execute. Fields
// holds the command, operation and message fields, e.g. collections or
// dry_run for a build.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry observes command outcomes.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// LogOutcome emits one command.outcome entry per execution. Failures carry
// the go-errors category and text code so a failed build can be told apart
// from bad content or a cancelled run.
func LogOutcome[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = logging.OrNoOp(logger)
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger.WithContext(ctx), info.Fields), info)
	}
}

func logOutcome(logger interfaces.Logger, info TelemetryInfo) {
	args := []any{"status", string(info.Status), "duration_ms", info.Duration.Milliseconds()}
	if info.Status == TelemetryStatusSuccess {
		logger.Info("command.outcome", args...)
		return
	}
	args = append(args, "error", info.Error, "category", Category(info.Error).String())
	var rich *goerrors.Error
	if goerrors.As(info.Error, &rich) && rich.TextCode != "" {
		args = append(args, "text_code", rich.TextCode)
	}
	logger.Error("command.outcome", args...)
}
