package extensibility

import (
	"context"
	"log/slog"
	"time"

	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/logger"
)

// DefaultActionRunner runs the action and turns a panic into a
// *core.ActionPanicError, so a failing action never takes the loop down.
type DefaultActionRunner struct{}

// Run executes the given action.
func (r *DefaultActionRunner) Run(_ context.Context, name string, action core.Action) error {
	return core.RunRecovered(name, action)
}

// LoggingActionRunner wraps an ActionRunner and adds logging around execution.
type LoggingActionRunner struct {
	inner  core.ActionRunner
	logger *slog.Logger
}

// NewLoggingActionRunner creates a new LoggingActionRunner wrapping the given
// inner runner. A nil inner uses DefaultActionRunner; a nil log uses slog.Default.
func NewLoggingActionRunner(inner core.ActionRunner, log *slog.Logger) *LoggingActionRunner {
	if inner == nil {
		inner = &DefaultActionRunner{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &LoggingActionRunner{inner: inner, logger: log}
}

// Run logs before and after delegating to the inner runner.
func (r *LoggingActionRunner) Run(ctx context.Context, name string, action core.Action) error {
	r.logger.DebugContext(ctx, "executing action", logger.Action(name))
	start := time.Now()
	err := r.inner.Run(ctx, name, action)
	if err != nil {
		r.logger.WarnContext(ctx, "action completed with error",
			logger.Action(name), logger.Duration(time.Since(start)), logger.Error(err))
		return err
	}
	r.logger.DebugContext(ctx, "action completed", logger.Action(name), logger.Duration(time.Since(start)))
	return nil
}
