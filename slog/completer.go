// Package slog provides logging decorators for llmmin services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/marv1nnnnn/llmmin"
)

// Ensure LoggingCompleter implements llmmin.Completer.
var _ llmmin.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with per-call logging.
type LoggingCompleter struct {
	next   llmmin.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next llmmin.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the operation.
func (c *LoggingCompleter) Complete(ctx context.Context, prompt string, maxOutputTokens int) (response string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("completion",
			"prompt_bytes", len(prompt),
			"response_bytes", len(response),
			"max_output_tokens", maxOutputTokens,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, prompt, maxOutputTokens)
}
