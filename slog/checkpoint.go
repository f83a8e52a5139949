package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/marv1nnnnn/llmmin"
)

// Ensure LoggingCheckpointStore implements llmmin.CheckpointStore.
var _ llmmin.CheckpointStore = (*LoggingCheckpointStore)(nil)

// LoggingCheckpointStore wraps a CheckpointStore with per-call logging.
type LoggingCheckpointStore struct {
	next   llmmin.CheckpointStore
	logger *slog.Logger
}

// NewLoggingCheckpointStore creates a new LoggingCheckpointStore.
func NewLoggingCheckpointStore(next llmmin.CheckpointStore, logger *slog.Logger) *LoggingCheckpointStore {
	return &LoggingCheckpointStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingCheckpointStore) Save(ctx context.Context, cp *llmmin.Checkpoint) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("checkpoint save",
			"document", cp.DocumentID,
			"chunk", cp.ChunkIndex,
			"records", cp.Set.Len(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, cp)
}

// LoadLatest delegates to the wrapped store and logs the operation.
// Missing checkpoints are logged at debug level since they are routine.
func (s *LoggingCheckpointStore) LoadLatest(ctx context.Context, documentID string) (cp *llmmin.Checkpoint, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if llmmin.ErrorCode(err) == llmmin.ENOTFOUND {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "checkpoint load",
			"document", documentID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadLatest(ctx, documentID)
}

// Clear delegates to the wrapped store and logs the operation.
func (s *LoggingCheckpointStore) Clear(ctx context.Context, documentID string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("checkpoint clear",
			"document", documentID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Clear(ctx, documentID)
}
