package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/mock"
	minslog "github.com/marv1nnnnn/llmmin/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCheckpointStore(t *testing.T) {
	t.Parallel()

	t.Run("logs save with document and record count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CheckpointStore{
			SaveFn: func(ctx context.Context, cp *llmmin.Checkpoint) error { return nil },
		}

		store := minslog.NewLoggingCheckpointStore(inner, logger)
		set := llmmin.NewAIUSet()
		set.Put(&llmmin.AIU{ID: "a1", Kind: llmmin.KindFunction, Name: "fn"})
		err := store.Save(context.Background(), &llmmin.Checkpoint{
			DocumentID: "requests", ChunkIndex: 3, Set: set,
		})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "checkpoint save")
		assert.Contains(t, output, "document=requests")
		assert.Contains(t, output, "chunk=3")
		assert.Contains(t, output, "records=1")
	})

	t.Run("logs missing checkpoint at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CheckpointStore{
			LoadLatestFn: func(ctx context.Context, documentID string) (*llmmin.Checkpoint, error) {
				return nil, llmmin.Errorf(llmmin.ENOTFOUND, "no checkpoint")
			},
		}

		store := minslog.NewLoggingCheckpointStore(inner, logger)
		_, err := store.LoadLatest(context.Background(), "missing")

		require.Error(t, err)
		// Default handler level is info, so the debug line is suppressed.
		assert.Empty(t, buf.String())
	})

	t.Run("logs clear", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.CheckpointStore{
			ClearFn: func(ctx context.Context, documentID string) error { return nil },
		}

		store := minslog.NewLoggingCheckpointStore(inner, logger)
		require.NoError(t, store.Clear(context.Background(), "requests"))
		assert.Contains(t, buf.String(), "checkpoint clear")
	})
}
