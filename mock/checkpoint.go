package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is a mock implementation of llmmin.CheckpointStore.
type CheckpointStore struct {
	SaveFn       func(ctx context.Context, cp *llmmin.Checkpoint) error
	LoadLatestFn func(ctx context.Context, documentID string) (*llmmin.Checkpoint, error)
	ClearFn      func(ctx context.Context, documentID string) error
}

func (s *CheckpointStore) Save(ctx context.Context, cp *llmmin.Checkpoint) error {
	return s.SaveFn(ctx, cp)
}

func (s *CheckpointStore) LoadLatest(ctx context.Context, documentID string) (*llmmin.Checkpoint, error) {
	return s.LoadLatestFn(ctx, documentID)
}

func (s *CheckpointStore) Clear(ctx context.Context, documentID string) error {
	return s.ClearFn(ctx, documentID)
}
