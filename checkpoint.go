package llmmin

import "context"

// Checkpoint is a persisted snapshot of a document's AIU set after a
// successfully processed chunk.
type Checkpoint struct {
	DocumentID string
	ChunkIndex int

	// SourceHash identifies the source text the chunk plan was computed
	// from. A checkpoint whose hash no longer matches the source is stale
	// and must not be resumed from.
	SourceHash string

	Set *AIUSet
}

// CheckpointStore persists AIU sets between chunk-processing steps so a
// document can resume after partial failure without repeating completed
// model calls. Writes are keyed per document; the sequential merge chain
// guarantees per-document write ordering, so no cross-document locking is
// required of implementations.
type CheckpointStore interface {
	// Save persists the AIU set for a document at a chunk index,
	// replacing any prior checkpoint for the document.
	Save(ctx context.Context, cp *Checkpoint) error

	// LoadLatest returns the most recent checkpoint for a document.
	// Returns ENOTFOUND if no checkpoint exists.
	LoadLatest(ctx context.Context, documentID string) (*Checkpoint, error)

	// Clear removes any checkpoint for a document.
	Clear(ctx context.Context, documentID string) error
}
