package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marv1nnnnn/llmmin"
)

// Compile-time interface verification.
var _ llmmin.CheckpointStore = (*CheckpointService)(nil)

// CheckpointService implements llmmin.CheckpointStore using SQLite. The
// AIU set is stored as a JSON payload, independent of the output wire
// format, so checkpoints survive format revisions.
type CheckpointService struct {
	db *DB
}

// NewCheckpointService creates a new CheckpointService.
func NewCheckpointService(db *DB) *CheckpointService {
	return &CheckpointService{db: db}
}

// Save persists the AIU set for a document at a chunk index, replacing
// any prior checkpoint for the document.
func (s *CheckpointService) Save(ctx context.Context, cp *llmmin.Checkpoint) error {
	if cp.DocumentID == "" {
		return llmmin.Errorf(llmmin.EINVALID, "checkpoint document ID required")
	}
	if cp.Set == nil {
		return llmmin.Errorf(llmmin.EINVALID, "checkpoint set required")
	}

	payload, err := json.Marshal(cp.Set)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (document_id, chunk_index, source_hash, payload, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			chunk_index = excluded.chunk_index,
			source_hash = excluded.source_hash,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, cp.DocumentID, cp.ChunkIndex, cp.SourceHash, string(payload),
		time.Now().UTC().Format(time.RFC3339))

	return err
}

// LoadLatest returns the most recent checkpoint for a document.
// Returns ENOTFOUND if no checkpoint exists.
func (s *CheckpointService) LoadLatest(ctx context.Context, documentID string) (*llmmin.Checkpoint, error) {
	cp := llmmin.Checkpoint{DocumentID: documentID}
	var payload string

	err := s.db.QueryRowContext(ctx, `
		SELECT chunk_index, source_hash, payload
		FROM checkpoints
		WHERE document_id = ?
	`, documentID).Scan(&cp.ChunkIndex, &cp.SourceHash, &payload)

	if err == sql.ErrNoRows {
		return nil, llmmin.Errorf(llmmin.ENOTFOUND, "no checkpoint for document %q", documentID)
	}
	if err != nil {
		return nil, err
	}

	cp.Set = llmmin.NewAIUSet()
	if err := json.Unmarshal([]byte(payload), cp.Set); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint payload: %w", err)
	}

	return &cp, nil
}

// Clear removes any checkpoint for a document.
func (s *CheckpointService) Clear(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM checkpoints WHERE document_id = ?", documentID)
	return err
}

// CheckpointInfo is a checkpoint summary row for listing, without the
// set payload.
type CheckpointInfo struct {
	DocumentID string
	ChunkIndex int
	SourceHash string
	Records    int
	SavedAt    time.Time
}

// ListCheckpoints returns a summary of every stored checkpoint, most
// recently saved first.
func (s *CheckpointService) ListCheckpoints(ctx context.Context) ([]*CheckpointInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, chunk_index, source_hash, payload, saved_at
		FROM checkpoints
		ORDER BY saved_at DESC, document_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []*CheckpointInfo
	for rows.Next() {
		var info CheckpointInfo
		var payload, savedAt string

		if err := rows.Scan(&info.DocumentID, &info.ChunkIndex, &info.SourceHash,
			&payload, &savedAt); err != nil {
			return nil, err
		}

		set := llmmin.NewAIUSet()
		if err := json.Unmarshal([]byte(payload), set); err != nil {
			return nil, fmt.Errorf("failed to decode checkpoint payload: %w", err)
		}
		info.Records = set.Len()

		info.SavedAt, err = parseRFC3339(savedAt, "saved_at")
		if err != nil {
			return nil, err
		}

		infos = append(infos, &info)
	}

	return infos, rows.Err()
}
