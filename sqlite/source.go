package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/marv1nnnnn/llmmin"
)

// Compile-time interface verification.
var _ llmmin.SourceCache = (*SourceService)(nil)

// SourceService implements llmmin.SourceCache using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// SaveSource stores or replaces the cached text for a document.
func (s *SourceService) SaveSource(ctx context.Context, src *llmmin.CrawledSource) error {
	if src.DocumentID == "" {
		return llmmin.Errorf(llmmin.EINVALID, "source document ID required")
	}

	src.ID = uuid.New().String()
	src.TextHash = hashText(src.Text)
	src.FetchedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, document_id, source_label, text, text_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			id = excluded.id,
			source_label = excluded.source_label,
			text = excluded.text,
			text_hash = excluded.text_hash,
			fetched_at = excluded.fetched_at
	`, src.ID, src.DocumentID, src.SourceLabel, src.Text, src.TextHash,
		src.FetchedAt.Format(time.RFC3339))

	return err
}

// FindSource returns the cached text for a document ID.
// Returns ENOTFOUND if no entry exists.
func (s *SourceService) FindSource(ctx context.Context, documentID string) (*llmmin.CrawledSource, error) {
	src := llmmin.CrawledSource{DocumentID: documentID}
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_label, text, text_hash, fetched_at
		FROM sources
		WHERE document_id = ?
	`, documentID).Scan(&src.ID, &src.SourceLabel, &src.Text, &src.TextHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, llmmin.Errorf(llmmin.ENOTFOUND, "no cached source for document %q", documentID)
	}
	if err != nil {
		return nil, err
	}

	src.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &src, nil
}

// DeleteSource removes the cached entry for a document ID.
func (s *SourceService) DeleteSource(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE document_id = ?", documentID)
	return err
}
