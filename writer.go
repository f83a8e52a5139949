package llmmin

import "context"

// Artifact is the final output for one document: the compacted record
// file and, optionally, the raw aggregated source text alongside it.
type Artifact struct {
	DocumentID string

	// Compacted is the assembled record file (header, schema, AIU lines).
	Compacted string

	// Raw is the aggregated source text the compaction ran on. Empty when
	// the caller chose not to keep it.
	Raw string
}

// ArtifactWriter persists final compaction artifacts. A write is all or
// nothing; a failed write must not leave a partial artifact visible.
type ArtifactWriter interface {
	WriteArtifact(ctx context.Context, artifact *Artifact) error
}
