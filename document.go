package llmmin

import "time"

// DocumentInput is one raw text to compact, plus its identity. The
// pipeline is agnostic to how the text was obtained; the crawl and search
// collaborators supply it.
type DocumentInput struct {
	// ID keys checkpoints and must be stable across runs for resume to
	// work. A package name is a good ID.
	ID string

	// Name is the documented subject, used in the output header.
	Name string

	// Version of the documented subject, if known.
	Version string

	// Text is the aggregated raw documentation text.
	Text string

	// SourceLabel records where the text came from (e.g. a URL).
	SourceLabel string
}

// Validate returns an error if the input contains invalid fields.
func (d *DocumentInput) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.Name == "" {
		return Errorf(EINVALID, "document name required")
	}
	return nil
}

// DocumentResult is the outcome of compacting one document.
type DocumentResult struct {
	DocumentID string

	// Set is the final AIU set. Nil when the document failed.
	Set *AIUSet

	// Output is the assembled artifact: header, schema, and one line per
	// AIU. Empty when the document failed; a failed document never
	// produces a silently empty or truncated output.
	Output string

	// Chunks is the number of chunks in the plan.
	Chunks int

	// CompleterCalls is the total number of model invocations, including
	// retried ones.
	CompleterCalls int

	// DroppedLines counts response lines that failed to decode and were
	// discarded. Non-fatal; reported so callers can judge quality.
	DroppedLines int

	// DroppedRelationships counts relationships removed because their
	// target was absent from the candidate set. Non-fatal.
	DroppedRelationships int

	// LastCheckpoint is the chunk index of the last successfully written
	// checkpoint, or -1 if none was written. On failure it is the resume
	// point for a retry.
	LastCheckpoint int

	// Resumed reports whether processing started from a prior checkpoint.
	Resumed bool

	FinishedAt time.Time

	// Err is the terminal failure for this document, nil on success.
	Err error
}

// Failed reports whether the document halted before producing output.
func (r *DocumentResult) Failed() bool {
	return r.Err != nil
}
