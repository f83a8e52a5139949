// Package compact drives the incremental document compaction pipeline.
// It chunks raw documentation text, runs an extract-then-merge chain of
// model calls over the chunks, validates and checkpoints the record set
// after every step, and assembles the final output artifact.
package compact

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/marv1nnnnn/llmmin"
)

// DefaultMaxOutputTokens bounds the model response for one transition.
const DefaultMaxOutputTokens = 16384

// DefaultCallTimeout is the per-invocation timeout for model calls.
const DefaultCallTimeout = 3 * time.Minute

// ProgressEvent reports progress during document compaction.
type ProgressEvent struct {
	Type       ProgressType
	DocumentID string
	ChunkIndex int
	Chunks     int
	Records    int
	Dropped    int
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPlanned ProgressType = iota
	ProgressResumed
	ProgressExtracted
	ProgressMerged
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting compaction progress.
type ProgressFunc func(event ProgressEvent)

// Compactor runs the extract-then-merge chain for single documents.
// The chain is strictly sequential per document: chunk k is never sent to
// the model before the state for chunk k-1 has been validated and
// checkpointed.
type Compactor struct {
	Completer   llmmin.Completer
	Checkpoints llmmin.CheckpointStore
	Chunker     *llmmin.Chunker

	// MaxOutputTokens for each model call. Zero means the default.
	MaxOutputTokens int

	// CallTimeout bounds each model invocation. A timeout is treated as a
	// transient failure under the retry policy. Zero means the default.
	CallTimeout time.Duration

	// RetryDelays configures transition retry backoff. Nil means the
	// defaults; tests inject zero delays.
	RetryDelays []time.Duration

	// ForceRestart ignores and overwrites any existing checkpoint.
	ForceRestart bool

	// Version stamps the output header. Empty means "latest".
	Version string

	// Log, if set, receives retry and drop diagnostics.
	Log LogFunc

	// Now returns the timestamp stamped into output headers.
	// Defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

func (c *Compactor) timeNow() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// CompactDocument processes one document through the full chain:
// Empty → Extracted → Merged(1..n-1) → Final. The returned result always
// carries the last good checkpoint index; on failure the result has no
// output and Err set, never a silently truncated artifact.
func (c *Compactor) CompactDocument(ctx context.Context, doc *llmmin.DocumentInput, progress ProgressFunc) *llmmin.DocumentResult {
	result := &llmmin.DocumentResult{
		DocumentID:     doc.ID,
		LastCheckpoint: -1,
	}

	if err := doc.Validate(); err != nil {
		result.Err = err
		return result
	}

	plan, err := c.Chunker.Plan(doc.Text)
	if err != nil {
		result.Err = err
		return result
	}
	result.Chunks = len(plan.Chunks)

	c.emit(progress, ProgressEvent{
		Type:       ProgressPlanned,
		DocumentID: doc.ID,
		Chunks:     len(plan.Chunks),
	})

	// Whitespace-only or empty input: no model calls, empty record set.
	if plan.Empty() {
		result.Set = llmmin.NewAIUSet()
		result.FinishedAt = c.timeNow()
		result.Output = c.assemble(doc, result.Set, result.FinishedAt)
		c.emit(progress, ProgressEvent{Type: ProgressFinished, DocumentID: doc.ID})
		return result
	}

	sourceHash := fmt.Sprintf("%x", xxhash.Sum64String(doc.Text))

	set := llmmin.NewAIUSet()
	startChunk := 0

	if !c.ForceRestart {
		cp, err := c.Checkpoints.LoadLatest(ctx, doc.ID)
		switch {
		case err == nil && cp.SourceHash == sourceHash:
			set = cp.Set
			startChunk = cp.ChunkIndex + 1
			result.LastCheckpoint = cp.ChunkIndex
			result.Resumed = true
			c.emit(progress, ProgressEvent{
				Type:       ProgressResumed,
				DocumentID: doc.ID,
				ChunkIndex: cp.ChunkIndex,
				Chunks:     len(plan.Chunks),
				Records:    set.Len(),
			})
		case err == nil:
			// Source text changed since the checkpoint was written; the
			// chunk plan no longer lines up, so start over.
			c.logf("checkpoint for %s is stale (source changed), restarting", doc.ID)
		case llmmin.ErrorCode(err) == llmmin.ENOTFOUND:
			// Fresh document.
		default:
			result.Err = err
			return result
		}
	}

	for k := startChunk; k < len(plan.Chunks); k++ {
		chunk := plan.Chunks[k]
		sourceTag := provenanceTag(doc.ID, k)

		var next *llmmin.AIUSet
		var dropped int

		attempts, err := c.transition(ctx, func(ctx context.Context) error {
			var terr error
			next, dropped, terr = c.attemptTransition(ctx, doc, set, chunk, sourceTag)
			return terr
		})
		result.CompleterCalls += attempts
		if err != nil {
			result.Err = llmmin.Errorf(llmmin.EUNAVAILABLE,
				"document %s halted at chunk %d after %d attempts: %s",
				doc.ID, k, attempts, llmmin.ErrorMessage(err))
			c.emit(progress, ProgressEvent{
				Type:       ProgressFailed,
				DocumentID: doc.ID,
				ChunkIndex: k,
				Chunks:     len(plan.Chunks),
				Error:      err,
			})
			return result
		}

		result.DroppedLines += dropped

		// Enforce the relationship-target invariant before the candidate
		// replaces the state or touches the checkpoint store.
		relDropped := next.PruneDanglingRelationships()
		if relDropped > 0 {
			result.DroppedRelationships += relDropped
			c.logf("chunk %d of %s: dropped %d dangling relationships", k, doc.ID, relDropped)
		}

		set = next

		if err := c.Checkpoints.Save(ctx, &llmmin.Checkpoint{
			DocumentID: doc.ID,
			ChunkIndex: k,
			SourceHash: sourceHash,
			Set:        set,
		}); err != nil {
			result.Err = err
			return result
		}
		result.LastCheckpoint = k

		eventType := ProgressMerged
		if k == 0 {
			eventType = ProgressExtracted
		}
		c.emit(progress, ProgressEvent{
			Type:       eventType,
			DocumentID: doc.ID,
			ChunkIndex: k,
			Chunks:     len(plan.Chunks),
			Records:    set.Len(),
			Dropped:    dropped,
		})
	}

	result.Set = set
	result.FinishedAt = c.timeNow()
	result.Output = c.assemble(doc, set, result.FinishedAt)
	c.emit(progress, ProgressEvent{
		Type:       ProgressFinished,
		DocumentID: doc.ID,
		Chunks:     len(plan.Chunks),
		Records:    set.Len(),
	})
	return result
}

// attemptTransition is one attempt at an extract or merge transition:
// a model call plus decoding and candidate construction. Errors returned
// here are retried by the caller.
func (c *Compactor) attemptTransition(ctx context.Context, doc *llmmin.DocumentInput, prior *llmmin.AIUSet, chunk llmmin.Chunk, sourceTag string) (*llmmin.AIUSet, int, error) {
	timeout := c.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var prompt string
	if chunk.Index == 0 {
		prompt = BuildExtractionPrompt(doc.Name, sourceTag, chunk)
	} else {
		prompt = BuildMergePrompt(doc.Name, sourceTag, prior, chunk)
	}

	maxTokens := c.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxOutputTokens
	}

	raw, err := c.Completer.Complete(callCtx, prompt, maxTokens)
	if err != nil {
		return nil, 0, err
	}

	candidate := llmmin.NewAIUSet()
	dropped := 0
	for _, line := range llmmin.ExtractRecordLines(raw) {
		aiu, err := llmmin.DecodeAIULine(line)
		if err != nil {
			dropped++
			c.logf("dropped undecodable line for %s: %s", doc.ID, llmmin.ErrorMessage(err))
			continue
		}
		if chunk.Index == 0 {
			// Extraction owns provenance; whatever the model emitted for
			// source is overridden with the chunk's tag.
			aiu.Source = sourceTag
		}
		candidate.Put(aiu)
	}

	// A merge response must carry the prior records forward. An empty
	// candidate against a non-empty state means the model ignored the
	// instructions; retrying is cheaper than losing the whole set.
	if chunk.Index > 0 && prior.Len() > 0 && candidate.Len() == 0 {
		return nil, dropped, llmmin.Errorf(llmmin.EUNAVAILABLE,
			"merge response for chunk %d decoded to zero records", chunk.Index)
	}

	return candidate, dropped, nil
}

// transition runs one attempt function under the retry policy.
func (c *Compactor) transition(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return withRetryDelays(ctx, fn, c.Log, delays)
}

// assemble builds the final artifact: header, schema, one line per record.
func (c *Compactor) assemble(doc *llmmin.DocumentInput, set *llmmin.AIUSet, ts time.Time) string {
	version := doc.Version
	if version == "" {
		version = c.Version
	}
	if version == "" {
		version = "latest"
	}

	out := llmmin.EncodeHeader(doc.Name, version, ts) + "\n" + llmmin.EncodeSchema()
	for _, aiu := range set.All() {
		out += "\n" + llmmin.EncodeAIULine(aiu)
	}
	return out + "\n"
}

func (c *Compactor) emit(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func (c *Compactor) logf(format string, args ...any) {
	if c.Log != nil {
		c.Log(format, args...)
	}
}

// provenanceTag identifies which chunk of which document contributed a
// record.
func provenanceTag(documentID string, chunkIndex int) string {
	return fmt.Sprintf("%s#chunk%d", documentID, chunkIndex)
}
