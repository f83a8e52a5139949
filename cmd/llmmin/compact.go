package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/compact"
)

// Run executes the compact command.
func (c *CompactCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	name := c.Name
	if name == "" {
		base := filepath.Base(c.Input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	doc := &llmmin.DocumentInput{
		ID:          name,
		Name:        name,
		Version:     c.Version,
		Text:        string(data),
		SourceLabel: c.Input,
	}

	progress := func(event compact.ProgressEvent) {
		switch event.Type {
		case compact.ProgressPlanned:
			fmt.Fprintf(deps.Stdout, "  %d chunks\n", event.Chunks)
		case compact.ProgressResumed:
			fmt.Fprintf(deps.Stdout, "  resuming after chunk %d (%d records)\n", event.ChunkIndex, event.Records)
		case compact.ProgressExtracted, compact.ProgressMerged:
			fmt.Fprintf(deps.Stdout, "  chunk %d/%d done (%d records)\n",
				event.ChunkIndex+1, event.Chunks, event.Records)
		case compact.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  chunk %d failed: %v\n", event.ChunkIndex, event.Error)
		}
	}

	result := deps.Compactor.CompactDocument(deps.Ctx, doc, progress)
	if result.Failed() {
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmmin.ErrorMessage(result.Err))
		if result.LastCheckpoint >= 0 {
			fmt.Fprintf(deps.Stderr, "Progress through chunk %d is checkpointed; re-run to resume.\n", result.LastCheckpoint)
		}
		return result.Err
	}

	if err := deps.Writer.WriteArtifact(deps.Ctx, &llmmin.Artifact{
		DocumentID: name,
		Compacted:  result.Output,
	}); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmmin.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (%d records, %d model calls", name, result.Set.Len(), result.CompleterCalls)
	if result.DroppedLines > 0 || result.DroppedRelationships > 0 {
		fmt.Fprintf(deps.Stdout, ", dropped %d lines, %d relationships", result.DroppedLines, result.DroppedRelationships)
	}
	fmt.Fprintln(deps.Stdout, ")")
	return nil
}
