package main

import (
	"fmt"

	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/compact"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	docs := make([]*llmmin.DocumentInput, 0, len(c.Packages))
	for _, pkg := range c.Packages {
		src, err := c.sourceFor(deps, pkg)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error gathering %s: %s\n", pkg, llmmin.ErrorMessage(err))
			return err
		}

		if deps.Tokens != nil {
			if tokens, err := deps.Tokens.CountTokens(deps.Ctx, src.Text); err == nil {
				fmt.Fprintf(deps.Stdout, "  %s: %d bytes, ~%d tokens\n", pkg, len(src.Text), tokens)
			}
		}

		docs = append(docs, &llmmin.DocumentInput{
			ID:          pkg,
			Name:        pkg,
			Text:        src.Text,
			SourceLabel: src.SourceLabel,
		})
	}

	progress := func(event compact.ProgressEvent) {
		switch event.Type {
		case compact.ProgressPlanned:
			fmt.Fprintf(deps.Stdout, "  %s: %d chunks\n", event.DocumentID, event.Chunks)
		case compact.ProgressResumed:
			fmt.Fprintf(deps.Stdout, "  %s: resuming after chunk %d (%d records)\n",
				event.DocumentID, event.ChunkIndex, event.Records)
		case compact.ProgressExtracted, compact.ProgressMerged:
			fmt.Fprintf(deps.Stdout, "  %s: chunk %d/%d done (%d records)\n",
				event.DocumentID, event.ChunkIndex+1, event.Chunks, event.Records)
		case compact.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  %s: chunk %d failed: %v\n",
				event.DocumentID, event.ChunkIndex, event.Error)
		}
	}

	runner := &compact.Runner{Compactor: deps.Compactor, Concurrency: c.Concurrency}
	results := runner.Run(deps.Ctx, docs, progress)

	var firstErr error
	for i, result := range results {
		if result.Failed() {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", result.DocumentID, llmmin.ErrorMessage(result.Err))
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}

		artifact := &llmmin.Artifact{
			DocumentID: result.DocumentID,
			Compacted:  result.Output,
		}
		if c.KeepRaw {
			artifact.Raw = docs[i].Text
		}
		if err := deps.Writer.WriteArtifact(deps.Ctx, artifact); err != nil {
			fmt.Fprintf(deps.Stderr, "error writing %s: %s\n", result.DocumentID, llmmin.ErrorMessage(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		fmt.Fprintf(deps.Stdout, "Wrote %s (%d records, %d model calls", result.DocumentID, result.Set.Len(), result.CompleterCalls)
		if result.DroppedLines > 0 || result.DroppedRelationships > 0 {
			fmt.Fprintf(deps.Stdout, ", dropped %d lines, %d relationships", result.DroppedLines, result.DroppedRelationships)
		}
		fmt.Fprintln(deps.Stdout, ")")
	}

	return firstErr
}

// sourceFor returns the documentation text for a package, from the cache
// when available and fresh crawling otherwise.
func (c *GenerateCmd) sourceFor(deps *Dependencies, pkg string) (*llmmin.CrawledSource, error) {
	if !c.Refresh {
		src, err := deps.Sources.FindSource(deps.Ctx, pkg)
		if err == nil {
			fmt.Fprintf(deps.Stdout, "  %s: using cached source from %s\n", pkg, src.FetchedAt.Format("2006-01-02"))
			return src, nil
		}
		if llmmin.ErrorCode(err) != llmmin.ENOTFOUND {
			return nil, err
		}
	}

	results, err := deps.Search.Search(deps.Ctx, pkg+" documentation", 10)
	if err != nil {
		return nil, err
	}

	docURL, err := deps.Selector.SelectDocURL(deps.Ctx, pkg, results)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(deps.Stdout, "  %s: crawling %s\n", pkg, docURL)

	fetchProgress := func(p llmmin.FetchProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", p.URL, p.Error)
		}
	}
	gathered, err := deps.Gatherer.Gather(deps.Ctx, docURL, nil, fetchProgress)
	if err != nil {
		return nil, err
	}
	if len(gathered.Pages) == 0 {
		return nil, llmmin.Errorf(llmmin.ENOTFOUND, "no documentation pages found at %s", docURL)
	}
	fmt.Fprintf(deps.Stdout, "  %s: gathered %d pages (%d failed)\n", pkg, len(gathered.Pages), gathered.Failed)

	src := &llmmin.CrawledSource{
		DocumentID:  pkg,
		SourceLabel: docURL,
		Text:        gathered.Text(),
	}
	if err := deps.Sources.SaveSource(deps.Ctx, src); err != nil {
		return nil, err
	}

	return src, nil
}
