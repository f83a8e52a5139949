package compact

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
	"golang.org/x/sync/errgroup"
)

// Runner multiplexes document compaction across a bounded number of
// concurrent pipelines. Documents share nothing but the concurrency gate
// and the checkpoint store, whose writes are keyed per document.
type Runner struct {
	Compactor   *Compactor
	Concurrency int
}

// Run processes every document through an independent compaction chain
// and returns one result per input, in input order. A failed document
// carries its error and last good checkpoint index; it never aborts the
// other documents.
func (r *Runner) Run(ctx context.Context, docs []*llmmin.DocumentInput, progress ProgressFunc) []*llmmin.DocumentResult {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]*llmmin.DocumentResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			results[i] = r.Compactor.CompactDocument(gctx, doc, progress)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
