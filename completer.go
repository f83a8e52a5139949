package llmmin

import "context"

// Completer is the external summarization model. It is an inherently
// non-deterministic, free-text-producing collaborator: callers must treat
// the response as untrusted and do all tolerance and repair work at the
// decode boundary.
type Completer interface {
	// Complete sends a prompt and returns the raw model response.
	// maxOutputTokens bounds the response size. The context controls
	// timeout and cancellation.
	Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}
