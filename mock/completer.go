package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.Completer = (*Completer)(nil)

// Completer is a mock implementation of llmmin.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

func (c *Completer) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	return c.CompleteFn(ctx, prompt, maxOutputTokens)
}
