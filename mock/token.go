package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of llmmin.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
