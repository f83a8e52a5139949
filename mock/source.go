package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.SourceCache = (*SourceCache)(nil)

// SourceCache is a mock implementation of llmmin.SourceCache.
type SourceCache struct {
	SaveSourceFn   func(ctx context.Context, src *llmmin.CrawledSource) error
	FindSourceFn   func(ctx context.Context, documentID string) (*llmmin.CrawledSource, error)
	DeleteSourceFn func(ctx context.Context, documentID string) error
}

func (c *SourceCache) SaveSource(ctx context.Context, src *llmmin.CrawledSource) error {
	return c.SaveSourceFn(ctx, src)
}

func (c *SourceCache) FindSource(ctx context.Context, documentID string) (*llmmin.CrawledSource, error) {
	return c.FindSourceFn(ctx, documentID)
}

func (c *SourceCache) DeleteSource(ctx context.Context, documentID string) error {
	return c.DeleteSourceFn(ctx, documentID)
}
