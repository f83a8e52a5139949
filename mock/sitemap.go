package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of llmmin.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *llmmin.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *llmmin.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
