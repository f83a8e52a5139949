package mock

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of llmmin.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, limit int) ([]llmmin.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]llmmin.SearchResult, error) {
	return s.SearchFn(ctx, query, limit)
}

var _ llmmin.URLSelector = (*URLSelector)(nil)

// URLSelector is a mock implementation of llmmin.URLSelector.
type URLSelector struct {
	SelectDocURLFn func(ctx context.Context, packageName string, results []llmmin.SearchResult) (string, error)
}

func (s *URLSelector) SelectDocURL(ctx context.Context, packageName string, results []llmmin.SearchResult) (string, error) {
	return s.SelectDocURLFn(ctx, packageName, results)
}
