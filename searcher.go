package llmmin

import "context"

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchService performs a web search for documentation sites.
type SearchService interface {
	// Search returns up to limit results for the query.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// URLSelector picks the most likely official documentation URL for a
// package from search results. Returns ENOTFOUND when no suitable URL
// can be identified.
type URLSelector interface {
	SelectDocURL(ctx context.Context, packageName string, results []SearchResult) (string, error)
}
