package llmmin

import (
	"context"
	"time"
)

// CrawledSource is one cached crawl result: the aggregated documentation
// text gathered for a package, keyed by document ID.
type CrawledSource struct {
	// ID is assigned by the cache on save.
	ID string

	DocumentID  string
	SourceLabel string
	Text        string

	// TextHash is an xxhash of Text, computed on save.
	TextHash string

	FetchedAt time.Time
}

// SourceCache stores crawled documentation text so repeated runs against
// the same package skip the crawl. Entries are replaced wholesale per
// document ID.
type SourceCache interface {
	// SaveSource stores or replaces the cached text for a document.
	SaveSource(ctx context.Context, src *CrawledSource) error

	// FindSource returns the cached text for a document ID.
	// Returns ENOTFOUND if no entry exists.
	FindSource(ctx context.Context, documentID string) (*CrawledSource, error)

	// DeleteSource removes the cached entry for a document ID.
	DeleteSource(ctx context.Context, documentID string) error
}
