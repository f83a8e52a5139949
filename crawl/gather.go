// Package crawl gathers raw documentation text for the compaction
// pipeline. It coordinates sitemap discovery, page fetching, content
// extraction, and markdown conversion, aggregating the pages of one site
// into a single text per document.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/marv1nnnnn/llmmin"
	"golang.org/x/sync/errgroup"
)

// Frontier configuration for recursive crawling.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// defaultMaxPages limits the number of pages processed to prevent runaway crawls.
	defaultMaxPages = 1000
)

// Gatherer assembles the documentation text for a source URL.
type Gatherer struct {
	Sitemaps     llmmin.SitemapService
	Fetcher      llmmin.Fetcher
	Extractor    llmmin.Extractor
	Converter    llmmin.Converter
	LinkSelector llmmin.LinkSelector
	RateLimiter  llmmin.DomainLimiter
	Concurrency  int
	RetryDelays  []time.Duration
	MaxPages     int
}

// Result holds the outcome of gathering one site.
type Result struct {
	Pages  []*llmmin.Page
	Failed int
	Bytes  int
}

// Text returns the gathered pages aggregated into a single markdown
// document, in crawl order.
func (r *Result) Text() string {
	parts := make([]string, 0, len(r.Pages))
	for _, page := range r.Pages {
		header := page.Title
		if header == "" {
			header = page.URL
		}
		parts = append(parts, "## "+header+"\nSource: "+page.URL+"\n\n"+page.Content)
	}
	return strings.Join(parts, "\n\n")
}

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position int
	url      string
	title    string
	markdown string
	err      error
}

// Gather fetches and converts every documentation page under sourceURL.
// URLs come from the site's sitemap; when no sitemap exists and a
// LinkSelector is configured, it falls back to recursive link-following
// scoped to the source URL's path prefix.
func (g *Gatherer) Gather(ctx context.Context, sourceURL string, filter *llmmin.URLFilter, progress llmmin.FetchProgressFunc) (*Result, error) {
	urls, err := g.Sitemaps.DiscoverURLs(ctx, sourceURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	if len(urls) == 0 {
		if g.LinkSelector != nil && g.RateLimiter != nil {
			return g.recursiveGather(ctx, sourceURL, filter, progress)
		}
		return &Result{}, nil
	}

	if limit := g.maxPages(); len(urls) > limit {
		urls = urls[:limit]
	}

	concurrency := g.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	resultCh := make(chan pageResult, len(urls))

	var completed atomic.Int64
	total := len(urls)

	g.emit(progress, llmmin.FetchProgress{Total: total})

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			i, u := i, u
			grp.Go(func() error {
				result := g.processURL(gctx, i, u)
				resultCh <- result
				return nil
			})
		}
		_ = grp.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, len(urls))
	var failed int
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if result.err != nil {
			failed++
		}
		g.emit(progress, llmmin.FetchProgress{
			URL:       result.url,
			Completed: int(completed.Load()),
			Total:     total,
			Error:     result.err,
		})
	}

	out := &Result{Failed: failed}
	for _, result := range results {
		if result.err != nil {
			continue
		}
		out.Pages = append(out.Pages, &llmmin.Page{
			URL:     result.url,
			Title:   result.title,
			Content: result.markdown,
		})
		out.Bytes += len(result.markdown)
	}

	return out, nil
}

// processURL fetches and processes a single URL.
func (g *Gatherer) processURL(ctx context.Context, position int, u string) pageResult {
	result := pageResult{position: position, url: u}

	delays := g.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	fetchFn := func(ctx context.Context, url string) (string, error) {
		return g.Fetcher.Fetch(ctx, url)
	}
	html, err := FetchWithRetryDelays(ctx, u, fetchFn, nil, delays)
	if err != nil {
		result.err = err
		return result
	}

	extracted, err := g.Extractor.Extract(html)
	if err != nil {
		result.err = err
		return result
	}

	markdown, err := g.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}

	result.title = extracted.Title
	result.markdown = markdown
	return result
}

// recursiveGather follows links from sourceURL when sitemap discovery
// finds nothing. URLs are processed sequentially to simplify rate
// limiting and frontier management.
func (g *Gatherer) recursiveGather(ctx context.Context, sourceURL string, filter *llmmin.URLFilter, progress llmmin.FetchProgressFunc) (*Result, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}
	pathPrefix := base.Path

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(llmmin.DiscoveredLink{
		URL:      sourceURL,
		Priority: llmmin.PriorityNavigation,
	})

	out := &Result{}
	processed := 0
	limit := g.maxPages()

	for {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		if processed >= limit {
			break
		}
		processed++

		if ctx.Err() != nil {
			break
		}

		linkURL, err := url.Parse(link.URL)
		if err != nil {
			out.Failed++
			continue
		}
		if err := g.RateLimiter.Wait(ctx, linkURL.Host); err != nil {
			break // Context canceled
		}

		delays := g.RetryDelays
		if delays == nil {
			delays = DefaultRetryDelays()
		}
		fetchFn := func(ctx context.Context, url string) (string, error) {
			return g.Fetcher.Fetch(ctx, url)
		}
		html, err := FetchWithRetryDelays(ctx, link.URL, fetchFn, nil, delays)
		if err != nil {
			out.Failed++
			g.emit(progress, llmmin.FetchProgress{URL: link.URL, Error: err})
			continue
		}

		// Queue in-scope links before extracting content
		links, err := g.LinkSelector.ExtractLinks(html, link.URL)
		if err == nil {
			for _, discovered := range links {
				discoveredURL, err := url.Parse(discovered.URL)
				if err != nil {
					continue
				}
				if discoveredURL.Host != base.Host {
					continue
				}
				if !strings.HasPrefix(discoveredURL.Path, pathPrefix) {
					continue
				}
				if !filter.Match(discovered.URL) {
					continue
				}
				frontier.Push(discovered)
			}
		}

		extracted, err := g.Extractor.Extract(html)
		if err != nil {
			out.Failed++
			g.emit(progress, llmmin.FetchProgress{URL: link.URL, Error: err})
			continue
		}

		markdown, err := g.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			out.Failed++
			g.emit(progress, llmmin.FetchProgress{URL: link.URL, Error: err})
			continue
		}

		out.Pages = append(out.Pages, &llmmin.Page{
			URL:     link.URL,
			Title:   extracted.Title,
			Content: markdown,
		})
		out.Bytes += len(markdown)

		g.emit(progress, llmmin.FetchProgress{URL: link.URL, Completed: len(out.Pages)})
	}

	return out, nil
}

func (g *Gatherer) maxPages() int {
	if g.MaxPages > 0 {
		return g.MaxPages
	}
	return defaultMaxPages
}

func (g *Gatherer) emit(progress llmmin.FetchProgressFunc, event llmmin.FetchProgress) {
	if progress != nil {
		progress(event)
	}
}
