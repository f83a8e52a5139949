// Package duckduckgo implements llmmin.SearchService against the
// DuckDuckGo HTML endpoint, which serves static results without
// JavaScript or an API key.
package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/marv1nnnnn/llmmin"
)

// endpoint is the no-JS results page.
const endpoint = "https://html.duckduckgo.com/html/"

// DefaultTimeout is the default timeout for search requests.
const DefaultTimeout = 10 * time.Second

// Ensure SearchService implements llmmin.SearchService at compile time.
var _ llmmin.SearchService = (*SearchService)(nil)

// SearchService performs web searches by scraping DuckDuckGo's HTML
// results page.
type SearchService struct {
	client *http.Client
}

// NewSearchService creates a new SearchService.
// If client is nil, a client with DefaultTimeout is used.
func NewSearchService(client *http.Client) *SearchService {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &SearchService{client: client}
}

// Search returns up to limit results for the query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]llmmin.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, llmmin.Errorf(llmmin.EINVALID, "search query required")
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "llmmin/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, llmmin.Errorf(llmmin.EUNAVAILABLE, "duckduckgo: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, llmmin.Errorf(llmmin.EUNAVAILABLE, "duckduckgo: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseResults(string(body), limit)
}

// ParseResults extracts search results from a DuckDuckGo HTML results
// page. Redirect-wrapped URLs are unwrapped to their target.
func ParseResults(html string, limit int) ([]llmmin.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, llmmin.Errorf(llmmin.EINVALID, "failed to parse results page: %v", err)
	}

	var results []llmmin.SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if limit > 0 && len(results) >= limit {
			return false
		}

		link := sel.Find(".result__a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}

		results = append(results, llmmin.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     unwrapRedirect(href),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return true
	})

	return results, nil
}

// unwrapRedirect resolves DuckDuckGo's //duckduckgo.com/l/?uddg=<target>
// redirect wrapper to the target URL. Unwrapped inputs pass through.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
