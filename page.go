package llmmin

// Page represents a fetched documentation page.
type Page struct {
	URL     string
	Title   string
	Content string // Markdown
}

// FetchProgress reports progress during page fetching.
type FetchProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// FetchProgressFunc is called as pages are processed.
type FetchProgressFunc func(FetchProgress)
