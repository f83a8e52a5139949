package mock

import "github.com/marv1nnnnn/llmmin"

var _ llmmin.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of llmmin.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*llmmin.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*llmmin.ExtractResult, error) {
	return e.ExtractFn(html)
}
