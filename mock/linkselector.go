package mock

import "github.com/marv1nnnnn/llmmin"

var _ llmmin.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of llmmin.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]llmmin.DiscoveredLink, error)
	NameFn         func() string
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]llmmin.DiscoveredLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

func (s *LinkSelector) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}
