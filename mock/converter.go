package mock

import "github.com/marv1nnnnn/llmmin"

var _ llmmin.Converter = (*Converter)(nil)

// Converter is a mock implementation of llmmin.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
