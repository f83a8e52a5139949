package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/marv1nnnnn/llmmin"
)

var _ llmmin.URLSelector = (*URLSelector)(nil)

// URLSelector asks the model to pick the most likely official
// documentation URL for a package from web search results.
type URLSelector struct {
	completer llmmin.Completer
}

// NewURLSelector creates a new URLSelector.
func NewURLSelector(completer llmmin.Completer) *URLSelector {
	return &URLSelector{completer: completer}
}

// SelectDocURL returns the chosen URL, or ENOTFOUND when the model cannot
// identify a suitable documentation site.
func (s *URLSelector) SelectDocURL(ctx context.Context, packageName string, results []llmmin.SearchResult) (string, error) {
	if packageName == "" {
		return "", llmmin.Errorf(llmmin.EINVALID, "package name required")
	}
	if len(results) == 0 {
		return "", llmmin.Errorf(llmmin.ENOTFOUND, "no search results for %q", packageName)
	}

	prompt := BuildSelectPrompt(packageName, results)

	response, err := s.completer.Complete(ctx, prompt, 256)
	if err != nil {
		return "", err
	}

	selected := strings.TrimSpace(response)
	if selected == "" || strings.EqualFold(selected, "none") {
		return "", llmmin.Errorf(llmmin.ENOTFOUND, "no suitable documentation URL for %q", packageName)
	}
	if !strings.HasPrefix(selected, "http://") && !strings.HasPrefix(selected, "https://") {
		return "", llmmin.Errorf(llmmin.ENOTFOUND, "model returned a non-URL answer for %q", packageName)
	}

	return selected, nil
}

// BuildSelectPrompt builds the URL selection prompt.
func BuildSelectPrompt(packageName string, results []llmmin.SearchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze the following search results for the package %q. ", packageName)
	sb.WriteString("Identify the single most likely URL pointing to the official or primary documentation root page. ")
	sb.WriteString("Strongly prioritize readthedocs.io and github.io domains, and URLs containing the package name. ")
	sb.WriteString("Prefer dedicated documentation sites over tutorials, blogs, or Stack Overflow. ")
	sb.WriteString("Never select package registry pages (pypi.org, npmjs.com, pkg.go.dev); they are not documentation sites. ")
	sb.WriteString("Output ONLY the selected URL and nothing else. If no suitable URL exists, output 'None'.\n\n")

	sb.WriteString("<results>\n")
	for i, r := range results {
		sb.WriteString("<result>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", r.Title)
		fmt.Fprintf(&sb, "<url>%s</url>\n", r.URL)
		fmt.Fprintf(&sb, "<snippet>%s</snippet>\n", r.Snippet)
		sb.WriteString("</result>\n")
	}
	sb.WriteString("</results>\n")
	return sb.String()
}
