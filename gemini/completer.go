// Package gemini provides Google Gemini implementations of the llmmin
// model-facing interfaces.
package gemini

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements llmmin.Completer at compile time.
var _ llmmin.Completer = (*Completer)(nil)

// Completer implements llmmin.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects
// DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends a prompt and returns the raw model response.
func (c *Completer) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if prompt == "" {
		return "", llmmin.Errorf(llmmin.EINVALID, "prompt required")
	}

	config := BuildConfig(maxOutputTokens)

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", llmmin.Errorf(llmmin.EUNAVAILABLE, "gemini: %v", err)
	}
	if result == nil {
		return "", llmmin.Errorf(llmmin.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for compaction calls.
// Temperature is kept low: the model is transcribing structure, not
// writing prose.
func BuildConfig(maxOutputTokens int) *genai.GenerateContentConfig {
	temp := float32(0.2)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You produce machine-parsable positional records describing software documentation. Output only record lines, exactly in the requested format, with no surrounding prose.",
			}},
		},
		Temperature: &temp,
	}
	if maxOutputTokens > 0 {
		config.MaxOutputTokens = int32(maxOutputTokens)
	}
	return config
}
