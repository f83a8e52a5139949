package gemini_test

import (
	"context"
	"testing"

	"github.com/marv1nnnnn/llmmin"
	"github.com/marv1nnnnn/llmmin/gemini"
	"github.com/marv1nnnnn/llmmin/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSelector_SelectDocURL(t *testing.T) {
	t.Parallel()

	results := []llmmin.SearchResult{
		{Title: "Requests docs", URL: "https://requests.readthedocs.io/en/latest/", Snippet: "official docs"},
		{Title: "requests · PyPI", URL: "https://pypi.org/project/requests/", Snippet: "registry page"},
	}

	t.Run("returns the model's selected URL", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
				assert.Contains(t, prompt, `"requests"`)
				assert.Contains(t, prompt, "https://requests.readthedocs.io/en/latest/")
				return "https://requests.readthedocs.io/en/latest/\n", nil
			},
		}

		s := gemini.NewURLSelector(completer)
		selected, err := s.SelectDocURL(context.Background(), "requests", results)
		require.NoError(t, err)
		assert.Equal(t, "https://requests.readthedocs.io/en/latest/", selected)
	})

	t.Run("returns ENOTFOUND when the model answers none", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
				return "None", nil
			},
		}

		s := gemini.NewURLSelector(completer)
		_, err := s.SelectDocURL(context.Background(), "obscurepkg", results)
		assert.Equal(t, llmmin.ENOTFOUND, llmmin.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for a non-URL answer", func(t *testing.T) {
		t.Parallel()

		completer := &mock.Completer{
			CompleteFn: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
				return "The best option is probably the readthedocs page.", nil
			},
		}

		s := gemini.NewURLSelector(completer)
		_, err := s.SelectDocURL(context.Background(), "requests", results)
		assert.Equal(t, llmmin.ENOTFOUND, llmmin.ErrorCode(err))
	})

	t.Run("rejects empty inputs", func(t *testing.T) {
		t.Parallel()

		s := gemini.NewURLSelector(&mock.Completer{})

		_, err := s.SelectDocURL(context.Background(), "", results)
		assert.Equal(t, llmmin.EINVALID, llmmin.ErrorCode(err))

		_, err = s.SelectDocURL(context.Background(), "requests", nil)
		assert.Equal(t, llmmin.ENOTFOUND, llmmin.ErrorCode(err))
	})
}

func TestBuildSelectPrompt(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildSelectPrompt("flask", []llmmin.SearchResult{
		{Title: "Flask docs", URL: "https://flask.palletsprojects.com", Snippet: "web framework"},
	})

	assert.Contains(t, prompt, "readthedocs.io")
	assert.Contains(t, prompt, "pypi.org")
	assert.Contains(t, prompt, "<url>https://flask.palletsprojects.com</url>")
	assert.Contains(t, prompt, "output 'None'")
}
