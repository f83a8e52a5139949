package main_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marv1nnnnn/llmmin"
	main "github.com/marv1nnnnn/llmmin/cmd/llmmin"
	"github.com/marv1nnnnn/llmmin/compact"
	"github.com/marv1nnnnn/llmmin/fs"
	"github.com/marv1nnnnn/llmmin/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("compacts a local file and writes the artifact", func(t *testing.T) {
		t.Parallel()

		inputPath := filepath.Join(t.TempDir(), "requests.md")
		require.NoError(t, os.WriteFile(inputPath, []byte("requests.get sends a GET request."), 0644))

		outDir := t.TempDir()
		deps, _ := testDeps(t, outDir)
		deps.Compactor = &compact.Compactor{
			Completer: &mock.Completer{
				CompleteFn: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
					return recordLine + "\n", nil
				},
			},
			Checkpoints: deps.Checkpoints,
			Chunker:     &llmmin.Chunker{TokenBudget: 10000},
			Version:     "2.32",
			RetryDelays: []time.Duration{},
		}

		cmd := &main.CompactCmd{Input: inputPath}
		require.NoError(t, cmd.Run(deps))

		// Name defaults to the file base without extension.
		compacted, err := os.ReadFile(filepath.Join(outDir, "requests", fs.CompactedFileName))
		require.NoError(t, err)
		assert.Contains(t, string(compacted), "#LIB|requests|2.32|")
		assert.Contains(t, string(compacted), "requests.get")
	})

	t.Run("reports the checkpointed resume point on failure", func(t *testing.T) {
		t.Parallel()

		inputPath := filepath.Join(t.TempDir(), "doc.txt")
		require.NoError(t, os.WriteFile(inputPath, []byte("some documentation text"), 0644))

		deps, _ := testDeps(t, t.TempDir())
		deps.Compactor = &compact.Compactor{
			Completer: &mock.Completer{
				CompleteFn: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
					return "", llmmin.Errorf(llmmin.EUNAVAILABLE, "model overloaded")
				},
			},
			Checkpoints: deps.Checkpoints,
			Chunker:     &llmmin.Chunker{TokenBudget: 10000},
			RetryDelays: []time.Duration{},
		}

		cmd := &main.CompactCmd{Input: inputPath}
		err := cmd.Run(deps)
		require.Error(t, err)
		assert.Equal(t, llmmin.EUNAVAILABLE, llmmin.ErrorCode(err))
	})
}
