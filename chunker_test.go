package llmmin_test

import (
	"strings"
	"testing"

	"github.com/marv1nnnnn/llmmin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Plan(t *testing.T) {
	t.Parallel()

	t.Run("concatenated chunks reproduce the input exactly", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		for i := 0; i < 400; i++ {
			b.WriteString("Paragraph about some API behavior, long enough to matter.\n\n")
		}
		text := b.String()

		c := &llmmin.Chunker{TokenBudget: 6000}
		plan, err := c.Plan(text)
		require.NoError(t, err)
		require.Greater(t, len(plan.Chunks), 1)

		var rebuilt strings.Builder
		for i, chunk := range plan.Chunks {
			assert.Equal(t, i, chunk.Index)
			assert.NotEmpty(t, chunk.Text)
			assert.Equal(t, len(chunk.Text), chunk.ByteLength)
			assert.LessOrEqual(t, len(chunk.Text), plan.ChunkSize)
			rebuilt.WriteString(chunk.Text)
		}
		assert.Equal(t, text, rebuilt.String())
	})

	t.Run("prefers paragraph boundaries within the lookback window", func(t *testing.T) {
		t.Parallel()

		// Two paragraphs with the break inside the lookback window of the
		// first cut.
		first := strings.Repeat("a", 1900)
		second := strings.Repeat("b", 1000)
		text := first + "\n\n" + second

		c := &llmmin.Chunker{
			TokenBudget:   llmmin.MinTokenBudget,
			CharsPerToken: 1, // chunk size = floor after overhead
			MinChunkChars: 2000,
		}
		plan, err := c.Plan(text)
		require.NoError(t, err)
		require.Len(t, plan.Chunks, 2)

		// Break characters stay with the earlier chunk.
		assert.Equal(t, first+"\n\n", plan.Chunks[0].Text)
		assert.Equal(t, second, plan.Chunks[1].Text)
	})

	t.Run("falls back to newline then hard cut", func(t *testing.T) {
		t.Parallel()

		first := strings.Repeat("a", 1900)
		second := strings.Repeat("b", 1000)
		text := first + "\n" + second

		c := &llmmin.Chunker{
			TokenBudget:   llmmin.MinTokenBudget,
			CharsPerToken: 1,
			MinChunkChars: 2000,
		}
		plan, err := c.Plan(text)
		require.NoError(t, err)
		require.Len(t, plan.Chunks, 2)
		assert.Equal(t, first+"\n", plan.Chunks[0].Text)

		// No break characters at all: hard cut at the size limit.
		solid := strings.Repeat("c", 4500)
		plan, err = c.Plan(solid)
		require.NoError(t, err)
		require.Len(t, plan.Chunks, 3)
		assert.Equal(t, 2000, plan.Chunks[0].ByteLength)
		assert.Equal(t, 2000, plan.Chunks[1].ByteLength)
		assert.Equal(t, 500, plan.Chunks[2].ByteLength)
	})

	t.Run("whitespace-only input yields an empty plan", func(t *testing.T) {
		t.Parallel()

		c := &llmmin.Chunker{TokenBudget: 10000}
		for _, text := range []string{"", "   ", "\n\n\t \n"} {
			plan, err := c.Plan(text)
			require.NoError(t, err)
			assert.True(t, plan.Empty())
		}
	})

	t.Run("budget below the minimum is rejected", func(t *testing.T) {
		t.Parallel()

		c := &llmmin.Chunker{TokenBudget: llmmin.MinTokenBudget - 1}
		_, err := c.Plan("some text")
		require.Error(t, err)
		assert.Equal(t, llmmin.EINVALID, llmmin.ErrorCode(err))
	})

	t.Run("chunk size is clamped to the floor", func(t *testing.T) {
		t.Parallel()

		// Budget barely above overhead would compute a tiny chunk size.
		c := &llmmin.Chunker{TokenBudget: 4100}
		assert.Equal(t, llmmin.DefaultMinChunkChars, c.ChunkSize())
	})
}
