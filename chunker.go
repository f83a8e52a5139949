package llmmin

import "strings"

// Chunker defaults. The characters-per-token estimate is deliberately
// conservative (real prose averages closer to 4) because over-estimating
// chunk size causes hard failures from the summarization model rather
// than merely suboptimal quality.
const (
	DefaultCharsPerToken        = 3.2
	DefaultPromptOverheadTokens = 4000
	DefaultMinChunkChars        = 2000
	DefaultBoundaryLookback     = 500
	MinTokenBudget              = 2000
)

// Chunk is one bounded-size contiguous slice of source text.
type Chunk struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	ByteLength int    `json:"byteLength"`
}

// ChunkPlan is the ordered chunk sequence for one document. It is
// immutable once computed for a given run unless the source text changes.
type ChunkPlan struct {
	Chunks    []Chunk `json:"chunks"`
	ChunkSize int     `json:"chunkSize"`
}

// Empty reports whether the plan contains no chunks.
func (p *ChunkPlan) Empty() bool {
	return len(p.Chunks) == 0
}

// Chunker splits raw text into a ChunkPlan sized from a token budget.
type Chunker struct {
	// TokenBudget is the target token budget for a single model call,
	// covering one chunk plus the fixed prompt overhead.
	TokenBudget int

	// CharsPerToken is the estimated characters-per-token ratio used to
	// convert the budget into a character size. Zero means the default.
	CharsPerToken float64

	// PromptOverheadTokens is the fixed token cost of the prompt template
	// and schema that accompany every chunk. Zero means the default.
	PromptOverheadTokens int

	// MinChunkChars clamps the computed chunk size to avoid pathological
	// numbers of tiny chunks. Zero means the default.
	MinChunkChars int

	// BoundaryLookback is how far back from a hard cut to search for a
	// paragraph or line boundary. Zero means the default.
	BoundaryLookback int
}

// ChunkSize returns the chunk character size derived from the token
// budget, clamped to the configured floor.
func (c *Chunker) ChunkSize() int {
	charsPerToken := c.CharsPerToken
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	overhead := c.PromptOverheadTokens
	if overhead <= 0 {
		overhead = DefaultPromptOverheadTokens
	}
	floor := c.MinChunkChars
	if floor <= 0 {
		floor = DefaultMinChunkChars
	}

	size := int(float64(c.TokenBudget-overhead) * charsPerToken)
	if size < floor {
		size = floor
	}
	return size
}

// Plan splits text into ordered, non-empty chunks whose concatenation
// reproduces the input exactly. Splits prefer paragraph breaks, then line
// breaks, within the look-back window; otherwise the text is cut at the
// size limit. Whitespace-only input yields an empty plan so the caller can
// short-circuit without invoking the model.
func (c *Chunker) Plan(text string) (*ChunkPlan, error) {
	if c.TokenBudget < MinTokenBudget {
		return nil, Errorf(EINVALID, "token budget %d below minimum %d", c.TokenBudget, MinTokenBudget)
	}

	size := c.ChunkSize()
	plan := &ChunkPlan{ChunkSize: size}

	if strings.TrimSpace(text) == "" {
		return plan, nil
	}

	lookback := c.BoundaryLookback
	if lookback <= 0 {
		lookback = DefaultBoundaryLookback
	}
	if lookback >= size {
		lookback = size / 2
	}

	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			end = splitPoint(text, start, end, lookback)
		}

		plan.Chunks = append(plan.Chunks, Chunk{
			Index:      len(plan.Chunks),
			Text:       text[start:end],
			ByteLength: end - start,
		})
		start = end
	}

	return plan, nil
}

// splitPoint finds the cut position for a chunk spanning [start, limit).
// It prefers the last paragraph break within the look-back window, then
// the last line break, and falls back to the hard limit. The break
// characters stay with the earlier chunk so concatenation is lossless.
func splitPoint(text string, start, limit, lookback int) int {
	window := limit - lookback
	if window < start+1 {
		window = start + 1
	}

	if i := strings.LastIndex(text[window:limit], "\n\n"); i >= 0 {
		return window + i + 2
	}
	if i := strings.LastIndex(text[window:limit], "\n"); i >= 0 {
		return window + i + 1
	}
	return limit
}
