package compact

import (
	"context"

	"github.com/marv1nnnnn/llmmin"
	"golang.org/x/time/rate"
)

var _ llmmin.Completer = (*RateLimitedCompleter)(nil)

// RateLimitedCompleter wraps a Completer with a token-bucket limit so
// concurrent document pipelines stay under the model provider's request
// quota.
type RateLimitedCompleter struct {
	next    llmmin.Completer
	limiter *rate.Limiter
}

// NewRateLimitedCompleter creates a RateLimitedCompleter allowing rps
// requests per second with a burst of 1.
func NewRateLimitedCompleter(next llmmin.Completer, rps float64) *RateLimitedCompleter {
	return &RateLimitedCompleter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Complete blocks until the rate limit allows a request, then delegates.
func (c *RateLimitedCompleter) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.Complete(ctx, prompt, maxOutputTokens)
}
