package repositories

import (
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitedHTTPClient wraps an HTTPClient with a token-bucket rate limiter.
// The free tiers of the public APIs this app talks to throttle aggressive
// clients, so outbound requests wait for a token or the request context.
type RateLimitedHTTPClient struct {
	client  HTTPClient
	limiter *rate.Limiter
}

// NewRateLimitedHTTPClient allows rps requests per second (fractional values
// permit less than one request per second) with the given burst size.
func NewRateLimitedHTTPClient(client HTTPClient, rps float64, burst int) *RateLimitedHTTPClient {
	return &RateLimitedHTTPClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, errors.Wrap(err, "rate limit wait canceled")
	}
	return c.client.Do(req)
}

var _ HTTPClient = (*RateLimitedHTTPClient)(nil)
