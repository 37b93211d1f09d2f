// Package ratelimit gates outgoing provider requests.
package ratelimit

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"marketdash/internal/provider"
)

// Client wraps an HTTP client and waits on Limiter before every request.
// Waiting reserves a slot, so concurrent requests are spaced too. A request
// whose context ends while waiting is never sent.
type Client struct {
	Next    provider.HTTPClient
	Limiter *rate.Limiter
}

// New gates next to one request per every, allowing burst back to back.
func New(next provider.HTTPClient, every time.Duration, burst int) *Client {
	if burst <= 0 {
		burst = 1
	}
	return &Client{Next: next, Limiter: rate.NewLimiter(rate.Every(every), burst)}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.Limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return c.Next.Do(req)
}

// Wrap puts the gate described by rpm, burst and minInterval in front of next.
// A positive rpm allows rpm requests a minute with the given burst; otherwise a
// positive minInterval spaces requests one at a time; otherwise next is
// returned as is.
func Wrap(next provider.HTTPClient, rpm, burst int, minInterval time.Duration) provider.HTTPClient {
	switch {
	case rpm > 0:
		return New(next, time.Minute/time.Duration(rpm), burst)
	case minInterval > 0:
		return New(next, minInterval, 1)
	default:
		return next
	}
}
