package internal

import "context"

// RateLimiter paces outgoing API requests
type RateLimiter interface {
	// Wait blocks until one request may be sent or ctx is done
	Wait(ctx context.Context) error
}
