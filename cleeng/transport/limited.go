package transport

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles outgoing batches with a token bucket
type Limited struct {
	next    Caller
	limiter *rate.Limiter
}

// NewLimited wraps next so that at most rps batches per second are sent,
// with bursts of up to burst. A burst below 1 is treated as 1.
func NewLimited(next Caller, rps float64, burst int) *Limited {
	if burst < 1 {
		burst = 1
	}
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Call waits for a token, then forwards the batch
func (l *Limited) Call(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.Call(ctx, endpoint, body)
}
