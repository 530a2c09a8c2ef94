package embed

import (
	"context"

	perr "liferec/internal/platform/errors"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped embedder with a token bucket
type Limited struct {
	next Embedder
	lim  *rate.Limiter
}

// NewLimited allows rps calls per second with the given burst (min 1)
func NewLimited(next Embedder, rps float64, burst int) *Limited {
	if burst <= 0 {
		burst = 1
	}
	return &Limited{next: next, lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Embed waits for a token, then delegates
func (l *Limited) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.lim.Wait(ctx); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeTooManyRequests, "embed: rate limit wait")
	}
	return l.next.Embed(ctx, texts)
}

// Ping takes a token like any other call, then pings the wrapped embedder
func (l *Limited) Ping(ctx context.Context) error {
	if err := l.lim.Wait(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeTooManyRequests, "embed: rate limit wait")
	}
	return Ping(ctx, l.next)
}
