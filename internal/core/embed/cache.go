package embed

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached memoises vectors per input string. Only misses reach the wrapped embedder
type Cached struct {
	next  Embedder
	cache *gocache.Cache
}

// NewCached wraps next with an in-memory cache; ttl <= 0 keeps entries forever
func NewCached(next Embedder, ttl time.Duration) *Cached {
	cleanup := 10 * time.Minute
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}
	return &Cached{next: next, cache: gocache.New(ttl, cleanup)}
}

// Embed serves hits from the cache and fetches the rest in one batch
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missText []string
	seen := map[string]bool{}
	for i, s := range texts {
		if v, ok := c.cache.Get(s); ok {
			out[i] = v.([]float32)
			continue
		}
		missIdx = append(missIdx, i)
		if !seen[s] {
			seen[s] = true
			missText = append(missText, s)
		}
	}
	if len(missText) == 0 {
		return out, nil
	}

	vecs, err := c.next.Embed(ctx, missText)
	if err != nil {
		return nil, err
	}
	byText := make(map[string][]float32, len(missText))
	for i, s := range missText {
		if i < len(vecs) {
			byText[s] = vecs[i]
			c.cache.SetDefault(s, vecs[i])
		}
	}
	for _, i := range missIdx {
		out[i] = byText[texts[i]]
	}
	return out, nil
}

// Ping goes straight to the wrapped embedder; a cached vector says nothing
// about the upstream
func (c *Cached) Ping(ctx context.Context) error { return Ping(ctx, c.next) }

// Len reports the number of cached strings
func (c *Cached) Len() int { return c.cache.ItemCount() }
