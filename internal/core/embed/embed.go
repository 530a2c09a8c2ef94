// Package embed turns short strings into unit-length vectors for the
// semantic pass. The concrete provider is injected; nil means no embedder
package embed

import (
	"context"
	"math"

	perr "liferec/internal/platform/errors"
)

// Embedder maps each input string to a vector. Returned vectors are
// L2-normalised so a dot product is a cosine similarity
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Func adapts a plain function to Embedder
type Func func(ctx context.Context, texts []string) ([][]float32, error)

// Embed calls f
func (f Func) Embed(ctx context.Context, texts []string) ([][]float32, error) { return f(ctx, texts) }

// Pinger is implemented by embedders that can check their upstream
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingText = "ping"

// Ping checks e through its own Ping when it has one, otherwise with a
// one-string Embed call
func Ping(ctx context.Context, e Embedder) error {
	if e == nil {
		return perr.Unavailablef("embed: no embedder configured")
	}
	if p, ok := e.(Pinger); ok {
		return p.Ping(ctx)
	}
	vecs, err := e.Embed(ctx, []string{pingText})
	if err != nil {
		return err
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return perr.Embedderf("embed: ping returned %d vectors", len(vecs))
	}
	return nil
}

// Norm returns the Euclidean length of v
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// L2Normalize scales v in place to unit length and returns it. Zero vectors are left as is
func L2Normalize(v []float32) []float32 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	inv := 1 / n
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}

// Dot returns the dot product over the shorter of the two vectors
func Dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
