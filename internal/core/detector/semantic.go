package detector

import (
	"context"
	"math"
	"unicode/utf8"

	"liferec/internal/core/embed"
	perr "liferec/internal/platform/errors"
)

// Semantic maps candidate tokens to their nearest alias by cosine similarity.
// A token is reported only when the best alias clears the threshold and
// beats the runner-up by the margin. Confidence stays below auto-apply.
// Without alias vectors it returns nothing; an embedder error is returned
// with no hits so the caller can degrade
func (d *Detector) Semantic(ctx context.Context, text string) ([]Hit, error) {
	if !d.repo.SemanticEnabled() {
		return nil, nil
	}
	so := d.opts.Semantic
	var cands []candidate
	for _, c := range scanTokens(text) {
		n := utf8.RuneCountInString(c.text)
		if n < so.MinTokenLen || n > so.MaxTokenLen || !considerToken(c.text) {
			continue
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return nil, nil
	}

	texts := make([]string, len(cands))
	for i, c := range cands {
		texts[i] = c.text
	}
	vecs, err := d.repo.Embedder().Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(cands) {
		return nil, perr.Embedderf("detector: embedder returned %d vectors for %d tokens", len(vecs), len(cands))
	}

	aliases := d.repo.Aliases()
	matrix := d.repo.AliasVectors()
	type span struct{ start, end int }
	used := map[span]bool{}
	var hits []Hit
	for i, v := range vecs {
		if so.MaxHits > 0 && len(hits) >= so.MaxHits {
			break
		}
		norm := embed.Norm(v)
		if norm == 0 {
			continue
		}
		best, idx, second := nearest(v, 1/norm, matrix)
		if idx < 0 || best < so.Threshold || best-second < so.Margin {
			continue
		}
		c := cands[i]
		if used[span{c.start, c.end}] {
			continue
		}
		used[span{c.start, c.end}] = true

		conf := math.Min(so.ConfMax, math.Max(so.ConfMin, best*so.ConfScale))
		r := d.repo.Rule(aliases[idx].Rule)
		hits = append(hits, hitFromRule(r, text, c.start, c.end, conf, PassSemantic))
	}
	return hits, nil
}

// nearest returns the best cosine, its row and the second best cosine.
// v is scaled by inv instead of normalised in place since embedders may
// hand out shared slices. With a single row the second best is 0
func nearest(v []float32, inv float64, matrix [][]float32) (best float64, idx int, second float64) {
	best, second, idx = math.Inf(-1), math.Inf(-1), -1
	for j, row := range matrix {
		s := embed.Dot(v, row) * inv
		if s > best {
			second = best
			best, idx = s, j
		} else if s > second {
			second = s
		}
	}
	if len(matrix) == 1 {
		second = 0
	}
	return best, idx, second
}
