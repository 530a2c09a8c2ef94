// Package resolve turns overlapping candidate hits from the detector passes
// into one non-overlapping, ordered annotation list
package resolve

import (
	"sort"

	"liferec/internal/core/detector"
)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

// CollapseParenthetical folds "outer(inner)" pairs into one hit covering
// both, as in 유엔(UN). The pair collapses only when both hits share the
// label and a non-empty replacement, inner sits entirely between the
// parentheses and only whitespace separates the parts. The collapsed hit
// takes the outer hit's source and the higher confidence. Hits that take
// no part in a pair pass through; exact duplicates are dropped
func CollapseParenthetical(text string, hits []detector.Hit) []detector.Hit {
	if len(hits) == 0 {
		return nil
	}
	hs := append([]detector.Hit(nil), hits...)
	sort.SliceStable(hs, func(i, j int) bool {
		if hs[i].Start != hs[j].Start {
			return hs[i].Start < hs[j].Start
		}
		return hs[i].End < hs[j].End
	})

	used := make([]bool, len(hs))
	var out []detector.Hit
	for i := range hs {
		if used[i] {
			continue
		}
		hi := hs[i]
		k := skipSpace(text, hi.End)
		if k >= len(text) || text[k] != '(' {
			continue
		}
		j := sort.Search(len(hs), func(n int) bool { return hs[n].Start >= k+1 })
		for j < len(hs) && used[j] {
			j++
		}
		if j >= len(hs) {
			continue
		}
		hj := hs[j]
		innerStart := skipSpace(text, k+1)
		closeAt := skipSpace(text, hj.End)
		if closeAt >= len(text) || text[closeAt] != ')' {
			continue
		}
		if hj.Start < innerStart || hj.End > closeAt {
			continue
		}
		if hi.Label != hj.Label || hi.Replacement != hj.Replacement || !hi.HasReplacement() {
			continue
		}

		c := hi
		c.Span = text[hi.Start : closeAt+1]
		c.End = closeAt + 1
		if hj.Confidence > c.Confidence {
			c.Confidence = hj.Confidence
		}
		c.Pass = detector.PassCollapsed
		out = append(out, c)
		used[i], used[j] = true, true
	}
	for i, h := range hs {
		if !used[i] {
			out = append(out, h)
		}
	}
	return sortHits(dedupe(out))
}

type dedupeKey struct {
	start, end         int
	label, replacement string
}

func dedupe(hits []detector.Hit) []detector.Hit {
	seen := make(map[dedupeKey]struct{}, len(hits))
	out := hits[:0]
	for _, h := range hits {
		k := dedupeKey{h.Start, h.End, h.Label, h.Replacement}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	return out
}

func sortHits(hits []detector.Hit) []detector.Hit {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Start != hits[j].Start {
			return hits[i].Start < hits[j].Start
		}
		return hits[i].End < hits[j].End
	})
	return hits
}

// Merge combines hit groups into a non-overlapping list ordered by start.
// Overlaps resolve to the earliest start, then the longest span, then the
// highest confidence; on a full tie the earlier group wins
func Merge(groups ...[]detector.Hit) []detector.Hit {
	var all []detector.Hit
	for _, g := range groups {
		all = append(all, g...)
	}
	if len(all) == 0 {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		return a.Confidence > b.Confidence
	})

	out := make([]detector.Hit, 0, len(all))
	lastEnd := -1
	for _, h := range all {
		if h.Start < lastEnd {
			continue
		}
		out = append(out, h)
		lastEnd = h.End
	}
	return out
}
