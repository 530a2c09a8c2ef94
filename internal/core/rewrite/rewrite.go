// Package rewrite turns resolved hits into a policy-compliant text and a
// segment view of the original for renderers
package rewrite

import (
	"sort"
	"strings"

	"liferec/internal/core/detector"
	"liferec/internal/core/particle"
	"liferec/internal/core/policy"
)

// Kind classifies a preview segment
type Kind string

const (
	// KindPlain is untouched original text
	KindPlain Kind = "plain"
	// KindReplaced is a span substituted by its replacement
	KindReplaced Kind = "replaced"
	// KindDeleted is a span removed from the output
	KindDeleted Kind = "deleted"
	// KindFlagged is a hit kept verbatim for human review
	KindFlagged Kind = "flagged"
)

// Segment is one contiguous piece of the original text and what it becomes.
// Start/End are byte offsets into the original and include a particle that
// was re-inflected or deleted along with the hit
type Segment struct {
	Kind       Kind
	Original   string
	Text       string
	Start, End int
	Label      string
	Confidence float64
	Hit        int // index into the hits passed in, -1 for plain
}

// Change is one edit Apply made
type Change struct {
	Start, End int
	Before     string
	After      string
	Label      string
	RuleID     string
	Confidence float64
}

// Summary counts hits by how a renderer should treat them
type Summary struct {
	Total       int
	AutoApplied int
	NeedsReview int
	FlagOnly    int
}

// Eligible reports whether h is applied without review: it must propose a
// replacement or a deletion and reach minConf
func Eligible(h detector.Hit, minConf float64) bool {
	if h.Confidence < minConf {
		return false
	}
	return h.HasReplacement() || h.Action == policy.ActionDelete
}

// Preview splits text into segments. Overlapping hits, and hits starting
// inside a particle consumed by an earlier edit, are skipped
func Preview(text string, hits []detector.Hit, minConf float64) []Segment {
	order := make([]int, len(hits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return hits[order[a]].Start < hits[order[b]].Start })

	var segs []Segment
	cursor := 0
	for _, i := range order {
		h := hits[i]
		if h.Start < cursor || h.End > len(text) || h.Start >= h.End {
			continue
		}
		if h.Start > cursor {
			segs = append(segs, plain(text, cursor, h.Start))
		}
		seg := Segment{
			Start:      h.Start,
			End:        h.End,
			Label:      h.Label,
			Confidence: h.Confidence,
			Hit:        i,
		}
		switch {
		case !Eligible(h, minConf):
			seg.Kind = KindFlagged
			seg.Text = text[h.Start:h.End]
		case h.Action == policy.ActionDelete:
			seg.Kind = KindDeleted
			if h.DeleteWithParticle {
				seg.End += len(particle.FollowingDeletable(text[h.End:]))
			}
		default:
			seg.Kind = KindReplaced
			out, n := particle.Substitute(h.Replacement, text[h.End:])
			seg.Text = out
			seg.End += n
		}
		seg.Original = text[seg.Start:seg.End]
		segs = append(segs, seg)
		cursor = seg.End
	}
	if cursor < len(text) {
		segs = append(segs, plain(text, cursor, len(text)))
	}
	return segs
}

func plain(text string, start, end int) Segment {
	s := text[start:end]
	return Segment{Kind: KindPlain, Original: s, Text: s, Start: start, End: end, Hit: -1}
}

// Apply performs every eligible edit in one pass over text. Output without
// eligible hits equals the input
func Apply(text string, hits []detector.Hit, minConf float64) (string, []Change) {
	segs := Preview(text, hits, minConf)
	var b strings.Builder
	b.Grow(len(text))
	var changes []Change
	for _, s := range segs {
		b.WriteString(s.Text)
		if s.Kind != KindReplaced && s.Kind != KindDeleted {
			continue
		}
		changes = append(changes, Change{
			Start:      s.Start,
			End:        s.End,
			Before:     s.Original,
			After:      s.Text,
			Label:      s.Label,
			RuleID:     hits[s.Hit].RuleID,
			Confidence: s.Confidence,
		})
	}
	return b.String(), changes
}

// Summarize counts auto-applied, review-needed and flag-only hits
func Summarize(hits []detector.Hit, minConf float64) Summary {
	s := Summary{Total: len(hits)}
	for _, h := range hits {
		switch {
		case Eligible(h, minConf):
			s.AutoApplied++
		case h.HasReplacement() || h.Action == policy.ActionDelete:
			s.NeedsReview++
		default:
			s.FlagOnly++
		}
	}
	return s
}
