// Package particle picks and strips the Korean postpositional particle
// (josa) that follows a rewritten span
package particle

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	hangulFirst = 0xAC00
	hangulLast  = 0xD7A3
	finalCount  = 28
	finalRieul  = 8
)

// syllableFinal returns the final-consonant index of the last rune of word
// (trailing whitespace ignored) and whether that rune is a precomposed syllable
func syllableFinal(word string) (int, bool) {
	r, _ := utf8.DecodeLastRuneInString(strings.TrimRightFunc(word, unicode.IsSpace))
	if r < hangulFirst || r > hangulLast {
		return 0, false
	}
	return int(r-hangulFirst) % finalCount, true
}

// HasBatchim reports whether word ends in a Hangul syllable with a final consonant
func HasBatchim(word string) bool {
	f, ok := syllableFinal(word)
	return ok && f != 0
}

// IsRieulFinal reports whether word ends in a syllable whose final consonant is ㄹ
func IsRieulFinal(word string) bool {
	f, ok := syllableFinal(word)
	return ok && f == finalRieul
}

// Choose returns the allomorph of p that agrees with word.
// Particles without alternation come back unchanged
func Choose(word, p string) string {
	b := HasBatchim(word)
	switch p {
	case "로", "으로":
		if !b || IsRieulFinal(word) {
			return "로"
		}
		return "으로"
	case "와", "과":
		return pick(b, "과", "와")
	case "는", "은":
		return pick(b, "은", "는")
	case "가", "이":
		return pick(b, "이", "가")
	case "를", "을":
		return pick(b, "을", "를")
	}
	return p
}

func pick(batchim bool, with, without string) string {
	if batchim {
		return with
	}
	return without
}

// inflectable lists the alternating particles, longest first
var inflectable = []string{"으로", "로", "을", "를", "은", "는", "이", "가", "과", "와"}

// deletable adds the non-alternating particles that are dropped along with a
// deleted span; longest first so 에서 wins over 에
var deletable = []string{
	"에게서", "이랑", "으로", "에서", "에게", "까지", "부터", "처럼", "보다", "하고",
	"로", "을", "를", "은", "는", "이", "가", "과", "와", "에", "의", "도", "만", "랑",
}

// Following returns the inflectable particle that s starts with, or ""
func Following(s string) string { return prefixIn(s, inflectable) }

// FollowingDeletable returns the deletable particle that s starts with, or ""
func FollowingDeletable(s string) string { return prefixIn(s, deletable) }

func prefixIn(s string, set []string) string {
	for _, p := range set {
		if strings.HasPrefix(s, p) {
			return p
		}
	}
	return ""
}

// Substitute returns replacement followed by the particle in rest re-chosen
// to agree with replacement, and the number of bytes of rest consumed
func Substitute(replacement, rest string) (string, int) {
	p := Following(rest)
	if p == "" {
		return replacement, 0
	}
	return replacement + Choose(replacement, p), len(p)
}
