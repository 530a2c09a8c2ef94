// Package langhint profiles the scripts a text is written in. Records are
// expected to be Hangul with occasional Latin; a Latin or Han heavy text is
// a hint that foreign terms need review
package langhint

import (
	"unicode"

	"golang.org/x/text/language"
)

// Script names used as Mix.Counts keys
const (
	Hangul   = "Hangul"
	Han      = "Han"
	Latin    = "Latin"
	Hiragana = "Hiragana"
	Katakana = "Katakana"
	Cyrillic = "Cyrillic"
	Greek    = "Greek"
	Other    = "Other"
)

// minLetters is the least number of letters before a language is guessed
const minLetters = 20

// Mix counts letters per script
type Mix struct {
	Letters  int            `json:"letters"`
	Counts   map[string]int `json:"counts"`
	Dominant string         `json:"dominant,omitempty"`
	// Lang is a BCP-47 tag, set only when the script decides the language
	Lang string `json:"lang,omitempty"`
}

// order breaks ties: specific scripts win over Latin
var order = []string{Hiragana, Katakana, Hangul, Han, Greek, Cyrillic, Other, Latin}

func scriptOf(r rune) string {
	switch {
	case unicode.In(r, unicode.Hangul):
		return Hangul
	case unicode.In(r, unicode.Hiragana):
		return Hiragana
	case unicode.In(r, unicode.Katakana):
		return Katakana
	case unicode.In(r, unicode.Han):
		return Han
	case unicode.In(r, unicode.Latin):
		return Latin
	case unicode.In(r, unicode.Cyrillic):
		return Cyrillic
	case unicode.In(r, unicode.Greek):
		return Greek
	default:
		return Other
	}
}

// Profile counts the letters of s by script
func Profile(s string) Mix {
	m := Mix{Counts: map[string]int{}}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		m.Letters++
		m.Counts[scriptOf(r)]++
	}

	best := 0
	for _, name := range order {
		if c := m.Counts[name]; c > best {
			best, m.Dominant = c, name
		}
	}

	if m.Letters >= minLetters {
		var tag language.Tag
		switch {
		// kana is decisive for Japanese even next to Han
		case m.Counts[Hiragana] > 0 || m.Counts[Katakana] > 0:
			tag = language.Japanese
		case m.Counts[Hangul] > 0:
			tag = language.Korean
		case m.Dominant == Greek:
			tag = language.Greek
		}
		if tag != language.Und {
			m.Lang = tag.String()
		}
	}
	return m
}

// Share is the fraction of letters written in script, 0 for an empty text
func (m Mix) Share(script string) float64 {
	if m.Letters == 0 {
		return 0
	}
	return float64(m.Counts[script]) / float64(m.Letters)
}

// ForeignHeavy reports whether non-Hangul letters outnumber Hangul ones
func (m Mix) ForeignHeavy() bool {
	return m.Letters > 0 && m.Counts[Hangul]*2 < m.Letters
}
