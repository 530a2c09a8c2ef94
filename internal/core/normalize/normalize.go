// Package normalize measures text the way byte-budgeted record systems do
// and rewrites invisible or ambiguous characters into a safe form.
//
// Normalize pipeline (each step optional except 1)
// 1 Drop invalid UTF-8 bytes
// 2 Unify newlines to LF or CRLF
// 3 Map NBSP, narrow NBSP and ideographic space to U+0020
// 4 Remove zero-width characters and the BOM
// 5 Remove C0/C1 controls other than LF, CR and TAB
// 6 Compose to NFC so decomposed Hangul stops costing extra bytes
// 7 Collapse horizontal whitespace runs within a line
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Newline selects how line breaks are rewritten
type Newline string

const (
	// NewlineKeep leaves CR, LF and CRLF as they are
	NewlineKeep Newline = "keep"
	// NewlineLF rewrites CRLF and lone CR to LF
	NewlineLF Newline = "lf"
	// NewlineCRLF rewrites every line break to CRLF
	NewlineCRLF Newline = "crlf"
)

// Options controls Normalize
type Options struct {
	Newline         Newline `json:"newline"`
	ReplaceNBSP     bool    `json:"replace_nbsp"`
	RemoveZeroWidth bool    `json:"remove_zero_width"`
	StripControls   bool    `json:"strip_controls"`
	Compose         bool    `json:"compose"`
	CollapseSpaces  bool    `json:"collapse_spaces"`
}

// DefaultOptions is what the record system expects: LF, no NBSP, no zero-widths
func DefaultOptions() Options {
	return Options{Newline: NewlineLF, ReplaceNBSP: true, RemoveZeroWidth: true}
}

func isNBSPLike(r rune) bool { return r == 0x00A0 || r == 0x202F || r == 0x3000 }

func isZeroWidth(r rune) bool {
	switch r {
	case 0x200B, 0x200C, 0x200D, 0x2060, 0xFEFF:
		return true
	}
	return false
}

func isStrayControl(r rune) bool {
	if r == '\n' || r == '\r' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7F || (r >= 0x80 && r <= 0x9F)
}

// chainKey identifies one combination of rune-level steps
type chainKey struct{ nbsp, zw, ctl, nfc bool }

var (
	poolsMu sync.Mutex
	pools   = map[chainKey]*sync.Pool{}
)

// chainPool returns a pool of transformer chains for k. Chains carry state
// so each call takes its own and resets it on return
func chainPool(k chainKey) *sync.Pool {
	poolsMu.Lock()
	defer poolsMu.Unlock()
	if p, ok := pools[k]; ok {
		return p
	}
	p := &sync.Pool{New: func() any {
		var ts []transform.Transformer
		if k.nbsp {
			ts = append(ts, runes.Map(func(r rune) rune {
				if isNBSPLike(r) {
					return ' '
				}
				return r
			}))
		}
		if k.zw {
			ts = append(ts, runes.Remove(runes.Predicate(isZeroWidth)))
		}
		if k.ctl {
			ts = append(ts, runes.Remove(runes.Predicate(isStrayControl)))
		}
		if k.nfc {
			ts = append(ts, norm.NFC)
		}
		return transform.Chain(ts...)
	}}
	pools[k] = p
	return p
}

var (
	toLF   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	toCRLF = strings.NewReplacer("\n", "\r\n")
)

// Normalize rewrites s according to opt. Normalize(Normalize(s)) == Normalize(s)
func Normalize(s string, opt Options) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	switch opt.Newline {
	case NewlineLF:
		s = toLF.Replace(s)
	case NewlineCRLF:
		s = toCRLF.Replace(toLF.Replace(s))
	}

	k := chainKey{nbsp: opt.ReplaceNBSP, zw: opt.RemoveZeroWidth, ctl: opt.StripControls, nfc: opt.Compose}
	if k != (chainKey{}) {
		p := chainPool(k)
		tr := p.Get().(transform.Transformer)
		if out, _, err := transform.String(tr, s); err == nil {
			s = out
		}
		tr.Reset()
		p.Put(tr)
	}

	if opt.CollapseSpaces {
		s = collapseSpaces(s)
	}
	return s
}

// collapseSpaces turns each run of horizontal whitespace into one ASCII space
// and trims it from line edges. Line breaks are kept as they are
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	lineStart := true
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			pending = false
			lineStart = true
			b.WriteRune(r)
		case unicode.IsSpace(r):
			pending = !lineStart
		default:
			if pending {
				b.WriteByte(' ')
				pending = false
			}
			lineStart = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
