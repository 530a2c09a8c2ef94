package detector

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// isWord mirrors a Unicode \w: letters, numbers and underscore
func isWord(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isHangulSyllable(r rune) bool { return r >= 0xAC00 && r <= 0xD7A3 }

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// aliasNeighbour reports whether r glues onto an alias and so forbids a match
func aliasNeighbour(r rune) bool { return isASCIIAlnum(r) || isHangulSyllable(r) }

func aliasBoundaryOK(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); aliasNeighbour(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); aliasNeighbour(r) {
			return false
		}
	}
	return true
}

// tokenHead and tokenBody are the character classes of a semantic candidate
func tokenHead(r rune) bool { return isASCIIAlnum(r) || isHangulSyllable(r) }

func tokenBody(r rune) bool {
	switch r {
	case '.', '-', '_', '/', '(', ')':
		return true
	}
	return tokenHead(r)
}

// candidate is a token considered by the semantic pass. Offsets are bytes
type candidate struct {
	text       string
	start, end int
}

// scanTokens finds tokens that start at a word boundary with a head
// character, extend greedily over body characters, and end at the last
// word boundary inside that run
func scanTokens(text string) []candidate {
	rs := []rune(text)
	offs := make([]int, len(rs)+1)
	o := 0
	for i, r := range rs {
		offs[i] = o
		o += utf8.RuneLen(r)
	}
	offs[len(rs)] = o

	wordAt := func(i int) bool { return i >= 0 && i < len(rs) && isWord(rs[i]) }

	var out []candidate
	for i := 0; i < len(rs); {
		if !tokenHead(rs[i]) || wordAt(i-1) {
			i++
			continue
		}
		j := i + 1
		for j < len(rs) && tokenBody(rs[j]) {
			j++
		}
		e := j
		for e > i && wordAt(e-1) == wordAt(e) {
			e--
		}
		if e == i {
			i++
			continue
		}
		out = append(out, candidate{text: string(rs[i:e]), start: offs[i], end: offs[e]})
		i = e
	}
	return out
}

var (
	allHangul  = regexp.MustCompile(`^[가-힣]+$`)
	josaSuffix = regexp.MustCompile(`(?:으로|라서|라며|라고|이라|라|을|를|은|는|이|가|에|에서|에게|께서|로|와|과|도|만|까지|부터|처럼|보다|께|한테|에게서|이다|함)$`)
	brandTail  = regexp.MustCompile(`(?:톡|그램|북|넷플|왓챠|웨일온|유튭|유튜브|티빙|캔바|키네|틱톡|페북|인스타|클래스룸|코랩|주피터|파이참)$`)
)

// stopwordsKO are everyday record-writing words that never name a brand
var stopwordsKO = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"프로그램", "개발", "진행", "통해", "작성", "정리", "제출", "보고서",
		"발표", "이동", "제작", "편집", "마무리", "활용", "참조", "옮겼다",
		"초안", "정리하고", "옮김", "검토", "결과", "내용", "학습", "활동",
	} {
		stopwordsKO[w] = struct{}{}
	}
}

// stripJosa removes one trailing particle from an all-Hangul token
func stripJosa(tok string) string {
	if !allHangul.MatchString(tok) {
		return tok
	}
	return josaSuffix.ReplaceAllString(tok, "")
}

// considerToken filters candidates: no stopwords, and all-Hangul tokens
// only when their stem ends like a known brand nickname
func considerToken(tok string) bool {
	base := stripJosa(tok)
	if _, stop := stopwordsKO[base]; stop {
		return false
	}
	if allHangul.MatchString(tok) && !brandTail.MatchString(base) {
		return false
	}
	return true
}

// FillRuneOffsets sets RuneStart/RuneEnd from the byte offsets
func FillRuneOffsets(text string, hits []Hit) {
	if len(hits) == 0 {
		return
	}
	idx := make(map[int]int, 2*len(hits))
	for _, h := range hits {
		idx[h.Start] = 0
		idx[h.End] = 0
	}
	n := 0
	for off := range text {
		if _, ok := idx[off]; ok {
			idx[off] = n
		}
		n++
	}
	if _, ok := idx[len(text)]; ok {
		idx[len(text)] = n
	}
	for i := range hits {
		hits[i].RuneStart = idx[hits[i].Start]
		hits[i].RuneEnd = idx[hits[i].End]
	}
}
