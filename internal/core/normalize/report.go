package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"liferec/internal/core/langhint"

	"golang.org/x/text/unicode/runenames"
)

// Suspicious is one occurrence of an invisible or ambiguous codepoint
type Suspicious struct {
	Index     int    `json:"index"` // codepoint offset
	Repr      string `json:"repr"`
	Codepoint string `json:"codepoint"` // U+XXXX
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// Report is the byte and character accounting for one text
type Report struct {
	ByteLen      int          `json:"byte_len"`
	Chars        int          `json:"chars"`
	CharsNoSpace int          `json:"chars_no_space"`
	LF           int          `json:"lf"`
	CR           int          `json:"cr"`
	Tab          int          `json:"tab"`
	Suspicious   []Suspicious `json:"suspicious"`
	Scripts      langhint.Mix `json:"scripts"`

	Normalized        *string `json:"normalized,omitempty"`
	NormalizedByteLen *int    `json:"normalized_byte_len,omitempty"`
}

// suspicious is the fixed table of codepoints worth pointing out
var suspicious = map[rune]bool{
	0x0009: true, 0x000A: true, 0x000D: true,
	0x00A0: true,
	0x200B: true, 0x200C: true, 0x200D: true,
	0x202F: true, 0x205F: true,
	0x3000: true,
	0xFEFF: true,
}

// IsSuspicious reports whether r is in the suspicious table
func IsSuspicious(r rune) bool {
	if r >= 0x2000 && r <= 0x200A {
		return true
	}
	return suspicious[r]
}

// controlNames covers the controls that runenames only labels "<control>"
var controlNames = map[rune]string{
	0x0009: "CHARACTER TABULATION",
	0x000A: "LINE FEED (LF)",
	0x000D: "CARRIAGE RETURN (CR)",
}

// Name returns the Unicode character name of r
func Name(r rune) string {
	if n, ok := controlNames[r]; ok {
		return n
	}
	n := runenames.Name(r)
	if n == "" || strings.HasPrefix(n, "<") {
		return "UNKNOWN"
	}
	return n
}

var categories = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Cc", unicode.Cc}, {"Cf", unicode.Cf}, {"Zs", unicode.Zs}, {"Zl", unicode.Zl}, {"Zp", unicode.Zp},
	{"Lu", unicode.Lu}, {"Ll", unicode.Ll}, {"Lt", unicode.Lt}, {"Lm", unicode.Lm}, {"Lo", unicode.Lo},
	{"Mn", unicode.Mn}, {"Mc", unicode.Mc}, {"Me", unicode.Me},
	{"Nd", unicode.Nd}, {"Nl", unicode.Nl}, {"No", unicode.No},
	{"Pc", unicode.Pc}, {"Pd", unicode.Pd}, {"Ps", unicode.Ps}, {"Pe", unicode.Pe},
	{"Pi", unicode.Pi}, {"Pf", unicode.Pf}, {"Po", unicode.Po},
	{"Sm", unicode.Sm}, {"Sc", unicode.Sc}, {"Sk", unicode.Sk}, {"So", unicode.So},
	{"Co", unicode.Co}, {"Cs", unicode.Cs},
}

// Category returns the two-letter Unicode general category of r; Cn if unassigned
func Category(r rune) string {
	for _, c := range categories {
		if unicode.Is(c.table, r) {
			return c.name
		}
	}
	return "Cn"
}

// Analyze measures text. When opt is non-nil the normalized form and its byte
// length are included
func Analyze(text string, opt *Options) Report {
	rep := Report{
		ByteLen:    len(text),
		Chars:      utf8.RuneCountInString(text),
		LF:         strings.Count(text, "\n"),
		CR:         strings.Count(text, "\r"),
		Tab:        strings.Count(text, "\t"),
		Suspicious: []Suspicious{},
		Scripts:    langhint.Profile(text),
	}
	i := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			rep.CharsNoSpace++
		}
		if IsSuspicious(r) {
			rep.Suspicious = append(rep.Suspicious, Suspicious{
				Index:     i,
				Repr:      strconv.QuoteRune(r),
				Codepoint: fmt.Sprintf("U+%04X", r),
				Name:      Name(r),
				Category:  Category(r),
			})
		}
		i++
	}
	if opt != nil {
		n := Normalize(text, *opt)
		nl := len(n)
		rep.Normalized = &n
		rep.NormalizedByteLen = &nl
	}
	return rep
}
