package detector

import "liferec/internal/core/policy"

// UnknownLabel is the label of an unexplained uppercase token
const UnknownLabel = "미확인 영문 약어"

var unknownSource = policy.Source{
	Doc:   "자동 감지",
	Quote: "영문 약어가 감지됨. 한글 표기 필요 여부 검토 필요.",
}

func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }

func isASCIIWordByte(b byte) bool {
	return isUpper(b) || ('a' <= b && b <= 'z') || ('0' <= b && b <= '9') || b == '_'
}

// UnknownAbbrev flags runs of 2-10 uppercase ASCII letters that stand alone
// (no adjacent ASCII letter, digit or underscore), overlap none of known,
// and are neither declared abbreviations nor common English words.
// Hangul may touch the run, so particles like NASA는 still count
func (d *Detector) UnknownAbbrev(text string, known []Hit) []Hit {
	var hits []Hit
	for i := 0; i < len(text); {
		if !isUpper(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isUpper(text[j]) {
			j++
		}
		start, end := i, j
		i = j

		if n := end - start; n < 2 || n > 10 {
			continue
		}
		if (start > 0 && isASCIIWordByte(text[start-1])) || (end < len(text) && isASCIIWordByte(text[end])) {
			continue
		}
		if overlapsAny(start, end, known) {
			continue
		}
		abbr := text[start:end]
		if d.repo.IsKnownAbbreviation(abbr) || policy.IsCommonEnglish(abbr) {
			continue
		}
		hits = append(hits, Hit{
			Span:       abbr,
			Label:      UnknownLabel,
			Action:     policy.ActionFlag,
			Confidence: d.opts.UnknownConfidence,
			Source:     unknownSource,
			Start:      start,
			End:        end,
			Pass:       PassUnknownAbbrev,
		})
	}
	return hits
}

func overlapsAny(start, end int, hits []Hit) bool {
	for _, h := range hits {
		if start < h.End && h.Start < end {
			return true
		}
	}
	return false
}
