package resolve

import (
	"strings"
	"testing"

	"liferec/internal/core/detector"
	"liferec/internal/core/policy"
)

func hitAt(text, span string, from int, label, repl string, conf float64) detector.Hit {
	start := from + strings.Index(text[from:], span)
	h := detector.Hit{
		Span: span, Label: label, Replacement: repl, Confidence: conf,
		Start: start, End: start + len(span), Pass: detector.PassLiteral,
		Action: policy.ActionReplace, Source: policy.Source{Doc: "doc-" + span},
	}
	if repl == "" {
		h.Action = policy.ActionFlag
	}
	return h
}

func TestCollapseParenthetical(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		hits     func(text string) []detector.Hit
		wantSpan []string
	}{
		{
			name: "outer and inner collapse",
			text: "유엔(UN) 회의",
			hits: func(text string) []detector.Hit {
				return []detector.Hit{
					hitAt(text, "UN", 0, "기관명", "국제기구", 0.98),
					hitAt(text, "유엔", 0, "기관명", "국제기구", 0.95),
				}
			},
			wantSpan: []string{"유엔(UN)"},
		},
		{
			name: "whitespace tolerated",
			text: "유엔 ( UN ) 회의",
			hits: func(text string) []detector.Hit {
				return []detector.Hit{
					hitAt(text, "유엔", 0, "기관명", "국제기구", 0.95),
					hitAt(text, "UN", 0, "기관명", "국제기구", 0.98),
				}
			},
			wantSpan: []string{"유엔 ( UN )"},
		},
		{
			name: "different replacement stays split",
			text: "NAVER(유튜브)",
			hits: func(text string) []detector.Hit {
				return []detector.Hit{
					hitAt(text, "NAVER", 0, "상호명", "포털사이트", 0.95),
					hitAt(text, "유튜브", 0, "상호명", "동영상 플랫폼", 0.95),
				}
			},
			wantSpan: []string{"NAVER", "유튜브"},
		},
		{
			name: "flag-only hits never collapse",
			text: "漢(字)",
			hits: func(text string) []detector.Hit {
				return []detector.Hit{
					hitAt(text, "漢", 0, "외국어", "", 0.99),
					hitAt(text, "字", 0, "외국어", "", 0.99),
				}
			},
			wantSpan: []string{"漢", "字"},
		},
		{
			name: "extra text inside parentheses",
			text: "유엔(UN 본부)",
			hits: func(text string) []detector.Hit {
				return []detector.Hit{
					hitAt(text, "유엔", 0, "기관명", "국제기구", 0.95),
					hitAt(text, "UN", 0, "기관명", "국제기구", 0.98),
				}
			},
			wantSpan: []string{"유엔", "UN"},
		},
		{
			name: "duplicates dropped",
			text: "유엔 회의",
			hits: func(text string) []detector.Hit {
				return []detector.Hit{
					hitAt(text, "유엔", 0, "기관명", "국제기구", 0.95),
					hitAt(text, "유엔", 0, "기관명", "국제기구", 0.94),
				}
			},
			wantSpan: []string{"유엔"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CollapseParenthetical(tc.text, tc.hits(tc.text))
			if len(got) != len(tc.wantSpan) {
				t.Fatalf("got %+v", got)
			}
			for i, w := range tc.wantSpan {
				h := got[i]
				if h.Span != w || tc.text[h.Start:h.End] != h.Span {
					t.Fatalf("hit %d = %+v, want span %q", i, h, w)
				}
			}
		})
	}
}

func TestCollapseKeepsOuterSource(t *testing.T) {
	text := "유엔(UN)"
	got := CollapseParenthetical(text, []detector.Hit{
		hitAt(text, "유엔", 0, "기관명", "국제기구", 0.95),
		hitAt(text, "UN", 0, "기관명", "국제기구", 0.98),
	})
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	h := got[0]
	if h.Source.Doc != "doc-유엔" || h.Confidence != 0.98 || h.Pass != detector.PassCollapsed || h.Start != 0 || h.End != len(text) {
		t.Fatalf("collapsed = %+v", h)
	}
}

func TestMerge(t *testing.T) {
	text := "Google Docs 문서"
	long := hitAt(text, "Google Docs", 0, "프로그램명", "온라인 문서 편집기", 0.92)
	short := hitAt(text, "Google", 0, "상호명", "포털사이트", 0.95)
	tail := hitAt(text, "문서", 0, "x", "y", 0.5)

	got := Merge([]detector.Hit{short, tail}, []detector.Hit{long})
	if len(got) != 2 || got[0].Span != "Google Docs" || got[1].Span != "문서" {
		t.Fatalf("longest should win: %+v", got)
	}

	lo := hitAt(text, "Google", 0, "a", "b", 0.7)
	hi := hitAt(text, "Google", 0, "c", "d", 0.9)
	if got := Merge([]detector.Hit{lo}, []detector.Hit{hi}); len(got) != 1 || got[0].Label != "c" {
		t.Fatalf("higher confidence should win: %+v", got)
	}

	first := hitAt(text, "Google", 0, "first", "b", 0.9)
	second := hitAt(text, "Google", 0, "second", "d", 0.9)
	if got := Merge([]detector.Hit{first}, []detector.Hit{second}); len(got) != 1 || got[0].Label != "first" {
		t.Fatalf("earlier group should win a full tie: %+v", got)
	}

	if got := Merge(nil, nil); got != nil {
		t.Fatalf("empty merge = %+v", got)
	}
}

func TestMergeNonOverlapping(t *testing.T) {
	text := "abcdefghij"
	var hits []detector.Hit
	for i := 0; i < len(text); i++ {
		for j := i + 1; j <= len(text) && j <= i+4; j++ {
			hits = append(hits, detector.Hit{Span: text[i:j], Start: i, End: j, Confidence: float64(j-i) / 10})
		}
	}
	got := Merge(hits)
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].End {
			t.Fatalf("overlap between %+v and %+v", got[i-1], got[i])
		}
	}
	if got[0].Span != "abcd" {
		t.Fatalf("first = %+v", got[0])
	}
}
