package policy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"liferec/internal/core/embed"
	perr "liferec/internal/platform/errors"
	kit "liferec/internal/platform/testkit"
)

func TestDefaultLoadsEmbeddedTable(t *testing.T) {
	repo, err := Default(context.Background())
	if err != nil {
		t.Fatalf("default policy: %v", err)
	}
	if repo.Len() < 50 {
		t.Fatalf("expected the full rule table, got %d rules", repo.Len())
	}
	if repo.PolicyVersion() != "2024-03" {
		t.Fatalf("policy version = %q", repo.PolicyVersion())
	}
	if repo.SemanticEnabled() || repo.AliasVectors() != nil {
		t.Fatalf("semantic pass must be off without an embedder")
	}
	for _, ab := range []string{"NASA", "UN", "TOEIC", "CO2", "LIDAR"} {
		if !repo.IsKnownAbbreviation(ab) {
			t.Fatalf("%s should be a known abbreviation", ab)
		}
	}
	if repo.IsKnownAbbreviation("XYZ") {
		t.Fatalf("XYZ is not declared by any rule")
	}
	ks := repo.KnownAbbreviations()
	for i := 1; i < len(ks); i++ {
		if ks[i-1] >= ks[i] {
			t.Fatalf("KnownAbbreviations not sorted: %v", ks)
		}
	}
}

func TestRuleActions(t *testing.T) {
	rules, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	byID := map[string]Rule{}
	for _, r := range rules {
		byID[r.ID] = r
	}
	if r := byID["certified-language-test"]; r.Action != ActionDelete || !r.DeleteWithParticle || r.HasReplacement() {
		t.Fatalf("certified-language-test should delete with particle: %+v", r)
	}
	if r := byID["nasa"]; r.Action != ActionReplace || r.Replacement != "미국항공우주국" {
		t.Fatalf("nasa should replace: %+v", r)
	}
	if r := byID["portal-google"]; r.Source.Doc == "" || r.Source.Page != 1 {
		t.Fatalf("source must be carried: %+v", r.Source)
	}
}

func TestGuards(t *testing.T) {
	repo, err := Default(context.Background())
	if err != nil {
		t.Fatalf("default policy: %v", err)
	}
	var google, line *Compiled
	for i := range repo.Rules() {
		switch repo.Rule(i).ID {
		case "portal-google":
			google = repo.Rule(i)
		case "social-network-line-ko":
			line = repo.Rule(i)
		}
	}
	if google == nil || line == nil {
		t.Fatalf("guarded rules missing")
	}

	cases := []struct {
		c    *Compiled
		text string
		want bool
	}{
		{google, "Google 검색", true},
		{google, "Google Docs로 작성", false},
		{google, "Google TV 광고", false},
		{line, "라인 메신저", true},
		{line, "가이드라인을", false},
		{line, "라인업", false},
	}
	for _, tc := range cases {
		loc := tc.c.Re.FindStringIndex(tc.text)
		if loc == nil {
			t.Fatalf("%s: pattern did not match %q", tc.c.ID, tc.text)
		}
		if got := tc.c.GuardOK(tc.text, loc[0], loc[1]); got != tc.want {
			t.Fatalf("%s GuardOK(%q) = %v, want %v", tc.c.ID, tc.text, got, tc.want)
		}
	}
}

func rule(id, pattern string) Rule {
	return Rule{ID: id, Pattern: pattern, Label: "기관명", Replacement: "x", Action: ActionReplace, Confidence: 0.9}
}

func TestBuildRejectsBadRules(t *testing.T) {
	withAbbr := func(r Rule, ab ...string) Rule { r.Abbreviations = ab; return r }
	withAlias := func(r Rule, al ...string) Rule { r.Aliases = al; return r }
	withConf := func(r Rule, c float64) Rule { r.Confidence = c; return r }

	cases := []struct {
		name  string
		rules []Rule
		want  string
	}{
		{"bad pattern", []Rule{rule("a", `(unclosed`)}, "bad pattern"},
		{"empty pattern", []Rule{rule("a", ` `)}, "empty pattern"},
		{"empty id", []Rule{rule("", `x`)}, "empty id"},
		{"duplicate id", []Rule{rule("a", `x`), rule("a", `y`)}, "duplicate rule id"},
		{"confidence", []Rule{withConf(rule("a", `x`), 1.5)}, "outside [0,1]"},
		{"abbr shape", []Rule{withAbbr(rule("a", `nasa`), "Nasa")}, "uppercase"},
		{"abbr unmatched", []Rule{withAbbr(rule("a", `\bNASA\b`), "ESA")}, "not matched"},
		{"alias collision", []Rule{withAlias(rule("a", `x`), "나사"), withAlias(rule("b", `y`), "나사")}, "declared by both"},
		{"alias collision case", []Rule{withAlias(rule("a", `x`), "Zoom"), withAlias(rule("b", `y`), "ZOOM")}, "declared by both"},
		{"bad guard", []Rule{func() Rule { r := rule("a", `x`); r.NotFollowedBy = `(`; return r }()}, "not_followed_by"},
	}
	for _, tc := range cases {
		_, err := Build(context.Background(), tc.rules)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !perr.IsCode(err, perr.ErrorCodeRuleData) {
			t.Fatalf("%s: code = %v", tc.name, perr.CodeOf(err))
		}
		kit.MustContain(t, err.Error(), tc.want)
	}
}

func TestAbbreviationDeclaredByGuard(t *testing.T) {
	r := rule("google", `\bGoogle\b`)
	r.NotFollowedBy = `\s?(?:Docs|Classroom|TV)`
	r.Abbreviations = []string{"TV"}
	r.Aliases = []string{"GooGle검색"}
	repo, err := Build(context.Background(), []Rule{r})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !repo.IsKnownAbbreviation("TV") {
		t.Fatalf("known = %v", repo.KnownAbbreviations())
	}
	if a := repo.Aliases()[0]; a.Folded != "google검색" || len(a.Folded) != len(a.Text) {
		t.Fatalf("alias = %+v", a)
	}

	def, err := Default(context.Background())
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if !def.IsKnownAbbreviation("TV") {
		t.Fatalf("embedded table should declare TV")
	}
}

func TestBuildDropsCommonEnglishAndDedupesAliases(t *testing.T) {
	r := rule("a", `\b(?:THE|UN)\b`)
	r.Abbreviations = []string{"THE", "UN"}
	r.Aliases = []string{"유엔", "유엔", " "}
	_, err := Build(context.Background(), []Rule{r})
	if err == nil || !strings.Contains(err.Error(), "empty alias") {
		t.Fatalf("blank alias should be rejected, got %v", err)
	}

	r.Aliases = []string{"유엔", "유엔"}
	repo, err := Build(context.Background(), []Rule{r})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if repo.IsKnownAbbreviation("THE") || !repo.IsKnownAbbreviation("UN") {
		t.Fatalf("known = %v", repo.KnownAbbreviations())
	}
	if len(repo.Aliases()) != 1 {
		t.Fatalf("duplicate alias in one rule should collapse, got %v", repo.Aliases())
	}
}

func TestBuildWithEmbedder(t *testing.T) {
	var got []string
	e := embed.Func(func(_ context.Context, texts []string) ([][]float32, error) {
		got = texts
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{2, 0}
		}
		return out, nil
	})
	repo, err := Default(context.Background(), WithEmbedder(e))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !repo.SemanticEnabled() || repo.Embedder() == nil {
		t.Fatalf("semantic pass should be on")
	}
	if len(got) != len(repo.Aliases()) || len(repo.AliasVectors()) != len(got) {
		t.Fatalf("every alias should be embedded once: %d texts, %d aliases", len(got), len(repo.Aliases()))
	}
	if v := repo.AliasVectors()[0]; v[0] != 1 {
		t.Fatalf("alias vectors must be unit length, got %v", v)
	}
}

func TestBuildSurvivesEmbedderFailure(t *testing.T) {
	e := embed.Func(func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("upstream down")
	})
	repo, err := Default(context.Background(), WithEmbedder(e))
	if err != nil {
		t.Fatalf("embedder failure must not fail the build: %v", err)
	}
	if repo.SemanticEnabled() || repo.Embedder() != nil {
		t.Fatalf("semantic pass should be disabled")
	}
}

func TestParseAndLoadFile(t *testing.T) {
	p := kit.WriteFile(t, "rules.yaml", `version: 1
policy_version: test
rules:
  - id: flag-only
    pattern: 'foo'
    label: 상호명
  - id: gone
    pattern: 'bar'
    label: 공인어학시험
    action: delete
`)
	rules, err := LoadFile(p)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if rules[0].Action != ActionFlag || rules[0].Confidence != DefaultConfidence {
		t.Fatalf("flag-only = %+v", rules[0])
	}
	if rules[1].Action != ActionDelete {
		t.Fatalf("gone = %+v", rules[1])
	}

	bad := []string{
		"version: 2\nrules: []\n",
		"version: 1\nrules:\n  - id: a\n    pattern: x\n    label: l\n    action: explode\n",
		"version: 1\nrules:\n  - id: a\n    pattern: x\n    label: l\n    action: replace\n",
		"version: 1\nrules:\n  - id: a\n    pattern: x\n    label: l\n    action: delete\n    replacement: y\n",
		"version: [",
	}
	for _, b := range bad {
		if _, err := Parse([]byte(b)); !perr.IsCode(err, perr.ErrorCodeRuleData) {
			t.Fatalf("Parse(%q) err = %v", b, err)
		}
	}
	if _, err := LoadFile(p + ".missing"); err == nil {
		t.Fatalf("missing file should fail")
	}
	if _, err := ParseTable([]byte("version: 1\npolicy_version: x\nrules:\n  - id: a\n    pattern: x\n    label: l\n    action: explode\n")); !perr.IsCode(err, perr.ErrorCodeRuleData) {
		t.Fatalf("ParseTable bad action err = %v", err)
	}
	tbl, err := LoadTable(p)
	if err != nil || tbl.PolicyVersion != "test" || len(tbl.Rules) != 2 {
		t.Fatalf("table = %+v, %v", tbl, err)
	}
}
