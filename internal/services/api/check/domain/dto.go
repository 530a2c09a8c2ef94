// Package domain holds DTOs for check http and service contracts
package domain

import "liferec/internal/core/policy"

// AnalyzeInput is the body of an analyze or rewrite request. An empty text is
// valid and yields no hits
type AnalyzeInput struct {
	Text           string   `json:"text" validate:"max=20000" example:"NAVER 블로그에 유튜브 영상을 올림"`
	PolicyVersion  string   `json:"policy_version,omitempty" validate:"omitempty,policyver" example:"2024-03"`
	MinPreviewConf *float64 `json:"min_preview_conf,omitempty" validate:"omitempty,gte=0,lte=1" example:"0.9"`
}

// Hit is one annotation. Start/End are codepoint offsets, ByteStart/ByteEnd
// are UTF-8 byte offsets of the same span
type Hit struct {
	Span               string        `json:"span"`
	Label              string        `json:"label"`
	Replacement        *string       `json:"replacement"`
	Confidence         float64       `json:"confidence"`
	Source             policy.Source `json:"source"`
	Start              int           `json:"start"`
	End                int           `json:"end"`
	ByteStart          int           `json:"byte_start"`
	ByteEnd            int           `json:"byte_end"`
	Action             string        `json:"action"`
	DeleteWithParticle bool          `json:"delete_with_particle"`
	Pass               string        `json:"pass"`
	RuleID             string        `json:"rule_id,omitempty"`
	AutoApply          bool          `json:"auto_apply"`
}

// Summary counts hits by how a renderer should treat them
type Summary struct {
	Total       int `json:"total"`
	AutoApplied int `json:"auto_applied"`
	NeedsReview int `json:"needs_review"`
	FlagOnly    int `json:"flag_only"`
}

// AnalyzeOutput is the annotation list for one text
type AnalyzeOutput struct {
	ID            string         `json:"id"`
	Hits          []Hit          `json:"hits"`
	LatencyMS     float64        `json:"latency_ms"`
	PolicyVersion string         `json:"policy_version"`
	Summary       Summary        `json:"summary"`
	PassCounts    map[string]int `json:"pass_counts,omitempty"`
	Degraded      bool           `json:"degraded,omitempty"`
}

// NormalizeInput selects the clean-up applied by the bytes endpoint
type NormalizeInput struct {
	Newline         string `json:"newline,omitempty" validate:"omitempty,oneof=keep lf crlf" example:"lf"`
	ReplaceNBSP     bool   `json:"replace_nbsp"`
	RemoveZeroWidth bool   `json:"remove_zero_width"`
	StripControls   bool   `json:"strip_controls"`
	Compose         bool   `json:"compose"`
	CollapseSpaces  bool   `json:"collapse_spaces"`
}

// BytesInput asks for a byte/character report of text
type BytesInput struct {
	Text      string          `json:"text" validate:"max=100000"`
	Normalize *NormalizeInput `json:"normalize,omitempty"`
}

// Change is one edit applied by rewrite. Offsets are codepoints in the input
type Change struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Before     string  `json:"before"`
	After      string  `json:"after"`
	Label      string  `json:"label"`
	RuleID     string  `json:"rule_id,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Segment is one piece of the preview. Concatenating Text over all segments
// gives the rewritten text; concatenating Original gives the input
type Segment struct {
	Kind       string  `json:"kind"`
	Original   string  `json:"original"`
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// RewriteOutput is the rewritten text with its edits and preview
type RewriteOutput struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Changes       []Change  `json:"changes"`
	Segments      []Segment `json:"segments"`
	PolicyVersion string    `json:"policy_version"`
	Summary       Summary   `json:"summary"`
	Degraded      bool      `json:"degraded,omitempty"`
}

// Rule describes one entry of the active rule table
type Rule struct {
	ID                 string        `json:"id"`
	Pattern            string        `json:"pattern"`
	Label              string        `json:"label"`
	Replacement        *string       `json:"replacement"`
	Action             string        `json:"action"`
	Confidence         float64       `json:"confidence"`
	Source             policy.Source `json:"source"`
	Aliases            []string      `json:"aliases,omitempty"`
	Abbreviations      []string      `json:"abbreviations,omitempty"`
	DeleteWithParticle bool          `json:"delete_with_particle,omitempty"`
}

// RulesOutput lists the active rule table
type RulesOutput struct {
	PolicyVersion   string `json:"policy_version"`
	Count           int    `json:"count"`
	SemanticEnabled bool   `json:"semantic_enabled"`
	Rules           []Rule `json:"rules"`
}
