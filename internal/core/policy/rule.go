// Package policy loads and compiles the school-record compliance rule table.
// It prepares the compiled patterns, the exact-alias table, the known
// abbreviation index and the alias corpus used by the detector
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	perr "liferec/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embedded []byte

// Action tells a renderer what to do with a matched span
type Action string

const (
	// ActionFlag highlights the span without proposing a rewrite
	ActionFlag Action = "flag"
	// ActionReplace substitutes the span with the rule's replacement
	ActionReplace Action = "replace"
	// ActionDelete removes the span (and, if configured, the particle after it)
	ActionDelete Action = "delete"
)

// Source is the provenance of a rule: the policy document, page and quote.
// It is copied verbatim onto every hit and never altered
type Source struct {
	Doc   string `yaml:"doc"   json:"doc"`
	Page  int    `yaml:"page"  json:"page,omitempty"`
	Quote string `yaml:"quote" json:"quote,omitempty"`
}

// Rule is one immutable policy record
type Rule struct {
	ID                 string
	Pattern            string
	Label              string
	Replacement        string
	Action             Action
	Confidence         float64
	Source             Source
	Aliases            []string
	Abbreviations      []string
	DeleteWithParticle bool

	// RE2 has no look-around; these guards reject a match when the text
	// ending at the match start (NotPrecededBy) or starting at the match end
	// (NotFollowedBy) matches them
	NotPrecededBy string
	NotFollowedBy string
}

// rawRule is the on-disk shape of a rule
type rawRule struct {
	ID                 string   `yaml:"id"`
	Pattern            string   `yaml:"pattern"`
	Label              string   `yaml:"label"`
	Replacement        *string  `yaml:"replacement"`
	Action             string   `yaml:"action"`
	Confidence         *float64 `yaml:"confidence"`
	Source             Source   `yaml:"source"`
	Aliases            []string `yaml:"aliases"`
	Abbreviations      []string `yaml:"abbreviations"`
	DeleteWithParticle bool     `yaml:"delete_with_particle"`
	NotPrecededBy      string   `yaml:"not_preceded_by"`
	NotFollowedBy      string   `yaml:"not_followed_by"`
}

type rawTable struct {
	Version       int       `yaml:"version"`
	PolicyVersion string    `yaml:"policy_version"`
	Rules         []rawRule `yaml:"rules"`
}

// DefaultConfidence applies when a rule omits its confidence
const DefaultConfidence = 0.9

// Load returns the fixed rule table embedded in the binary
func Load() ([]Rule, error) {
	return Parse(embedded)
}

// LoadFile reads an alternate rule table with the same shape as the embedded one
func LoadFile(path string) ([]Rule, error) {
	t, err := LoadTable(path)
	return t.Rules, err
}

// Table is a parsed rule file with the policy version it declares
type Table struct {
	PolicyVersion string
	Rules         []Rule
}

// LoadTable reads an alternate rule table and keeps its policy_version
func LoadTable(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, perr.Wrapf(err, perr.ErrorCodeRuleData, "policy: read %s", path)
	}
	return ParseTable(b)
}

// EmbeddedPolicyVersion returns the policy_version declared by the embedded table
func EmbeddedPolicyVersion() string {
	t, err := ParseTable(embedded)
	if err != nil {
		return ""
	}
	return t.PolicyVersion
}

// Parse decodes a YAML rule table
func Parse(b []byte) ([]Rule, error) {
	t, err := ParseTable(b)
	return t.Rules, err
}

// ParseTable decodes a YAML rule table together with its policy_version
func ParseTable(b []byte) (Table, error) {
	var t rawTable
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Table{}, perr.Wrap(err, perr.ErrorCodeRuleData, "policy: parse rule table")
	}
	if t.Version != 1 {
		return Table{}, perr.Newf(perr.ErrorCodeRuleData, "policy: unsupported rule table version %d (want 1)", t.Version)
	}

	out := Table{PolicyVersion: t.PolicyVersion, Rules: make([]Rule, 0, len(t.Rules))}
	for i, rr := range t.Rules {
		r, err := rr.toRule()
		if err != nil {
			return Table{}, perr.WithOp(err, fmt.Sprintf("rules[%d]", i))
		}
		out.Rules = append(out.Rules, r)
	}
	return out, nil
}

func (rr rawRule) toRule() (Rule, error) {
	r := Rule{
		ID:                 strings.TrimSpace(rr.ID),
		Pattern:            rr.Pattern,
		Label:              strings.TrimSpace(rr.Label),
		Confidence:         DefaultConfidence,
		Source:             rr.Source,
		Aliases:            rr.Aliases,
		Abbreviations:      rr.Abbreviations,
		DeleteWithParticle: rr.DeleteWithParticle,
		NotPrecededBy:      rr.NotPrecededBy,
		NotFollowedBy:      rr.NotFollowedBy,
	}
	if rr.Confidence != nil {
		r.Confidence = *rr.Confidence
	}

	switch Action(strings.ToLower(strings.TrimSpace(rr.Action))) {
	case "":
		// replacement absent means flag only
		if rr.Replacement == nil {
			r.Action = ActionFlag
		} else {
			r.Action = ActionReplace
			r.Replacement = *rr.Replacement
		}
	case ActionFlag:
		r.Action = ActionFlag
	case ActionReplace:
		if rr.Replacement == nil || *rr.Replacement == "" {
			return Rule{}, perr.Newf(perr.ErrorCodeRuleData, "policy: rule %q: replace action needs a replacement", r.ID)
		}
		r.Action = ActionReplace
		r.Replacement = *rr.Replacement
	case ActionDelete:
		if rr.Replacement != nil && *rr.Replacement != "" {
			return Rule{}, perr.Newf(perr.ErrorCodeRuleData, "policy: rule %q: delete action cannot carry a replacement", r.ID)
		}
		r.Action = ActionDelete
	default:
		return Rule{}, perr.Newf(perr.ErrorCodeRuleData, "policy: rule %q: unknown action %q", r.ID, rr.Action)
	}
	return r, nil
}

// HasReplacement reports whether the rule proposes a substitute string
func (r Rule) HasReplacement() bool { return r.Action == ActionReplace && r.Replacement != "" }
