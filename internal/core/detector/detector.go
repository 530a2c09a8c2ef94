// Package detector finds policy violations in school-record text. Each pass
// is independent and returns candidate hits with byte offsets into the
// original, unmodified input
package detector

import (
	"sort"

	"liferec/internal/core/policy"
	"liferec/internal/platform/config"
)

// Pass names the matcher that produced a hit
type Pass string

const (
	// PassLiteral is a rule pattern match
	PassLiteral Pass = "literal"
	// PassAlias is an exact alias match
	PassAlias Pass = "alias"
	// PassSemantic is a nearest-alias embedding match
	PassSemantic Pass = "semantic"
	// PassUnknownAbbrev is an uppercase token no rule explains
	PassUnknownAbbrev Pass = "unknown_abbrev"
	// PassCollapsed is an outer(inner) pair folded into one hit
	PassCollapsed Pass = "collapsed"
)

// Hit is one annotation. Start/End are byte offsets so text[Start:End] == Span;
// RuneStart/RuneEnd are the codepoint offsets of the same range
type Hit struct {
	Span               string
	Label              string
	Replacement        string
	Action             policy.Action
	Confidence         float64
	Source             policy.Source
	Start, End         int
	RuneStart, RuneEnd int
	DeleteWithParticle bool
	Pass               Pass
	RuleID             string
}

// Len is the byte length of the span
func (h Hit) Len() int { return h.End - h.Start }

// HasReplacement reports whether the hit proposes a substitute
func (h Hit) HasReplacement() bool { return h.Action == policy.ActionReplace && h.Replacement != "" }

// SemanticOptions tunes the embedding pass
type SemanticOptions struct {
	Threshold   float64 // minimum cosine to the best alias
	Margin      float64 // minimum gap between best and second best
	ConfScale   float64 // hit confidence = clamp(score*ConfScale, ConfMin, ConfMax)
	ConfMin     float64
	ConfMax     float64
	MaxHits     int
	MinTokenLen int // codepoints
	MaxTokenLen int
}

// Options controls the detector
type Options struct {
	AliasConfidence   float64
	UnknownConfidence float64
	Semantic          SemanticOptions
}

// DefaultOptions keeps semantic confidence under the auto-apply threshold
func DefaultOptions() Options {
	return Options{
		AliasConfidence:   0.94,
		UnknownConfidence: 0.85,
		Semantic: SemanticOptions{
			Threshold:   0.86,
			Margin:      0.06,
			ConfScale:   0.85,
			ConfMin:     0.6,
			ConfMax:     0.88,
			MaxHits:     10,
			MinTokenLen: 2,
			MaxTokenLen: 30,
		},
	}
}

// OptionsFromConfig reads CORE_ENGINE_* overrides on top of the defaults
func OptionsFromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_ENGINE_")
	d := DefaultOptions()
	return Options{
		AliasConfidence:   c.MayUnit("ALIAS_CONF", d.AliasConfidence),
		UnknownConfidence: c.MayUnit("UNKNOWN_CONF", d.UnknownConfidence),
		Semantic: SemanticOptions{
			Threshold:   c.MayUnit("SEMANTIC_THRESHOLD", d.Semantic.Threshold),
			Margin:      c.MayUnit("SEMANTIC_MARGIN", d.Semantic.Margin),
			ConfScale:   c.MayFloat64("SEMANTIC_CONF_SCALE", d.Semantic.ConfScale),
			ConfMin:     c.MayUnit("SEMANTIC_CONF_MIN", d.Semantic.ConfMin),
			ConfMax:     c.MayUnit("SEMANTIC_CONF_MAX", d.Semantic.ConfMax),
			MaxHits:     c.MayInt("SEMANTIC_MAX_HITS", d.Semantic.MaxHits),
			MinTokenLen: c.MayInt("SEMANTIC_MIN_TOKEN", d.Semantic.MinTokenLen),
			MaxTokenLen: c.MayInt("SEMANTIC_MAX_TOKEN", d.Semantic.MaxTokenLen),
		},
	}
}

// Detector runs the matcher passes against one compiled policy.
// It holds no per-call state and is safe for concurrent use
type Detector struct {
	repo *policy.Repository
	opts Options
	ac   *acAutomaton
}

// New creates a Detector with default options
func New(repo *policy.Repository) *Detector {
	return NewWithOptions(repo, DefaultOptions())
}

// NewWithOptions creates a Detector with custom options
func NewWithOptions(repo *policy.Repository, opts Options) *Detector {
	d := &Detector{repo: repo, opts: opts, ac: newAutomaton()}
	for i, a := range repo.Aliases() {
		d.ac.add([]byte(a.Folded), i)
	}
	d.ac.build()
	return d
}

// Options returns the options in effect
func (d *Detector) Options() Options { return d.opts }

// Repository returns the policy the detector matches against
func (d *Detector) Repository() *policy.Repository { return d.repo }

func hitFromRule(r *policy.Compiled, text string, start, end int, conf float64, pass Pass) Hit {
	return Hit{
		Span:               text[start:end],
		Label:              r.Label,
		Replacement:        r.Replacement,
		Action:             r.Action,
		Confidence:         conf,
		Source:             r.Source,
		Start:              start,
		End:                end,
		DeleteWithParticle: r.DeleteWithParticle,
		Pass:               pass,
		RuleID:             r.ID,
	}
}

// Literal reports every non-overlapping, case-insensitive match of every
// rule pattern, in rule order, that survives the rule's guards
func (d *Detector) Literal(text string) []Hit {
	var hits []Hit
	for i := range d.repo.Rules() {
		r := d.repo.Rule(i)
		for _, loc := range r.Re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] || !r.GuardOK(text, loc[0], loc[1]) {
				continue
			}
			hits = append(hits, hitFromRule(r, text, loc[0], loc[1], r.Confidence, PassLiteral))
		}
	}
	return hits
}

// Alias reports exact alias occurrences, ignoring ASCII case, that are not
// glued to an ASCII letter, digit or Hangul syllable. Overlaps resolve to
// the leftmost, then longest, then first-declared alias
func (d *Detector) Alias(text string) []Hit {
	aliases := d.repo.Aliases()
	if len(aliases) == 0 || text == "" {
		return nil
	}
	type match struct{ start, end, id int }
	var ms []match
	d.ac.each([]byte(policy.FoldASCII(text)), func(start, end, id int) {
		if aliasBoundaryOK(text, start, end) {
			ms = append(ms, match{start, end, id})
		}
	})
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].start != ms[j].start {
			return ms[i].start < ms[j].start
		}
		if li, lj := ms[i].end-ms[i].start, ms[j].end-ms[j].start; li != lj {
			return li > lj
		}
		return ms[i].id < ms[j].id
	})

	var hits []Hit
	last := 0
	for _, m := range ms {
		if m.start < last {
			continue
		}
		r := d.repo.Rule(aliases[m.id].Rule)
		hits = append(hits, hitFromRule(r, text, m.start, m.end, d.opts.AliasConfidence, PassAlias))
		last = m.end
	}
	return hits
}
