package policy

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"liferec/internal/core/embed"
	perr "liferec/internal/platform/errors"
	"liferec/internal/platform/logger"
)

var abbrevShape = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

// Compiled is a rule plus its compiled pattern and guards
type Compiled struct {
	Rule
	Index int
	Re    *regexp.Regexp

	notBefore *regexp.Regexp
	notAfter  *regexp.Regexp
}

// GuardOK reports whether a match at text[start:end] survives the rule's
// preceded-by and followed-by guards
func (c *Compiled) GuardOK(text string, start, end int) bool {
	if c.notBefore != nil && c.notBefore.MatchString(text[:start]) {
		return false
	}
	if c.notAfter != nil && c.notAfter.MatchString(text[end:]) {
		return false
	}
	return true
}

// governs reports whether ab is matched by the pattern or by one of the
// guards, so Google's TV exception counts as a term of the Google rule
func (c *Compiled) governs(ab string) bool {
	if c.Re.MatchString(ab) {
		return true
	}
	return (c.notBefore != nil && c.notBefore.MatchString(ab)) ||
		(c.notAfter != nil && c.notAfter.MatchString(ab))
}

// Alias is one exact surface form owned by a rule. Folded is Text after
// FoldASCII and has the same byte length
type Alias struct {
	Text   string
	Folded string
	Rule   int // index into Repository.Rules()
}

// Repository is the compiled, read-only rule table. Safe for concurrent use
type Repository struct {
	version   string
	rules     []Compiled
	aliases   []Alias
	vectors   [][]float32
	known     map[string]struct{}
	embedder  embed.Embedder
	semantics bool
}

type buildOptions struct {
	embedder embed.Embedder
	version  string
}

// BuildOption tunes Build
type BuildOption func(*buildOptions)

// WithEmbedder enables the semantic pass by embedding every alias up front
func WithEmbedder(e embed.Embedder) BuildOption {
	return func(o *buildOptions) { o.embedder = e }
}

// WithPolicyVersion stamps the repository with a policy version label
func WithPolicyVersion(v string) BuildOption {
	return func(o *buildOptions) { o.version = v }
}

// Default builds the embedded rule table
func Default(ctx context.Context, opts ...BuildOption) (*Repository, error) {
	rules, err := Load()
	if err != nil {
		return nil, err
	}
	opts = append([]BuildOption{WithPolicyVersion(EmbeddedPolicyVersion())}, opts...)
	return Build(ctx, rules, opts...)
}

// Build validates and compiles rules. Any bad rule is fatal. An embedder
// failure is not: the repository is returned with the semantic pass off
func Build(ctx context.Context, rules []Rule, opts ...BuildOption) (*Repository, error) {
	var bo buildOptions
	for _, o := range opts {
		o(&bo)
	}
	log := logger.Named("policy")

	repo := &Repository{
		version: bo.version,
		rules:   make([]Compiled, 0, len(rules)),
		known:   map[string]struct{}{},
	}
	ids := map[string]struct{}{}
	aliasOwner := map[string]string{}

	for i, r := range rules {
		if r.ID == "" {
			return nil, perr.RuleDataf("policy: rules[%d]: empty id", i)
		}
		if _, dup := ids[r.ID]; dup {
			return nil, perr.RuleDataf("policy: duplicate rule id %q", r.ID)
		}
		ids[r.ID] = struct{}{}

		c, err := compile(r, i)
		if err != nil {
			return nil, err
		}

		seen := map[string]bool{}
		for _, a := range r.Aliases {
			a = strings.TrimSpace(a)
			if a == "" {
				return nil, perr.RuleDataf("policy: rule %q: empty alias", r.ID)
			}
			k := FoldASCII(a)
			if seen[k] {
				continue
			}
			seen[k] = true
			if owner, ok := aliasOwner[k]; ok {
				return nil, perr.RuleDataf("policy: alias %q declared by both %q and %q", a, owner, r.ID)
			}
			aliasOwner[k] = r.ID
			repo.aliases = append(repo.aliases, Alias{Text: a, Folded: k, Rule: i})
		}

		for _, ab := range r.Abbreviations {
			if !abbrevShape.MatchString(ab) {
				return nil, perr.RuleDataf("policy: rule %q: abbreviation %q must be 2-10 uppercase letters or digits", r.ID, ab)
			}
			if !c.governs(ab) {
				return nil, perr.RuleDataf("policy: rule %q: abbreviation %q is not matched by its pattern or guards", r.ID, ab)
			}
			if !IsCommonEnglish(ab) {
				repo.known[ab] = struct{}{}
			}
		}
		repo.rules = append(repo.rules, c)
	}

	if bo.embedder != nil && len(repo.aliases) > 0 {
		texts := make([]string, len(repo.aliases))
		for i, a := range repo.aliases {
			texts[i] = a.Text
		}
		vecs, err := bo.embedder.Embed(ctx, texts)
		switch {
		case err != nil:
			log.Warn().Err(err).Int("aliases", len(texts)).Msg("alias embedding failed; semantic pass disabled")
		case len(vecs) != len(texts):
			log.Warn().Int("vectors", len(vecs)).Int("aliases", len(texts)).Msg("alias embedding size mismatch; semantic pass disabled")
		default:
			repo.vectors = make([][]float32, len(vecs))
			for i, v := range vecs {
				repo.vectors[i] = embed.L2Normalize(append([]float32(nil), v...))
			}
			repo.embedder = bo.embedder
			repo.semantics = true
		}
	}

	log.Debug().Int("rules", len(repo.rules)).Int("aliases", len(repo.aliases)).
		Int("abbreviations", len(repo.known)).Bool("semantic", repo.semantics).Msg("policy built")
	return repo, nil
}

func compile(r Rule, i int) (Compiled, error) {
	if strings.TrimSpace(r.Pattern) == "" {
		return Compiled{}, perr.RuleDataf("policy: rule %q: empty pattern", r.ID)
	}
	if r.Label == "" {
		return Compiled{}, perr.RuleDataf("policy: rule %q: empty label", r.ID)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return Compiled{}, perr.RuleDataf("policy: rule %q: confidence %v outside [0,1]", r.ID, r.Confidence)
	}
	if !utf8.ValidString(r.Replacement) {
		return Compiled{}, perr.RuleDataf("policy: rule %q: replacement is not valid UTF-8", r.ID)
	}

	c := Compiled{Rule: r, Index: i}
	var err error
	if c.Re, err = regexp.Compile("(?i)" + r.Pattern); err != nil {
		return Compiled{}, perr.Wrapf(err, perr.ErrorCodeRuleData, "policy: rule %q: bad pattern", r.ID)
	}
	if r.NotPrecededBy != "" {
		if c.notBefore, err = regexp.Compile("(?i)(?:" + r.NotPrecededBy + ")$"); err != nil {
			return Compiled{}, perr.Wrapf(err, perr.ErrorCodeRuleData, "policy: rule %q: bad not_preceded_by", r.ID)
		}
	}
	if r.NotFollowedBy != "" {
		if c.notAfter, err = regexp.Compile("(?i)^(?:" + r.NotFollowedBy + ")"); err != nil {
			return Compiled{}, perr.Wrapf(err, perr.ErrorCodeRuleData, "policy: rule %q: bad not_followed_by", r.ID)
		}
	}
	return c, nil
}

// FoldASCII lower-cases ASCII letters only. Byte offsets are preserved
func FoldASCII(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if 'A' <= ch && ch <= 'Z' {
			b[i] = ch + 'a' - 'A'
		}
	}
	return string(b)
}

// PolicyVersion returns the label the repository was built with
func (r *Repository) PolicyVersion() string { return r.version }

// Rules returns the compiled rules in declaration order
func (r *Repository) Rules() []Compiled { return r.rules }

// Rule returns the rule at index i
func (r *Repository) Rule(i int) *Compiled { return &r.rules[i] }

// Len is the number of rules
func (r *Repository) Len() int { return len(r.rules) }

// Aliases returns every alias in rule then declaration order
func (r *Repository) Aliases() []Alias { return r.aliases }

// AliasVectors returns unit vectors parallel to Aliases, or nil when the
// semantic pass is disabled
func (r *Repository) AliasVectors() [][]float32 { return r.vectors }

// Embedder returns the embedder used for aliases, or nil
func (r *Repository) Embedder() embed.Embedder { return r.embedder }

// SemanticEnabled reports whether alias vectors are available
func (r *Repository) SemanticEnabled() bool { return r.semantics }

// IsKnownAbbreviation reports whether s is declared by some rule
func (r *Repository) IsKnownAbbreviation(s string) bool {
	_, ok := r.known[s]
	return ok
}

// KnownAbbreviations returns the declared abbreviations, sorted
func (r *Repository) KnownAbbreviations() []string {
	out := make([]string, 0, len(r.known))
	for k := range r.known {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
