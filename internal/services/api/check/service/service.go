// Package service contains the check workflows: analyze, rewrite, byte
// reports and the rule listing
package service

import (
	"context"
	"errors"

	"liferec/internal/core/detector"
	"liferec/internal/core/engine"
	"liferec/internal/core/normalize"
	"liferec/internal/core/policy"
	"liferec/internal/core/rewrite"
	perr "liferec/internal/platform/errors"
	"liferec/internal/platform/logger"
	pnet "liferec/internal/platform/net"
	"liferec/internal/services/api/check/domain"
)

// Service defines the check service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the check service over an engine
type Svc struct {
	eng *engine.Engine
}

// New constructs a check service
func New(eng *engine.Engine) *Svc {
	if eng == nil {
		panic("check.Service requires a non nil Engine")
	}
	return &Svc{eng: eng}
}

var _ Service = (*Svc)(nil)

func (s *Svc) minConf(in domain.AnalyzeInput) float64 {
	if in.MinPreviewConf != nil {
		return *in.MinPreviewConf
	}
	return s.eng.Options().MinPreviewConf
}

func (s *Svc) analyze(ctx context.Context, in domain.AnalyzeInput) (engine.Result, error) {
	ctx = pnet.WithRequest(ctx, "", in.PolicyVersion)
	ctx = logger.WithRequest(ctx, "", in.PolicyVersion)
	res, err := s.eng.Analyze(ctx, in.Text, in.PolicyVersion)
	if err == nil {
		return res, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return engine.Result{}, perr.Wrap(err, perr.ErrorCodeTimeout, "analyze deadline exceeded")
	}
	if errors.Is(err, context.Canceled) {
		return engine.Result{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "analyze canceled")
	}
	return engine.Result{}, err
}

// Analyze annotates one text
func (s *Svc) Analyze(ctx context.Context, in domain.AnalyzeInput) (domain.AnalyzeOutput, error) {
	res, err := s.analyze(ctx, in)
	if err != nil {
		return domain.AnalyzeOutput{}, err
	}
	minConf := s.minConf(in)

	hits := make([]domain.Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, toHit(h, minConf))
	}
	counts := make(map[string]int, len(res.PassCounts))
	for p, n := range res.PassCounts {
		counts[string(p)] = n
	}
	return domain.AnalyzeOutput{
		ID:            res.ID.String(),
		Hits:          hits,
		LatencyMS:     float64(res.Latency.Microseconds()) / 1000,
		PolicyVersion: res.PolicyVersion,
		Summary:       toSummary(rewrite.Summarize(res.Hits, minConf)),
		PassCounts:    counts,
		Degraded:      res.Degraded,
	}, nil
}

// Rewrite analyzes text and applies every eligible edit
func (s *Svc) Rewrite(ctx context.Context, in domain.AnalyzeInput) (domain.RewriteOutput, error) {
	res, err := s.analyze(ctx, in)
	if err != nil {
		return domain.RewriteOutput{}, err
	}
	minConf := s.minConf(in)
	ri := runeIndex(in.Text)

	text, changes := rewrite.Apply(in.Text, res.Hits, minConf)
	outChanges := make([]domain.Change, 0, len(changes))
	for _, c := range changes {
		outChanges = append(outChanges, domain.Change{
			Start:      ri(c.Start),
			End:        ri(c.End),
			Before:     c.Before,
			After:      c.After,
			Label:      c.Label,
			RuleID:     c.RuleID,
			Confidence: c.Confidence,
		})
	}

	segs := rewrite.Preview(in.Text, res.Hits, minConf)
	outSegs := make([]domain.Segment, 0, len(segs))
	for _, sg := range segs {
		outSegs = append(outSegs, domain.Segment{
			Kind:       string(sg.Kind),
			Original:   sg.Original,
			Text:       sg.Text,
			Start:      ri(sg.Start),
			End:        ri(sg.End),
			Label:      sg.Label,
			Confidence: sg.Confidence,
		})
	}

	return domain.RewriteOutput{
		ID:            res.ID.String(),
		Text:          text,
		Changes:       outChanges,
		Segments:      outSegs,
		PolicyVersion: res.PolicyVersion,
		Summary:       toSummary(rewrite.Summarize(res.Hits, minConf)),
		Degraded:      res.Degraded,
	}, nil
}

// Bytes reports byte and character counts, and the normalized form when asked
func (s *Svc) Bytes(_ context.Context, in domain.BytesInput) (normalize.Report, error) {
	if in.Normalize == nil {
		return normalize.Analyze(in.Text, nil), nil
	}
	opt := toNormalizeOptions(*in.Normalize)
	return normalize.Analyze(in.Text, &opt), nil
}

// Rules lists the active rule table
func (s *Svc) Rules(_ context.Context) (domain.RulesOutput, error) {
	repo := s.eng.Repository()
	out := domain.RulesOutput{
		PolicyVersion:   repo.PolicyVersion(),
		Count:           repo.Len(),
		SemanticEnabled: repo.SemanticEnabled(),
		Rules:           make([]domain.Rule, 0, repo.Len()),
	}
	for _, c := range repo.Rules() {
		out.Rules = append(out.Rules, toRule(c.Rule))
	}
	return out, nil
}

func toHit(h detector.Hit, minConf float64) domain.Hit {
	return domain.Hit{
		Span:               h.Span,
		Label:              h.Label,
		Replacement:        optional(h.Replacement),
		Confidence:         h.Confidence,
		Source:             h.Source,
		Start:              h.RuneStart,
		End:                h.RuneEnd,
		ByteStart:          h.Start,
		ByteEnd:            h.End,
		Action:             string(h.Action),
		DeleteWithParticle: h.DeleteWithParticle,
		Pass:               string(h.Pass),
		RuleID:             h.RuleID,
		AutoApply:          rewrite.Eligible(h, minConf),
	}
}

func toRule(r policy.Rule) domain.Rule {
	return domain.Rule{
		ID:                 r.ID,
		Pattern:            r.Pattern,
		Label:              r.Label,
		Replacement:        optional(r.Replacement),
		Action:             string(r.Action),
		Confidence:         r.Confidence,
		Source:             r.Source,
		Aliases:            r.Aliases,
		Abbreviations:      r.Abbreviations,
		DeleteWithParticle: r.DeleteWithParticle,
	}
}

func toSummary(s rewrite.Summary) domain.Summary {
	return domain.Summary{
		Total:       s.Total,
		AutoApplied: s.AutoApplied,
		NeedsReview: s.NeedsReview,
		FlagOnly:    s.FlagOnly,
	}
}

// an empty newline mode means LF, the form the record system stores
func toNormalizeOptions(in domain.NormalizeInput) normalize.Options {
	nl := normalize.Newline(in.Newline)
	if nl == "" {
		nl = normalize.NewlineLF
	}
	return normalize.Options{
		Newline:         nl,
		ReplaceNBSP:     in.ReplaceNBSP,
		RemoveZeroWidth: in.RemoveZeroWidth,
		StripControls:   in.StripControls,
		Compose:         in.Compose,
		CollapseSpaces:  in.CollapseSpaces,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// runeIndex maps a byte offset on a rune boundary of text to its codepoint offset
func runeIndex(text string) func(int) int {
	idx := make([]int, len(text)+1)
	n := 0
	for off := range text {
		idx[off] = n
		n++
	}
	idx[len(text)] = n
	return func(b int) int { return idx[b] }
}
