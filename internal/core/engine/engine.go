// Package engine runs the detector passes over one text and resolves their
// candidates into the final annotation list
package engine

import (
	"context"
	"time"

	"liferec/internal/core/detector"
	"liferec/internal/core/policy"
	"liferec/internal/core/resolve"
	"liferec/internal/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Observer receives one record per analysis. PassCounts are keyed by pass name
type Observer interface {
	ObserveAnalyze(passCounts map[string]int, latency time.Duration, degraded bool)
}

// Result is the outcome of one analysis. Hits are ordered by start and never
// overlap; an empty list is a valid outcome
type Result struct {
	ID            uuid.UUID
	PolicyVersion string
	Hits          []detector.Hit
	Latency       time.Duration
	PassCounts    map[detector.Pass]int
	// Degraded is set when the embedder failed and the semantic pass was skipped
	Degraded bool
}

// Option tunes an Engine
type Option func(*Engine)

// WithObserver attaches a metrics observer
func WithObserver(o Observer) Option { return func(e *Engine) { e.obs = o } }

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// Engine is stateless per call and safe for concurrent use
type Engine struct {
	det  *detector.Detector
	opts Options
	obs  Observer
	now  func() time.Time
}

// New builds an engine over repo
func New(repo *policy.Repository, opts Options, o ...Option) *Engine {
	e := &Engine{
		det:  detector.NewWithOptions(repo, opts.Detector),
		opts: opts,
		now:  time.Now,
	}
	for _, fn := range o {
		fn(e)
	}
	return e
}

// Options returns the options in effect
func (e *Engine) Options() Options { return e.opts }

// Repository returns the policy the engine matches against
func (e *Engine) Repository() *policy.Repository { return e.det.Repository() }

// Analyze annotates text. policyVersion is echoed back and does not change
// matching; empty means the repository's version. The only error is ctx's
func (e *Engine) Analyze(ctx context.Context, text, policyVersion string) (Result, error) {
	start := e.now()
	if policyVersion == "" {
		policyVersion = e.Repository().PolicyVersion()
	}
	res := Result{ID: uuid.New(), PolicyVersion: policyVersion}

	var literal, alias, semantic []detector.Hit
	var semErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		literal = e.det.Literal(text)
		return gctx.Err()
	})
	g.Go(func() error {
		alias = e.det.Alias(text)
		return gctx.Err()
	})
	g.Go(func() error {
		// an embedder failure degrades the pass, it never fails the call
		semantic, semErr = e.det.Semantic(gctx, text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if semErr != nil {
		res.Degraded = true
		semantic = nil
		logger.C(ctx).Warn().Err(semErr).Msg("engine: semantic pass skipped")
	}

	primary := resolve.CollapseParenthetical(text, append(literal, alias...))
	known := resolve.Merge(primary, semantic)
	unknown := e.det.UnknownAbbrev(text, known)
	hits := resolve.Merge(known, unknown)
	detector.FillRuneOffsets(text, hits)

	res.Hits = hits
	res.PassCounts = make(map[detector.Pass]int, 5)
	for _, h := range hits {
		res.PassCounts[h.Pass]++
	}
	res.Latency = e.now().Sub(start)

	if e.obs != nil {
		counts := make(map[string]int, len(res.PassCounts))
		for p, n := range res.PassCounts {
			counts[string(p)] = n
		}
		e.obs.ObserveAnalyze(counts, res.Latency, res.Degraded)
	}
	logger.C(ctx).Debug().
		Int("hits", len(hits)).
		Int("candidates", len(literal)+len(alias)+len(semantic)+len(unknown)).
		Dur("latency", res.Latency).
		Msg("engine: analyzed")
	return res, nil
}
