package engine

import (
	"context"

	"liferec/internal/core/detector"
	"liferec/internal/core/embed"
	"liferec/internal/core/policy"
	"liferec/internal/platform/config"
	"liferec/internal/platform/logger"
)

// DefaultMinPreviewConf is the auto-apply threshold for proposed rewrites
const DefaultMinPreviewConf = 0.90

// Options configures the engine
type Options struct {
	Detector       detector.Options
	MinPreviewConf float64
	// RulesFile replaces the embedded rule table when set
	RulesFile string
}

// DefaultOptions returns the built-in parameters
func DefaultOptions() Options {
	return Options{
		Detector:       detector.DefaultOptions(),
		MinPreviewConf: DefaultMinPreviewConf,
	}
}

// OptionsFromConfig reads CORE_ENGINE_* on top of the defaults
func OptionsFromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_ENGINE_")
	return Options{
		Detector:       detector.OptionsFromConfig(cfg),
		MinPreviewConf: c.MayUnit("MIN_PREVIEW_CONF", DefaultMinPreviewConf),
		RulesFile:      c.MayString("RULES_FILE", ""),
	}
}

// LoadRepository builds the policy from opts.RulesFile or the embedded table.
// A nil embedder leaves the semantic pass off
func LoadRepository(ctx context.Context, opts Options, e embed.Embedder) (*policy.Repository, error) {
	var bo []policy.BuildOption
	if e != nil {
		bo = append(bo, policy.WithEmbedder(e))
	}
	if opts.RulesFile == "" {
		return policy.Default(ctx, bo...)
	}
	table, err := policy.LoadTable(opts.RulesFile)
	if err != nil {
		return nil, err
	}
	bo = append(bo, policy.WithPolicyVersion(table.PolicyVersion))
	repo, err := policy.Build(ctx, table.Rules, bo...)
	if err != nil {
		return nil, err
	}
	logger.Named("engine").Info().Str("rules_file", opts.RulesFile).Int("rules", repo.Len()).Msg("loaded alternate rule table")
	return repo, nil
}
