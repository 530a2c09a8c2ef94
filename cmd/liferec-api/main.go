// Command liferec-api serves the policy annotation engine over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"liferec/internal/core/embed"
	"liferec/internal/core/engine"
	"liferec/internal/platform/config"
	"liferec/internal/platform/logger"
	"liferec/internal/platform/metrics"
	phttp "liferec/internal/platform/net/http"

	"liferec/internal/services/api"
)

func main() {
	root := config.New()

	// bring up logging early
	lopts := logger.FromEnv()
	lopts.Service = api.ServiceName
	logger.Init(lopts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// embedding provider (CORE_EMBED_*); nil leaves the semantic pass off
	emb, err := embed.FromConfig(embed.ConfigFromEnv(root))
	if err != nil {
		l.Fatal().Err(err).Msg("embed.FromConfig failed")
	}

	// rule table and engine (CORE_ENGINE_*)
	engOpts := engine.OptionsFromConfig(root)
	repo, err := engine.LoadRepository(ctx, engOpts, emb)
	if err != nil {
		l.Fatal().Err(err).Msg("rule table failed to load")
	}
	collector := metrics.New(nil)
	eng := engine.New(repo, engOpts, engine.WithObserver(collector))

	l.Info().
		Str("policy_version", repo.PolicyVersion()).
		Int("rules", repo.Len()).
		Bool("semantic", repo.SemanticEnabled()).
		Msg("engine ready")

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(phttp.ServerConfigFromEnv(root))

	opt := api.OptionsFromConfig(root)
	opt.Engine = eng
	opt.Metrics = collector
	opt.Embedder = emb
	api.Mount(srv.Router(), opt)

	// run until SIGINT/SIGTERM
	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
