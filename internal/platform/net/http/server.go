package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"liferec/internal/platform/config"
	"liferec/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// ServerConfig holds listener settings
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownGrace     time.Duration
}

// ServerConfigFromEnv reads CORE_API_* settings
func ServerConfigFromEnv(cfg config.Conf) ServerConfig {
	c := cfg.Prefix("CORE_API_")
	return ServerConfig{
		Addr:              c.MayString("ADDR", c.MayPort("PORT", 7860)),
		ReadHeaderTimeout: c.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:       c.MayDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      c.MayDuration("WRITE_TIMEOUT", 60*time.Second),
		ShutdownGrace:     c.MayDuration("SHUTDOWN_GRACE", 10*time.Second),
	}
}

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	cfg ServerConfig
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer creates a server; opts receive the *chi.Mux so callers can
// install middleware before routes are mounted
func NewServer(sc ServerConfig, opts ...func(*chi.Mux)) *Server {
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		cfg: sc,
		mux: m,
		srv: &stdhttp.Server{
			Addr:              sc.Addr,
			Handler:           m,
			ReadHeaderTimeout: sc.ReadHeaderTimeout,
			ReadTimeout:       sc.ReadTimeout,
			WriteTimeout:      sc.WriteTimeout,
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listening address
func (s *Server) Addr() string { return s.cfg.Addr }

// Run listens until ctx is done, then shuts down within ShutdownGrace
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logger.Named("http")
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	grace := s.cfg.ShutdownGrace
	if grace <= 0 {
		grace = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	log.Info().Dur("grace", grace).Msg("http shutting down")
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
