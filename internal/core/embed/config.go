package embed

import (
	"strings"
	"time"

	"liferec/internal/platform/config"
	perr "liferec/internal/platform/errors"
)

// Config selects and tunes the embedding provider
type Config struct {
	Provider string // "" or "none" disables the semantic pass
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	RPS      float64 // <= 0 disables throttling
	Burst    int
	CacheTTL time.Duration // < 0 disables caching, 0 keeps forever
}

// ConfigFromEnv reads CORE_EMBED_* style keys from cfg
func ConfigFromEnv(cfg config.Conf) Config {
	c := cfg.Prefix("CORE_EMBED_")
	return Config{
		Provider: c.MayEnum("PROVIDER", "", "openai", "none"),
		Model:    c.MayString("MODEL", DefaultModel),
		BaseURL:  c.MayString("BASE_URL", ""),
		APIKey:   c.MayString("API_KEY", ""),
		Timeout:  c.MayDuration("TIMEOUT", 5*time.Second),
		RPS:      c.MayFloat64("RPS", 0),
		Burst:    c.MayInt("BURST", 4),
		CacheTTL: c.MayDuration("CACHE_TTL", time.Hour),
	}
}

// FromConfig builds the configured embedder stack: provider, then rate
// limit, then cache. A nil Embedder with nil error means disabled
func FromConfig(c Config) (Embedder, error) {
	var e Embedder
	switch strings.ToLower(c.Provider) {
	case "", "none":
		return nil, nil
	case "openai":
		o, err := NewOpenAI(c)
		if err != nil {
			return nil, err
		}
		e = o
	default:
		return nil, perr.InvalidArgf("embed: unknown provider %q", c.Provider)
	}
	if c.RPS > 0 {
		e = NewLimited(e, c.RPS, c.Burst)
	}
	if c.CacheTTL >= 0 {
		e = NewCached(e, c.CacheTTL)
	}
	return e, nil
}
