// Package logger owns the process zerolog root and the request-scoped
// children handed to the engine and transport layers
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"liferec/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the logging type shared across packages
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string
	Format      string // json or console
	Service     string
	Component   string
	Writer      io.Writer
	WithCaller  bool
	SampleEvery int
	Fields      map[string]string
}

// FromEnv reads LOG_* through the raw config view, which never logs
func FromEnv() Options {
	env := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(env.Get("LEVEL", "info")),
		Format:      strings.ToLower(env.Get("FORMAT", "json")),
		Service:     env.Get("SERVICE", "liferec"),
		Component:   env.Get("COMPONENT", ""),
		WithCaller:  env.GetBool("CALLER", false),
		SampleEvery: env.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	initOnce sync.Once
	rootLog  atomic.Pointer[Logger]
)

// Init builds the root logger. Only the first call has effect
func Init(opt Options) {
	initOnce.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := build(opt)
		rootLog.Store(&l)
	})
}

func build(opt Options) Logger {
	out := opt.Writer
	if out == nil {
		out = os.Stdout
	}
	if opt.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	c := zerolog.New(out).Level(levelOf(opt.Level)).With().Timestamp()
	for k, v := range map[string]string{"service": opt.Service, "component": opt.Component} {
		if v != "" {
			c = c.Str(k, v)
		}
	}
	for k, v := range opt.Fields {
		c = c.Str(k, v)
	}
	if opt.WithCaller {
		c = c.Caller()
	}

	l := c.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// levelOf accepts zerolog level names plus "warning"; anything else is info
func levelOf(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Get returns the root logger, initialising it from env on first use
func Get() *Logger {
	if l := rootLog.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return rootLog.Load()
}

// Named returns a child logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}

type field string

const (
	fieldRequestID     field = "request_id"
	fieldPolicyVersion field = "policy_version"
)

var ctxFields = []field{fieldRequestID, fieldPolicyVersion}

// WithRequest stores the request id and requested policy version on ctx.
// Empty values are not stored
func WithRequest(ctx context.Context, reqID, policyVersion string) context.Context {
	for f, v := range map[field]string{fieldRequestID: reqID, fieldPolicyVersion: policyVersion} {
		if v != "" {
			ctx = context.WithValue(ctx, f, v)
		}
	}
	return ctx
}

// C returns the root logger carrying whatever request fields ctx holds
func C(ctx context.Context) *Logger {
	c := Get().With()
	for _, f := range ctxFields {
		if v, _ := ctx.Value(f).(string); v != "" {
			c = c.Str(string(f), v)
		}
	}
	l := c.Logger()
	return &l
}
