// Package cli implements the liferec-check command line: analyze, rewrite,
// bytes and rules over a file or stdin, printing JSON
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"liferec/internal/core/embed"
	"liferec/internal/core/engine"
	"liferec/internal/core/version"
	"liferec/internal/platform/config"
	perr "liferec/internal/platform/errors"
	"liferec/internal/platform/logger"
	"liferec/internal/platform/net/http/bind"
	checksvc "liferec/internal/services/api/check/service"

	"github.com/spf13/cobra"
)

// ErrHitsFound is returned by analyze with --fail-on-hits when the text has
// at least one hit
var ErrHitsFound = errors.New("hits found")

// ServiceName identifies the CLI in logs and version output
const ServiceName = "liferec-check"

type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	cfg    config.Conf

	policyVersion string
	minConf       float64
	rulesFile     string
	semantic      bool
	pretty        bool
	logLevel      string
}

// NewRootCmd builds the command tree over the given streams
func NewRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, cfg: config.New()}

	root := &cobra.Command{
		Use:   "liferec-check",
		Short: "Check school-record text against the record-writing policy",
		Long: `liferec-check annotates school-record text with policy hits: brand and
service names, foreign abbreviations, language-test mentions, hanja and
special marks. It can propose a rewrite and report byte and character counts.

Input is read from the file argument, or stdin when it is absent or "-".
Output is JSON on stdout; logs go to stderr.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts := logger.FromEnv()
			opts.Writer = a.errOut
			opts.Service = ServiceName
			if cmd.Flags().Changed("log-level") || os.Getenv("LOG_LEVEL") == "" {
				opts.Level = a.logLevel
			}
			logger.Init(opts)
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.policyVersion, "policy-version", "", "policy version to echo, e.g. 2024-03 (default: the rule table's)")
	pf.Float64Var(&a.minConf, "min-conf", 0, "auto-apply threshold (default: CORE_ENGINE_MIN_PREVIEW_CONF or 0.90)")
	pf.StringVar(&a.rulesFile, "rules", "", "alternate YAML rule table (default: CORE_ENGINE_RULES_FILE or the embedded table)")
	pf.BoolVar(&a.semantic, "semantic", false, "enable the embedding pass using CORE_EMBED_* settings")
	pf.BoolVar(&a.pretty, "pretty", false, "indent JSON output")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		a.analyzeCmd(),
		a.rewriteCmd(),
		a.bytesCmd(),
		a.rulesCmd(),
		a.versionCmd(),
	)
	return root
}

// Execute runs the command line over the process streams
func Execute() error {
	return NewRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute()
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.write(version.Info(ServiceName))
		},
	}
}

// service loads the rule table and wraps it in an engine for one run
func (a *app) service(ctx context.Context) (*checksvc.Svc, error) {
	if err := bind.Get().Validator.Var(a.policyVersion, "omitempty,policyver"); err != nil {
		return nil, perr.InvalidArgf("--policy-version %q must look like 2024-03", a.policyVersion)
	}
	if a.minConf < 0 || a.minConf > 1 {
		return nil, perr.InvalidArgf("--min-conf %v must be within [0,1]", a.minConf)
	}

	opts := engine.OptionsFromConfig(a.cfg)
	if a.rulesFile != "" {
		opts.RulesFile = a.rulesFile
	}
	if a.minConf > 0 {
		opts.MinPreviewConf = a.minConf
	}

	var emb embed.Embedder
	if a.semantic {
		e, err := embed.FromConfig(embed.ConfigFromEnv(a.cfg))
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, perr.InvalidArgf("--semantic needs CORE_EMBED_PROVIDER")
		}
		emb = e
	}

	repo, err := engine.LoadRepository(ctx, opts, emb)
	if err != nil {
		return nil, err
	}
	return checksvc.New(engine.New(repo, opts)), nil
}

// readInput returns the file named by args[0], or stdin
func (a *app) readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(a.in)
		if err != nil {
			return "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "read stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read %s", args[0])
	}
	return string(b), nil
}

func (a *app) write(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetEscapeHTML(false)
	if a.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
