package cli

import (
	"fmt"

	perr "liferec/internal/platform/errors"
	"liferec/internal/platform/net/http/bind"
	"liferec/internal/services/api/check/domain"

	"github.com/spf13/cobra"
)

func (a *app) analyzeInput(args []string) (domain.AnalyzeInput, error) {
	text, err := a.readInput(args)
	if err != nil {
		return domain.AnalyzeInput{}, err
	}
	return domain.AnalyzeInput{Text: text, PolicyVersion: a.policyVersion}, nil
}

func (a *app) analyzeCmd() *cobra.Command {
	var failOnHits bool
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Annotate text with policy hits",
		Example: `  liferec-check analyze record.txt
  echo "유엔(UN) 회의에 참석함" | liferec-check analyze --pretty
  liferec-check analyze --fail-on-hits record.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.analyzeInput(args)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Analyze(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err := a.write(out); err != nil {
				return err
			}
			if failOnHits && len(out.Hits) > 0 {
				return ErrHitsFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnHits, "fail-on-hits", false, "exit with status 2 when any hit is found")
	return cmd
}

func (a *app) rewriteCmd() *cobra.Command {
	var textOnly bool
	cmd := &cobra.Command{
		Use:   "rewrite [file]",
		Short: "Apply every auto-applicable edit and print the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.analyzeInput(args)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Rewrite(cmd.Context(), in)
			if err != nil {
				return err
			}
			if textOnly {
				_, err := fmt.Fprint(a.out, out.Text)
				return err
			}
			return a.write(out)
		},
	}
	cmd.Flags().BoolVar(&textOnly, "text", false, "print only the rewritten text")
	return cmd
}

func (a *app) bytesCmd() *cobra.Command {
	var (
		normalize bool
		n         domain.NormalizeInput
	)
	cmd := &cobra.Command{
		Use:   "bytes [file]",
		Short: "Report byte and character counts and suspicious whitespace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(args)
			if err != nil {
				return err
			}
			in := domain.BytesInput{Text: text}
			if normalize || cmd.Flags().Changed("newline") {
				in.Normalize = &n
			}
			if err := bind.Get().Validator.Struct(in); err != nil {
				field, msg := bind.FieldAndMessage(err)
				return perr.WithField(perr.InvalidArgf("%s", msg), field)
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := svc.Bytes(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.write(rep)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&normalize, "normalize", false, "include the normalized text and its byte length")
	f.StringVar(&n.Newline, "newline", "lf", "newline mode for normalization: keep, lf or crlf")
	f.BoolVar(&n.ReplaceNBSP, "replace-nbsp", true, "turn NBSP-like spaces into plain spaces")
	f.BoolVar(&n.RemoveZeroWidth, "remove-zero-width", true, "drop zero-width characters")
	f.BoolVar(&n.StripControls, "strip-controls", false, "drop stray control characters")
	f.BoolVar(&n.Compose, "compose", false, "compose to NFC")
	f.BoolVar(&n.CollapseSpaces, "collapse-spaces", false, "collapse runs of spaces")
	return cmd
}

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the active rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			out, err := svc.Rules(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(out)
		},
	}
}
