package domain

import (
	"context"

	"liferec/internal/core/normalize"
)

// ServicePort is consumed by handlers and the CLI
type ServicePort interface {
	Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error)
	Rewrite(ctx context.Context, in AnalyzeInput) (RewriteOutput, error)
	Bytes(ctx context.Context, in BytesInput) (normalize.Report, error)
	Rules(ctx context.Context) (RulesOutput, error)
}
